package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bitversity/cmd"
	"bitversity/internal/adapters/out/postgres"
	"bitversity/internal/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env", ".env.local")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := configs.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.OtelEnabled {
		shutdown, tErr := tracing.Setup(ctx, configs.OtelServiceName)
		if tErr != nil {
			log.Fatalf("Error setting up tracing: %v", tErr)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if sErr := shutdown(flushCtx); sErr != nil {
				logger.Error("failed to flush traces", "error", sErr)
			}
		}()
	}

	app := cmd.NewCompositionRoot(configs, mustStorage(configs), logger)
	defer func() {
		if cErr := app.Close(); cErr != nil {
			logger.Error("failed to close event bus", "error", cErr)
		}
	}()

	if err = app.RuleCache().Refresh(ctx); err != nil {
		log.Fatalf("Error loading workflow rules: %v", err)
	}

	go func() {
		if aErr := app.CreateAuditSubscriber().Run(ctx); aErr != nil {
			logger.Error("audit subscriber stopped", "error", aErr)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatal("Failed to start jobs:", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func mustStorage(configs cmd.Config) cmd.Storage {
	if configs.StorageDriver == cmd.StorageMemory {
		return cmd.NewMemoryStorage()
	}

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return cmd.NewPostgresStorage(db)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e, err := app.CreateRouter(ctx)
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()
	logger.Info("http server started", "port", port)

	select {
	case <-ctx.Done():
	case sErr := <-errCh:
		if !errors.Is(sErr, http.ErrServerClosed) {
			logger.Error("http server failed", "error", sErr)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}
