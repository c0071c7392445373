package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort             string        `env:"HTTP_PORT"              envDefault:"8080"`
	StorageDriver        string        `env:"STORAGE_DRIVER"         envDefault:"postgres"`
	DBHost               string        `env:"DB_HOST"                envDefault:"localhost"`
	DBPort               string        `env:"DB_PORT"                envDefault:"5432"`
	DBUser               string        `env:"DB_USER"                envDefault:"postgres"`
	DBPassword           string        `env:"DB_PASSWORD"`
	DBName               string        `env:"DB_NAME"                envDefault:"bitversity"`
	DBSslMode            string        `env:"DB_SSLMODE"             envDefault:"disable"`
	LogLevel             string        `env:"LOG_LEVEL"              envDefault:"info"`
	ActionTimeout        time.Duration `env:"ACTION_TIMEOUT"         envDefault:"5s"`
	RuleCacheTTL         time.Duration `env:"RULE_CACHE_TTL"         envDefault:"30s"`
	BulkWorkers          int           `env:"BULK_WORKERS"           envDefault:"4"`
	TaskReminderSchedule string        `env:"TASK_REMINDER_SCHEDULE" envDefault:"0 0 * * * *"`
	OtelEnabled          bool          `env:"OTEL_ENABLED"`
	OtelServiceName      string        `env:"OTEL_SERVICE_NAME"      envDefault:"bitversity-orders"`
	OpenAPIValidation    bool          `env:"OPENAPI_VALIDATION"     envDefault:"true"`
}

// LoadConfig reads the optional env files and then the process environment.
// Variables already set in the environment win over the files.
func LoadConfig(envFiles ...string) (Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var joined []error
	if c.StorageDriver != StorageMemory && c.StorageDriver != StoragePostgres {
		joined = append(joined, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q",
			StorageMemory, StoragePostgres, c.StorageDriver))
	}
	if c.BulkWorkers < 1 {
		joined = append(joined, fmt.Errorf("BULK_WORKERS must be positive, got %d", c.BulkWorkers))
	}
	if c.ActionTimeout <= 0 {
		joined = append(joined, errors.New("ACTION_TIMEOUT must be positive"))
	}
	if c.RuleCacheTTL < time.Second {
		joined = append(joined, errors.New("RULE_CACHE_TTL must be at least one second"))
	}
	return errors.Join(joined...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Logger builds the process logger; unknown levels fall back to info.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
