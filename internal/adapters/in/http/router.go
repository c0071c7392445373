package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bitversity/internal/pkg/metrics"
)

// RouterOptions tune NewRouter.
type RouterOptions struct {
	// OpenAPIValidation validates every /api request against the embedded
	// document before it reaches a handler.
	OpenAPIValidation bool
	Logger            *slog.Logger
}

// NewRouter builds the echo instance serving the API, the Swagger UI at
// /swagger/, Prometheus metrics at /metrics and a liveness probe at /health.
func NewRouter(ctx context.Context, s *Server, opts RouterOptions) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID))
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	if opts.OpenAPIValidation {
		validate, vErr := OpenAPIValidator(doc)
		if vErr != nil {
			return nil, vErr
		}
		api.Use(validate)
	}

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders, RequireActor)
	api.POST("/orders/bulk", s.BulkOrders, RequireActor)
	api.GET("/orders/:orderId", s.GetOrder, RequireActor)
	api.POST("/orders/:orderId/transitions", s.TransitionOrder, RequireActor)
	api.PUT("/orders/:orderId/price", s.SetOrderPrice, RequireActor)
	api.PUT("/orders/:orderId/assignee", s.AssignOrder, RequireActor)
	api.PUT("/orders/:orderId/payment", s.UpdatePaymentStatus, RequireActor)

	api.GET("/workflow-rules", s.ListWorkflowRules, RequireActor)
	api.POST("/workflow-rules", s.CreateWorkflowRule, RequireActor)
	api.PUT("/workflow-rules/:ruleId", s.UpdateWorkflowRule, RequireActor)
	api.DELETE("/workflow-rules/:ruleId", s.DeleteWorkflowRule, RequireActor)
	api.POST("/workflow-rules/:ruleId/toggle", s.ToggleWorkflowRule, RequireActor)
	api.GET("/rule-failures", s.ListRuleFailures, RequireActor)

	api.GET("/notifications", s.ListNotifications, RequireActor)
	api.POST("/notifications/:notificationId/read", s.MarkNotificationRead, RequireActor)

	api.GET("/tasks", s.ListTasks, RequireActor)
	api.POST("/tasks", s.CreateTask, RequireActor)
	api.PUT("/tasks/:taskId/status", s.UpdateTaskStatus, RequireActor)

	return e, nil
}
