// Package http exposes the order, workflow and inbox use cases over a JSON
// API described by the embedded OpenAPI document.
package http

import (
	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/application/usecases/queries"
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder         commands.CreateOrderCommandHandler
	TransitionOrder     commands.TransitionOrderCommandHandler
	SetOrderPrice       commands.SetOrderPriceCommandHandler
	AssignOrder         commands.AssignOrderCommandHandler
	UpdatePaymentStatus commands.UpdatePaymentStatusCommandHandler
	BulkOrders          commands.BulkOrderCommandHandler
	CreateRule          commands.CreateWorkflowRuleCommandHandler
	UpdateRule          commands.UpdateWorkflowRuleCommandHandler
	DeleteRule          commands.DeleteWorkflowRuleCommandHandler
	ToggleRule          commands.ToggleWorkflowRuleCommandHandler
	MarkRead            commands.MarkNotificationReadCommandHandler
	CreateTask          commands.CreateTaskCommandHandler
	UpdateTaskStatus    commands.UpdateTaskStatusCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	ListRules         queries.ListWorkflowRulesQueryHandler
	ListRuleFailures  queries.ListRuleFailuresQueryHandler
	ListNotifications queries.ListNotificationsQueryHandler
	ListTasks         queries.ListTasksQueryHandler
}

// Server implements the HTTP handlers. It coordinates between the
// transport and the application use cases and holds no state of its own.
type Server struct {
	h Handlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h}
}
