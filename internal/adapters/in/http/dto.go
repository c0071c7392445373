package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/domain/model/workflow"
)

type createOrderRequest struct {
	CustomerID  uuid.UUID        `json:"customerId"  validate:"required"`
	Type        string           `json:"type"        validate:"required"`
	Title       string           `json:"title"       validate:"required"`
	Description string           `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	Priority    string           `json:"priority"`
}

type transitionRequest struct {
	Status          string `json:"status"          validate:"required"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
	ExpectedVersion *int   `json:"expectedVersion"`
}

type priceRequest struct {
	Price                   decimal.Decimal `json:"price"`
	EstimatedCompletionDate *time.Time      `json:"estimatedCompletionDate"`
	ExpectedVersion         *int            `json:"expectedVersion"`
}

type assignRequest struct {
	AdminID         uuid.UUID `json:"adminId"         validate:"required"`
	ExpectedVersion *int      `json:"expectedVersion"`
}

type paymentRequest struct {
	Status          string `json:"status"          validate:"required"`
	ExpectedVersion *int   `json:"expectedVersion"`
}

type bulkRequest struct {
	OrderIDs     []uuid.UUID `json:"orderIds"     validate:"required,min=1"`
	Action       string      `json:"action"       validate:"required,oneof=transition assign"`
	Status       string      `json:"status"       validate:"required_if=Action transition"`
	Reason       string      `json:"reason"`
	Notes        string      `json:"notes"`
	AdminID      *uuid.UUID  `json:"adminId"      validate:"required_if=Action assign"`
	OnlyEligible bool        `json:"onlyEligible"`
}

type actionRequest struct {
	Kind   string          `json:"kind"   validate:"required"`
	Params json.RawMessage `json:"params"`
}

type ruleRequest struct {
	Name        string               `json:"name"        validate:"required"`
	Description string               `json:"description"`
	Trigger     string               `json:"trigger"     validate:"required"`
	Conditions  []workflow.Condition `json:"conditions"`
	Actions     []actionRequest      `json:"actions"     validate:"required,min=1,dive"`
	IsActive    *bool                `json:"isActive"`
}

// definition converts the request; malformed actions are kept so that the
// rule validation reports them with their position.
func (r ruleRequest) definition() workflow.Definition {
	actions := make([]workflow.Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		actions = append(actions, workflow.DecodeAction(a.Kind, a.Params))
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return workflow.Definition{
		Name:        r.Name,
		Description: r.Description,
		Trigger:     order.EventType(r.Trigger),
		Conditions:  workflow.Conditions(r.Conditions),
		Actions:     actions,
		IsActive:    active,
	}
}

type toggleRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type createTaskRequest struct {
	OrderID        *uuid.UUID       `json:"orderId"`
	Title          string           `json:"title"          validate:"required"`
	Description    string           `json:"description"`
	Priority       string           `json:"priority"`
	DueDate        *time.Time       `json:"dueDate"`
	AssigneeID     *uuid.UUID       `json:"assigneeId"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

type taskStatusRequest struct {
	Status      string           `json:"status"      validate:"required"`
	ActualHours *decimal.Decimal `json:"actualHours"`
}

type orderResponse struct {
	ID                      string           `json:"id"`
	CustomerID              string           `json:"customerId"`
	Type                    string           `json:"type"`
	Title                   string           `json:"title"`
	Description             string           `json:"description"`
	Budget                  *decimal.Decimal `json:"budget,omitempty"`
	Status                  string           `json:"status"`
	Priority                string           `json:"priority"`
	AssignedAdmin           *string          `json:"assignedAdmin,omitempty"`
	CustomPrice             *decimal.Decimal `json:"customPrice,omitempty"`
	EstimatedCompletionDate *time.Time       `json:"estimatedCompletionDate,omitempty"`
	RejectionReason         string           `json:"rejectionReason,omitempty"`
	AdminNotes              string           `json:"adminNotes,omitempty"`
	PaymentStatus           string           `json:"paymentStatus"`
	Version                 int              `json:"version"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

func toOrderResponse(s order.Snapshot) orderResponse {
	return orderResponse{
		ID:                      s.ID.String(),
		CustomerID:              s.CustomerID.String(),
		Type:                    s.Type.String(),
		Title:                   s.Title,
		Description:             s.Description,
		Budget:                  moneyAmount(s.Budget),
		Status:                  s.Status.String(),
		Priority:                s.Priority.String(),
		AssignedAdmin:           optionalID(s.AssignedAdmin),
		CustomPrice:             moneyAmount(s.CustomPrice),
		EstimatedCompletionDate: s.EstimatedCompletionDate,
		RejectionReason:         s.RejectionReason,
		AdminNotes:              s.AdminNotes,
		PaymentStatus:           s.PaymentStatus.String(),
		Version:                 s.Version,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

func toOrderResponses(list []order.Snapshot) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toOrderResponse(s))
	}
	return out
}

type bulkFailureResponse struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type bulkResponse struct {
	Succeeded int                   `json:"succeeded"`
	Skipped   int                   `json:"skipped"`
	Failed    []bulkFailureResponse `json:"failed"`
}

type ruleResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Trigger        string               `json:"trigger"`
	Conditions     []workflow.Condition `json:"conditions"`
	Actions        json.RawMessage      `json:"actions"`
	IsActive       bool                 `json:"isActive"`
	ExecutionCount int                  `json:"executionCount"`
	LastExecutedAt *time.Time           `json:"lastExecutedAt,omitempty"`
	CreatedBy      *string              `json:"createdBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func toRuleResponse(s workflow.RuleSnapshot) ruleResponse {
	conditions := []workflow.Condition(s.Conditions)
	if conditions == nil {
		conditions = []workflow.Condition{}
	}
	actions, err := workflow.EncodeActions(s.Actions)
	if err != nil {
		// malformed stored actions cannot be re-encoded
		actions = []byte("[]")
	}
	return ruleResponse{
		ID:             s.ID.String(),
		Name:           s.Name,
		Description:    s.Description,
		Trigger:        s.Trigger.String(),
		Conditions:     conditions,
		Actions:        actions,
		IsActive:       s.IsActive,
		ExecutionCount: s.ExecutionCount,
		LastExecutedAt: s.LastExecutedAt,
		CreatedBy:      optionalID(s.CreatedBy),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type ruleFailureResponse struct {
	ExecutionID string    `json:"executionId"`
	RuleID      string    `json:"ruleId"`
	EventType   string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	ExecutedAt  time.Time `json:"executedAt"`
	ActionIndex int       `json:"actionIndex"`
	ActionKind  string    `json:"actionKind"`
	Fatal       bool      `json:"fatal"`
	Cause       string    `json:"cause"`
}

func toRuleFailureResponse(r workflow.FailureRecord) ruleFailureResponse {
	return ruleFailureResponse{
		ExecutionID: r.ExecutionID.String(),
		RuleID:      r.RuleID.String(),
		EventType:   r.EventType.String(),
		OrderID:     r.OrderID.String(),
		ExecutedAt:  r.ExecutedAt,
		ActionIndex: r.ActionIndex,
		ActionKind:  string(r.ActionKind),
		Fatal:       r.Fatal,
		Cause:       r.Cause,
	}
}

type notificationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata"`
	OrderID   *string           `json:"orderId,omitempty"`
	ReadAt    *time.Time        `json:"readAt,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toNotificationResponse(s notification.Snapshot) notificationResponse {
	metadata := s.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return notificationResponse{
		ID:        s.ID.String(),
		Type:      string(s.Type),
		Message:   s.Message,
		Metadata:  metadata,
		OrderID:   optionalID(s.OrderID),
		ReadAt:    s.ReadAt,
		CreatedAt: s.CreatedAt,
	}
}

type taskResponse struct {
	ID             string           `json:"id"`
	OrderID        *string          `json:"orderId,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	AssignedAdmin  *string          `json:"assignedAdmin,omitempty"`
	AssignedBy     *string          `json:"assignedBy,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours,omitempty"`
	ActualHours    *decimal.Decimal `json:"actualHours,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toTaskResponse(s task.Snapshot) taskResponse {
	return taskResponse{
		ID:             s.ID.String(),
		OrderID:        optionalID(s.OrderID),
		Title:          s.Title,
		Description:    s.Description,
		Status:         s.Status.String(),
		Priority:       s.Priority.String(),
		DueDate:        s.DueDate,
		AssignedAdmin:  optionalID(s.AssignedAdmin),
		AssignedBy:     optionalID(s.AssignedBy),
		EstimatedHours: s.EstimatedHours,
		ActualHours:    s.ActualHours,
		CompletedAt:    s.CompletedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func moneyAmount(m *kernel.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	amount := m.Amount()
	return &amount
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func fromGoogle(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
