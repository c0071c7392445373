// Package rulerepo persists workflow rules and their execution audit.
// Conditions and actions are stored as JSON documents so that rules written
// by older versions still load; undecodable parts surface as
// non-matching conditions or malformed actions.
package rulerepo

import (
	"time"

	"github.com/google/uuid"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
)

type RuleDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"size:200;not null"`
	Description    string     `gorm:"type:text"`
	IsActive       bool       `gorm:"index;not null"`
	TriggerEvent   string     `gorm:"size:64;index;not null"`
	Conditions     []byte     `gorm:"type:jsonb;not null"`
	Actions        []byte     `gorm:"type:jsonb;not null"`
	ExecutionCount int        `gorm:"not null;default:0"`
	LastExecutedAt *time.Time `gorm:"type:timestamptz"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"index"`
	UpdatedAt      time.Time
}

func (RuleDTO) TableName() string {
	return "workflow_rules"
}

// ExecutionDTO is one matched rule run.
type ExecutionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RuleID     uuid.UUID `gorm:"type:uuid;index;not null"`
	EventID    uuid.UUID `gorm:"type:uuid;not null"`
	EventType  string    `gorm:"size:64;not null"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Succeeded  bool      `gorm:"not null"`
	ExecutedAt time.Time `gorm:"index;not null"`

	Failures []FailureDTO `gorm:"foreignKey:ExecutionID;constraint:OnDelete:CASCADE"`
}

func (ExecutionDTO) TableName() string {
	return "workflow_rule_executions"
}

// FailureDTO is one failed action of an execution.
type FailureDTO struct {
	ID          uint      `gorm:"primaryKey"`
	ExecutionID uuid.UUID `gorm:"type:uuid;index;not null"`
	ActionIndex int       `gorm:"not null"`
	ActionKind  string    `gorm:"size:64;not null"`
	Fatal       bool      `gorm:"not null"`
	Cause       string    `gorm:"type:text"`
}

func (FailureDTO) TableName() string {
	return "workflow_action_failures"
}

func fromDomain(s workflow.RuleSnapshot) (RuleDTO, error) {
	conditions, err := workflow.EncodeConditions(s.Conditions)
	if err != nil {
		return RuleDTO{}, err
	}
	actions, err := workflow.EncodeActions(s.Actions)
	if err != nil {
		return RuleDTO{}, err
	}

	var createdBy *uuid.UUID
	if s.CreatedBy != nil {
		raw := s.CreatedBy.Bytes()
		createdBy = &raw
	}

	return RuleDTO{
		ID:             s.ID.Bytes(),
		Name:           s.Name,
		Description:    s.Description,
		IsActive:       s.IsActive,
		TriggerEvent:   s.Trigger.String(),
		Conditions:     conditions,
		Actions:        actions,
		ExecutionCount: s.ExecutionCount,
		LastExecutedAt: s.LastExecutedAt,
		CreatedBy:      createdBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}, nil
}

// toSnapshot never fails on the JSON columns: broken conditions are carried
// in ConditionsErr and broken actions become workflow.MalformedAction.
func toSnapshot(dto RuleDTO) (workflow.RuleSnapshot, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return workflow.RuleSnapshot{}, err
	}

	var createdBy *kernel.UUID
	if dto.CreatedBy != nil {
		by, byErr := kernel.UUIDFromGoogle(*dto.CreatedBy)
		if byErr != nil {
			return workflow.RuleSnapshot{}, byErr
		}
		createdBy = &by
	}

	conditions, conditionsErr := workflow.DecodeConditions(dto.Conditions)

	var lastExecuted *time.Time
	if dto.LastExecutedAt != nil {
		t := dto.LastExecutedAt.UTC()
		lastExecuted = &t
	}

	return workflow.RuleSnapshot{
		ID:             id,
		Name:           dto.Name,
		Description:    dto.Description,
		IsActive:       dto.IsActive,
		Trigger:        order.EventType(dto.TriggerEvent),
		Conditions:     conditions,
		ConditionsErr:  conditionsErr,
		Actions:        workflow.DecodeActions(dto.Actions),
		ExecutionCount: dto.ExecutionCount,
		LastExecutedAt: lastExecuted,
		CreatedBy:      createdBy,
		CreatedAt:      dto.CreatedAt.UTC(),
		UpdatedAt:      dto.UpdatedAt.UTC(),
	}, nil
}

func toDomain(dto RuleDTO) (*workflow.Rule, error) {
	s, err := toSnapshot(dto)
	if err != nil {
		return nil, err
	}
	return workflow.RestoreRule(s)
}

func executionFromDomain(e workflow.Execution) ExecutionDTO {
	failures := make([]FailureDTO, 0, len(e.Failures))
	for _, f := range e.Failures {
		failures = append(failures, FailureDTO{
			ActionIndex: f.ActionIndex,
			ActionKind:  string(f.ActionKind),
			Fatal:       f.Fatal,
			Cause:       f.Cause,
		})
	}
	return ExecutionDTO{
		ID:         e.ID.Bytes(),
		RuleID:     e.RuleID.Bytes(),
		EventID:    e.EventID.Bytes(),
		EventType:  e.EventType.String(),
		OrderID:    e.OrderID.Bytes(),
		Succeeded:  e.Succeeded,
		ExecutedAt: e.ExecutedAt,
		Failures:   failures,
	}
}
