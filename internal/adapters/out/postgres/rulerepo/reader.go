package rulerepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
)

// GormRuleReader implements ports.RuleReader and ports.RuleFailureReader.
type GormRuleReader struct {
	db *gorm.DB
}

func NewGormRuleReader(db *gorm.DB) *GormRuleReader {
	return &GormRuleReader{db: db}
}

func (r *GormRuleReader) ListRules(ctx context.Context) ([]workflow.RuleSnapshot, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Order("created_at").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]workflow.RuleSnapshot, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type failureRow struct {
	ExecutionID uuid.UUID
	RuleID      uuid.UUID
	EventType   string
	OrderID     uuid.UUID
	ExecutedAt  time.Time
	ActionIndex int
	ActionKind  string
	Fatal       bool
	Cause       string
}

// ListFailures returns failed actions, newest execution first.
func (r *GormRuleReader) ListFailures(ctx context.Context, filter ports.FailureFilter) ([]workflow.FailureRecord, error) {
	q := r.db.WithContext(ctx).
		Table("workflow_action_failures AS f").
		Select("e.id AS execution_id, e.rule_id, e.event_type, e.order_id, e.executed_at, " +
			"f.action_index, f.action_kind, f.fatal, f.cause").
		Joins("JOIN workflow_rule_executions AS e ON e.id = f.execution_id")
	if filter.RuleID != nil {
		q = q.Where("e.rule_id = ?", filter.RuleID.Bytes())
	}
	if filter.OrderID != nil {
		q = q.Where("e.order_id = ?", filter.OrderID.Bytes())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []failureRow
	if err := q.Order("e.executed_at DESC").Order("f.action_index").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]workflow.FailureRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (row failureRow) toRecord() (workflow.FailureRecord, error) {
	executionID, err := kernel.UUIDFromGoogle(row.ExecutionID)
	if err != nil {
		return workflow.FailureRecord{}, err
	}
	ruleID, err := kernel.UUIDFromGoogle(row.RuleID)
	if err != nil {
		return workflow.FailureRecord{}, err
	}
	orderID, err := kernel.UUIDFromGoogle(row.OrderID)
	if err != nil {
		return workflow.FailureRecord{}, err
	}
	return workflow.FailureRecord{
		ExecutionID: executionID,
		RuleID:      ruleID,
		EventType:   order.EventType(row.EventType),
		OrderID:     orderID,
		ExecutedAt:  row.ExecutedAt.UTC(),
		ActionFailure: workflow.ActionFailure{
			ActionIndex: row.ActionIndex,
			ActionKind:  workflow.ActionKind(row.ActionKind),
			Fatal:       row.Fatal,
			Cause:       row.Cause,
		},
	}, nil
}
