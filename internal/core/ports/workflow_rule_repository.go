package ports

import (
	"context"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/workflow"
)

// WorkflowRuleRepository defines the persistence contract for workflow rules.
type WorkflowRuleRepository interface {
	Add(ctx context.Context, rule *workflow.Rule) error
	Update(ctx context.Context, rule *workflow.Rule) error
	Delete(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*workflow.Rule, error)

	// ListActive returns every active rule; it feeds the rule cache.
	ListActive(ctx context.Context) ([]*workflow.Rule, error)

	// RecordExecution atomically increments the execution counter and sets
	// lastExecutedAt, independent of any rule edits in flight.
	RecordExecution(ctx context.Context, id kernel.UUID, at time.Time) error
}

// RuleReader serves rule read models.
type RuleReader interface {
	ListRules(ctx context.Context) ([]workflow.RuleSnapshot, error)
}

// RuleExecutionLog is the audit trail of matched rule runs.
type RuleExecutionLog interface {
	Record(ctx context.Context, execution workflow.Execution) error
}

// FailureFilter narrows the failure list.
type FailureFilter struct {
	RuleID  *kernel.UUID
	OrderID *kernel.UUID
	Limit   int
}

// RuleFailureReader lists failed actions, newest first.
type RuleFailureReader interface {
	ListFailures(ctx context.Context, filter FailureFilter) ([]workflow.FailureRecord, error)
}
