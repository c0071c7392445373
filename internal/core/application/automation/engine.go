package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"bitversity/internal/core/application/sink"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/domain/services"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/metrics"
	"bitversity/internal/pkg/tracing"
)

const DefaultActionTimeout = 5 * time.Second

// item is one event together with the order state it is evaluated against.
type item struct {
	subject order.Snapshot
	event   order.Event
}

type Engine struct {
	uowFactory    ports.UnitOfWorkFactory
	rules         *RuleCache
	publisher     ports.EventPublisher
	renderer      services.MessageRenderer
	actionTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewEngine builds the rule engine. publisher may be nil; actionTimeout <= 0
// selects DefaultActionTimeout.
func NewEngine(
	uowFactory ports.UnitOfWorkFactory,
	rules *RuleCache,
	publisher ports.EventPublisher,
	actionTimeout time.Duration,
	logger *slog.Logger,
) *Engine {
	if actionTimeout <= 0 {
		actionTimeout = DefaultActionTimeout
	}
	return &Engine{
		uowFactory:    uowFactory,
		rules:         rules,
		publisher:     publisher,
		renderer:      services.NewMessageRenderer(),
		actionTimeout: actionTimeout,
		logger:        logger.With("component", "workflow-engine"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch handles committed events of one order. subject is the order as
// committed together with the events. Failures are logged and recorded in
// the rule execution log; they are never returned to the caller.
func (e *Engine) Dispatch(ctx context.Context, subject order.Snapshot, events []order.Event) {
	if len(events) == 0 {
		return
	}

	batch := make([]item, 0, len(events))
	for _, ev := range events {
		batch = append(batch, item{subject: subject, event: ev})
	}

	followUps := e.pass(ctx, batch)
	if len(followUps) == 0 {
		return
	}

	for _, dropped := range e.pass(ctx, followUps) {
		metrics.Get().EventDropped(dropped.event.Type.String())
		e.logger.WarnContext(ctx, "dropping event produced by a follow-up pass",
			"event_id", dropped.event.ID.String(),
			"event_type", dropped.event.Type.String(),
			"order_id", dropped.event.OrderID.String())
	}
}

func (e *Engine) pass(ctx context.Context, batch []item) []item {
	var followUps []item
	for _, it := range batch {
		followUps = append(followUps, e.handle(ctx, it)...)
	}
	return followUps
}

func (e *Engine) handle(ctx context.Context, it item) []item {
	started := time.Now()
	ev := it.event
	ctx, span := tracing.StartSpan(ctx, "workflow.dispatch",
		attribute.String(tracing.EventIDKey, ev.ID.String()),
		attribute.String(tracing.EventTypeKey, ev.Type.String()),
		attribute.String(tracing.OrderIDKey, ev.OrderID.String()),
	)
	defer span.End()
	defer metrics.Get().ObserveDispatch(ev.Type.String(), started)

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.logger.WarnContext(ctx, "failed to publish order event",
				"event_id", ev.ID.String(), "error", err)
		}
	}

	uow := e.uowFactory.Create()
	out := sink.New(uow.NotificationRepository(), uow.TaskRepository(), e.logger)
	scope := sink.NewScope(ev)

	e.notifyLifecycle(ctx, uow, out, scope, it)

	rules, err := e.rules.Rules(ctx, ev.Type)
	if err != nil {
		tracing.SetError(span, err)
		e.logger.ErrorContext(ctx, "failed to load workflow rules",
			"event_type", ev.Type.String(), "error", err)
		return nil
	}

	facts := workflow.NewFacts(it.subject, ev)
	var followUps []item
	for _, rule := range rules {
		if !rule.Matches(ev, facts) {
			continue
		}
		followUps = append(followUps, e.runRule(ctx, rule, it, facts, out, scope)...)
	}
	return followUps
}

// notifyLifecycle sends the notifications the lifecycle itself owes for an
// event: every active admin hears about a new order, the assigned admin
// hears about status changes.
func (e *Engine) notifyLifecycle(ctx context.Context, uow ports.UnitOfWork, out *sink.Sink, scope *sink.Scope, it item) {
	ev, subject := it.event, it.subject
	orderID := ev.OrderID

	var drafts []sink.NotificationDraft
	switch ev.Type {
	case order.EventCreated:
		admins, err := uow.AdminRepository().ListActive(ctx)
		if err != nil {
			e.logger.ErrorContext(ctx, "failed to list admins for new order notification",
				"order_id", orderID.String(), "error", err)
			return
		}
		for _, a := range admins {
			drafts = append(drafts, sink.NotificationDraft{
				RecipientID: a.ID(),
				Type:        notification.TypeNewOrder,
				Message:     fmt.Sprintf("New %s order: %s", subject.Type, subject.Title),
				Metadata:    map[string]string{"order_type": subject.Type.String()},
				OrderID:     &orderID,
			})
		}
	case order.EventStatusChanged:
		if subject.AssignedAdmin == nil {
			return
		}
		drafts = append(drafts, sink.NotificationDraft{
			RecipientID: *subject.AssignedAdmin,
			Type:        notification.TypeOrderStatusChanged,
			Message: fmt.Sprintf("Order %s moved from %s to %s",
				subject.Title, ev.OldStatus, ev.NewStatus),
			Metadata: map[string]string{
				"old_status": ev.OldStatus.String(),
				"new_status": ev.NewStatus.String(),
			},
			OrderID: &orderID,
		})
	default:
	}

	for _, d := range drafts {
		if _, err := out.Notify(ctx, scope, d); err != nil {
			e.logger.ErrorContext(ctx, "failed to send lifecycle notification",
				"order_id", orderID.String(),
				"recipient_id", d.RecipientID.String(),
				"error", err)
		}
	}
}

func (e *Engine) runRule(
	ctx context.Context,
	rule *workflow.Rule,
	it item,
	facts workflow.Facts,
	out *sink.Sink,
	scope *sink.Scope,
) []item {
	ctx, span := tracing.StartSpan(ctx, "workflow.rule",
		attribute.String(tracing.RuleIDKey, rule.ID().String()),
		attribute.String(tracing.RuleNameKey, rule.Name()),
	)
	defer span.End()

	logger := e.logger.With("rule_id", rule.ID().String(), "event_id", it.event.ID.String())
	execution := workflow.Execution{
		ID:         kernel.NewUUID(),
		RuleID:     rule.ID(),
		EventID:    it.event.ID,
		EventType:  it.event.Type,
		OrderID:    it.event.OrderID,
		ExecutedAt: e.now(),
	}

	var (
		followUps []item
		fatal     bool
	)
	for i, action := range rule.Actions() {
		produced, err := e.runAction(ctx, rule, i, action, it, facts, out, scope)
		if err == nil {
			followUps = append(followUps, produced...)
			continue
		}

		var actionErr *errs.ActionExecutionError
		if !errors.As(err, &actionErr) {
			actionErr = errs.NewActionExecutionError(rule.ID().String(), i, string(action.Kind()), true, err)
		}
		execution.Failures = append(execution.Failures, workflow.ActionFailure{
			ActionIndex: i,
			ActionKind:  action.Kind(),
			Fatal:       actionErr.Fatal,
			Cause:       failureCause(actionErr),
		})
		metrics.Get().ActionFailed(string(action.Kind()), actionErr.Fatal)
		tracing.SetError(span, err,
			attribute.Int(tracing.ActionIndexKey, i),
			attribute.String(tracing.ActionKindKey, string(action.Kind())))

		if actionErr.Fatal {
			logger.ErrorContext(ctx, "workflow action failed, skipping remaining actions", "error", err)
			fatal = true
			break
		}
		logger.WarnContext(ctx, "workflow action failed", "error", err)
	}

	execution.Succeeded = !fatal
	metrics.Get().RuleRun(it.event.Type.String(), execution.Succeeded)

	uow := e.uowFactory.Create()
	if err := uow.RuleExecutionLog().Record(ctx, execution); err != nil {
		logger.ErrorContext(ctx, "failed to record rule execution", "error", err)
	}
	if !fatal {
		if err := uow.WorkflowRuleRepository().RecordExecution(ctx, rule.ID(), execution.ExecutedAt); err != nil {
			logger.ErrorContext(ctx, "failed to update rule execution counters", "error", err)
		}
	}

	return followUps
}

func failureCause(err *errs.ActionExecutionError) string {
	if err.Cause == nil {
		return err.Error()
	}
	return err.Cause.Error()
}
