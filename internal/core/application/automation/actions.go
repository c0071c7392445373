package automation

import (
	"context"
	"errors"
	"fmt"

	"bitversity/internal/core/application/sink"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/errs"
)

type actionResult struct {
	followUps []item
	err       error
}

// runAction executes one action under the action timeout. Errors are
// *errs.ActionExecutionError values.
func (e *Engine) runAction(
	ctx context.Context,
	rule *workflow.Rule,
	index int,
	action workflow.Action,
	it item,
	facts workflow.Facts,
	out *sink.Sink,
	scope *sink.Scope,
) ([]item, error) {
	ctx, cancel := context.WithTimeout(ctx, e.actionTimeout)
	defer cancel()

	fail := func(fatal bool, cause error) error {
		return errs.NewActionExecutionError(rule.ID().String(), index, string(action.Kind()), fatal, cause)
	}

	done := make(chan actionResult, 1)
	go func() {
		followUps, err := e.perform(ctx, action, it, facts, out, scope, rule)
		done <- actionResult{followUps: followUps, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fail(isFatal(res.err), res.err)
		}
		return res.followUps, nil
	case <-ctx.Done():
		return nil, fail(true, fmt.Errorf("action timed out after %s: %w", e.actionTimeout, ctx.Err()))
	}
}

// isFatal classifies an action failure. Refusals by the domain (unknown
// admin, terminal order, invalid value) are not fatal; malformed specs,
// timeouts and storage failures are.
func isFatal(err error) bool {
	var malformed malformedActionError
	switch {
	case errors.As(err, &malformed):
		return true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrIllegalTransition),
		errs.IsValidation(err):
		return false
	default:
		return true
	}
}

type malformedActionError struct {
	err error
}

func (m malformedActionError) Error() string { return "malformed action: " + m.err.Error() }
func (m malformedActionError) Unwrap() error { return m.err }

func (e *Engine) perform(
	ctx context.Context,
	action workflow.Action,
	it item,
	facts workflow.Facts,
	out *sink.Sink,
	scope *sink.Scope,
	rule *workflow.Rule,
) ([]item, error) {
	if err := action.Validate(); err != nil {
		return nil, malformedActionError{err: err}
	}

	switch a := action.(type) {
	case workflow.AssignAction:
		return e.assign(ctx, a, it)
	case workflow.SetPriorityAction:
		return nil, e.setPriority(ctx, a, it)
	case workflow.NotifyAction:
		return nil, e.notify(ctx, a, it, facts, out, scope, rule)
	case workflow.CreateTaskAction:
		return nil, e.createTask(ctx, a, it, out, rule)
	default:
		return nil, malformedActionError{err: fmt.Errorf("unsupported action kind %q", action.Kind())}
	}
}

func (e *Engine) assign(ctx context.Context, a workflow.AssignAction, it item) ([]item, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.AdminRepository().Get(ctx, a.AdminID); err != nil {
		return nil, err
	}

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, it.event.OrderID)
	if err != nil {
		return nil, err
	}
	if err = o.Assign(a.AdminID, nil, e.now()); err != nil {
		return nil, err
	}
	events := o.PullEvents()
	if len(events) == 0 {
		return nil, nil
	}
	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	snap := o.Snapshot()
	followUps := make([]item, 0, len(events))
	for _, ev := range events {
		followUps = append(followUps, item{subject: snap, event: ev})
	}
	return followUps, nil
}

func (e *Engine) setPriority(ctx context.Context, a workflow.SetPriorityAction, it item) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, it.event.OrderID)
	if err != nil {
		return err
	}
	if o.Priority() == a.Priority {
		return nil
	}
	if err = o.SetPriority(a.Priority, nil, e.now()); err != nil {
		return err
	}
	if err = repo.Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (e *Engine) notify(
	ctx context.Context,
	a workflow.NotifyAction,
	it item,
	facts workflow.Facts,
	out *sink.Sink,
	scope *sink.Scope,
	rule *workflow.Rule,
) error {
	message, err := e.renderer.Render(a.Template, it.subject, it.event, facts)
	if err != nil {
		return malformedActionError{err: err}
	}

	if _, err = e.uowFactory.Create().AdminRepository().Get(ctx, a.RecipientID); err != nil {
		return err
	}

	metadata := make(map[string]string, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		metadata[k] = v
	}
	metadata["rule_id"] = rule.ID().String()

	orderID := it.event.OrderID
	_, err = out.Notify(ctx, scope, sink.NotificationDraft{
		RecipientID: a.RecipientID,
		Type:        notification.TypeWorkflow,
		Message:     message,
		Metadata:    metadata,
		OrderID:     &orderID,
	})
	return err
}

func (e *Engine) createTask(
	ctx context.Context,
	a workflow.CreateTaskAction,
	it item,
	out *sink.Sink,
	rule *workflow.Rule,
) error {
	if _, err := e.uowFactory.Create().AdminRepository().Get(ctx, a.AssigneeID); err != nil {
		return err
	}

	due := it.event.OccurredAt.AddDate(0, 0, a.DueOffsetDays)
	orderID := it.event.OrderID
	assignee := a.AssigneeID
	_, err := out.CreateTask(ctx, task.Draft{
		OrderID:       &orderID,
		Title:         a.Title,
		Description:   fmt.Sprintf("Created by workflow rule %q", rule.Name()),
		Priority:      a.Priority,
		DueDate:       &due,
		AssignedAdmin: &assignee,
	})
	return err
}
