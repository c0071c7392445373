package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

func errDuplicate(id kernel.UUID) error {
	return fmt.Errorf("%s already exists", id)
}

type ruleRepository struct {
	uow *UnitOfWork
}

func (r *ruleRepository) Add(ctx context.Context, rule *workflow.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "rule.add"); err != nil {
		return err
	}
	snap := rule.Snapshot()
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.rules[snap.ID]; ok {
				return errs.NewValueIsInvalidErrorWithCause("rule id", errDuplicate(snap.ID))
			}
			return nil
		},
		apply: func(s *Store) { s.rules[snap.ID] = snap },
	})
}

func (r *ruleRepository) Update(ctx context.Context, rule *workflow.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "rule.update"); err != nil {
		return err
	}
	snap := rule.Snapshot()
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.rules[snap.ID]; !ok {
				return errs.NewObjectNotFoundError("workflow rule", snap.ID.String())
			}
			return nil
		},
		apply: func(s *Store) {
			// counters are owned by RecordExecution
			stored := s.rules[snap.ID]
			snap.ExecutionCount = stored.ExecutionCount
			snap.LastExecutedAt = stored.LastExecutedAt
			s.rules[snap.ID] = snap
		},
	})
}

func (r *ruleRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := r.uow.store.check(ctx, "rule.delete"); err != nil {
		return err
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.rules[id]; !ok {
				return errs.NewObjectNotFoundError("workflow rule", id.String())
			}
			return nil
		},
		apply: func(s *Store) { delete(s.rules, id) },
	})
}

func (r *ruleRepository) Get(ctx context.Context, id kernel.UUID) (*workflow.Rule, error) {
	if err := r.uow.store.check(ctx, "rule.get"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	snap, ok := r.uow.store.rules[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("workflow rule", id.String())
	}
	return workflow.RestoreRule(snap)
}

func (r *ruleRepository) ListActive(ctx context.Context) ([]*workflow.Rule, error) {
	if err := r.uow.store.check(ctx, "rule.list_active"); err != nil {
		return nil, err
	}
	snaps, err := r.uow.store.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]*workflow.Rule, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.IsActive {
			continue
		}
		rule, err := workflow.RestoreRule(snap)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *ruleRepository) RecordExecution(ctx context.Context, id kernel.UUID, at time.Time) error {
	if err := r.uow.store.check(ctx, "rule.record_execution"); err != nil {
		return err
	}
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.rules[id]; !ok {
				return errs.NewObjectNotFoundError("workflow rule", id.String())
			}
			return nil
		},
		apply: func(s *Store) {
			snap := s.rules[id]
			snap.ExecutionCount++
			executedAt := at
			snap.LastExecutedAt = &executedAt
			s.rules[id] = snap
		},
	})
}

// ListRules returns all rules ordered by creation time.
func (s *Store) ListRules(_ context.Context) ([]workflow.RuleSnapshot, error) {
	s.mu.RLock()
	out := make([]workflow.RuleSnapshot, 0, len(s.rules))
	for _, snap := range s.rules {
		out = append(out, snap)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type executionLog struct {
	uow *UnitOfWork
}

func (l *executionLog) Record(ctx context.Context, execution workflow.Execution) error {
	if err := l.uow.store.check(ctx, "execution.record"); err != nil {
		return err
	}
	execution.Failures = append([]workflow.ActionFailure(nil), execution.Failures...)
	return l.uow.write(stagedOp{
		apply: func(s *Store) { s.executions = append(s.executions, execution) },
	})
}

// ListFailures flattens failed actions of recorded executions, newest first.
func (s *Store) ListFailures(_ context.Context, filter ports.FailureFilter) ([]workflow.FailureRecord, error) {
	s.mu.RLock()
	var out []workflow.FailureRecord
	for _, e := range s.executions {
		if filter.RuleID != nil && !filter.RuleID.IsEqual(e.RuleID) {
			continue
		}
		if filter.OrderID != nil && !filter.OrderID.IsEqual(e.OrderID) {
			continue
		}
		for _, f := range e.Failures {
			out = append(out, workflow.FailureRecord{
				ExecutionID:   e.ID,
				RuleID:        e.RuleID,
				EventType:     e.EventType,
				OrderID:       e.OrderID,
				ExecutedAt:    e.ExecutedAt,
				ActionFailure: f,
			})
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExecutedAt.After(out[j].ExecutedAt) })
	return paginate(out, 0, filter.Limit), nil
}

type notificationRepository struct {
	uow *UnitOfWork
}

func dedupIndexKey(recipient kernel.UUID, key string) string {
	return recipient.String() + "|" + key
}

func (r *notificationRepository) Add(ctx context.Context, n *notification.Notification) (bool, error) {
	if err := n.Validate(); err != nil {
		return false, err
	}
	if err := r.uow.store.check(ctx, "notification.add"); err != nil {
		return false, err
	}
	snap := n.Snapshot()
	key := dedupIndexKey(snap.RecipientID, snap.DedupKey)

	created := true
	err := r.uow.write(stagedOp{
		apply: func(s *Store) {
			if _, exists := s.dedupIndex[key]; exists {
				created = false
				return
			}
			s.dedupIndex[key] = snap.ID
			s.notifications[snap.ID] = snap
		},
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *notificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := r.uow.store.check(ctx, "notification.get"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	snap, ok := r.uow.store.notifications[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("notification", id.String())
	}
	return notification.RestoreNotification(snap)
}

func (r *notificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "notification.update"); err != nil {
		return err
	}
	snap := n.Snapshot()
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.notifications[snap.ID]; !ok {
				return errs.NewObjectNotFoundError("notification", snap.ID.String())
			}
			return nil
		},
		apply: func(s *Store) { s.notifications[snap.ID] = snap },
	})
}

func (s *Store) ListNotifications(_ context.Context, filter ports.NotificationFilter) ([]notification.Snapshot, error) {
	s.mu.RLock()
	var out []notification.Snapshot
	for _, snap := range s.notifications {
		if !snap.RecipientID.IsEqual(filter.RecipientID) {
			continue
		}
		if filter.UnreadOnly && snap.ReadAt != nil {
			continue
		}
		out = append(out, snap)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, 0, filter.Limit), nil
}

type taskRepository struct {
	uow *UnitOfWork
}

func (r *taskRepository) Add(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "task.add"); err != nil {
		return err
	}
	snap := t.Snapshot()
	return r.uow.write(stagedOp{
		apply: func(s *Store) { s.tasks[snap.ID] = snap },
	})
}

func (r *taskRepository) Update(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "task.update"); err != nil {
		return err
	}
	snap := t.Snapshot()
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.tasks[snap.ID]; !ok {
				return errs.NewObjectNotFoundError("task", snap.ID.String())
			}
			return nil
		},
		apply: func(s *Store) { s.tasks[snap.ID] = snap },
	})
}

func (r *taskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	if err := r.uow.store.check(ctx, "task.get"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	snap, ok := r.uow.store.tasks[id]
	r.uow.store.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("task", id.String())
	}
	return task.RestoreTask(snap)
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error) {
	if err := r.uow.store.check(ctx, "task.list_overdue"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	var out []*task.Task
	for _, snap := range r.uow.store.tasks {
		t, err := task.RestoreTask(snap)
		if err != nil {
			return nil, err
		}
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ListTasks(_ context.Context, filter ports.TaskFilter) ([]task.Snapshot, error) {
	s.mu.RLock()
	var out []task.Snapshot
	for _, snap := range s.tasks {
		if filter.AssignedAdmin != nil && !kernel.OptionalUUIDEqual(filter.AssignedAdmin, snap.AssignedAdmin) {
			continue
		}
		if filter.OrderID != nil && !kernel.OptionalUUIDEqual(filter.OrderID, snap.OrderID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsTaskStatus(filter.Statuses, snap.Status) {
			continue
		}
		out = append(out, snap)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return paginate(out, 0, filter.Limit), nil
}

func containsTaskStatus(list []task.Status, s task.Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

type adminRepository struct {
	uow *UnitOfWork
}

func (r *adminRepository) Add(ctx context.Context, a *admin.Admin) error {
	if err := r.uow.store.check(ctx, "admin.add"); err != nil {
		return err
	}
	return r.uow.write(stagedOp{
		apply: func(s *Store) { s.admins[a.ID()] = a },
	})
}

func (r *adminRepository) Get(ctx context.Context, id kernel.UUID) (*admin.Admin, error) {
	if err := r.uow.store.check(ctx, "admin.get"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	a, ok := r.uow.store.admins[id]
	r.uow.store.mu.RUnlock()
	if !ok || !a.IsActive() {
		return nil, errs.NewObjectNotFoundError("admin", id.String())
	}
	return a, nil
}

func (r *adminRepository) ListActive(ctx context.Context) ([]*admin.Admin, error) {
	if err := r.uow.store.check(ctx, "admin.list_active"); err != nil {
		return nil, err
	}
	r.uow.store.mu.RLock()
	var out []*admin.Admin
	for _, a := range r.uow.store.admins {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	r.uow.store.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email() < out[j].Email() })
	return out, nil
}
