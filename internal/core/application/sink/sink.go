// Package sink creates notifications and tasks on behalf of the lifecycle
// and the workflow engine.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/metrics"
)

// NotificationDraft is a notification before it has an identity.
type NotificationDraft struct {
	RecipientID kernel.UUID
	Type        notification.Type
	Message     string
	Metadata    map[string]string
	OrderID     *kernel.UUID
}

type Sink struct {
	notifications ports.NotificationRepository
	tasks         ports.TaskRepository
	logger        *slog.Logger
	now           func() time.Time
}

// New builds a sink writing outside of any order transaction.
func New(notifications ports.NotificationRepository, tasks ports.TaskRepository, logger *slog.Logger) *Sink {
	return &Sink{
		notifications: notifications,
		tasks:         tasks,
		logger:        logger.With("component", "sink"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Notify stores a notification caused by the scope's event unless the
// recipient was already notified in the scope. It reports whether a
// notification was created.
func (s *Sink) Notify(ctx context.Context, scope *Scope, draft NotificationDraft) (bool, error) {
	if err := draft.RecipientID.Validate(); err != nil {
		return false, err
	}
	if !scope.claim(draft.RecipientID) {
		metrics.Get().NotificationDeduplicated()
		s.logger.DebugContext(ctx, "notification suppressed by dispatch scope",
			"recipient_id", draft.RecipientID.String(),
			"event_id", scope.EventID().String())
		return false, nil
	}

	created, err := s.store(ctx, notification.EventDedupKey(scope.EventID()), draft)
	if err != nil {
		scope.release(draft.RecipientID)
		return false, err
	}
	return created, nil
}

// NotifyOnce stores a notification identified by an explicit dedup key.
// A second call with the same recipient and key creates nothing.
func (s *Sink) NotifyOnce(ctx context.Context, dedupKey string, draft NotificationDraft) (bool, error) {
	return s.store(ctx, dedupKey, draft)
}

// CreateTask stores a new task and tells its assignee about it.
func (s *Sink) CreateTask(ctx context.Context, draft task.Draft) (*task.Task, error) {
	now := s.now()
	t, err := task.NewTask(kernel.NewUUID(), draft, now)
	if err != nil {
		return nil, err
	}
	if err = s.tasks.Add(ctx, t); err != nil {
		return nil, fmt.Errorf("store task: %w", err)
	}

	if assignee := t.AssignedAdmin(); assignee != nil {
		snap := t.Snapshot()
		metadata := map[string]string{"task_id": snap.ID.String()}
		if snap.DueDate != nil {
			metadata["due_date"] = snap.DueDate.Format(time.DateOnly)
		}
		_, err = s.store(ctx, notification.TaskDedupKey(notification.TypeTaskAssigned, snap.ID, now), NotificationDraft{
			RecipientID: *assignee,
			Type:        notification.TypeTaskAssigned,
			Message:     fmt.Sprintf("You have been assigned the task %q", snap.Title),
			Metadata:    metadata,
			OrderID:     snap.OrderID,
		})
		if err != nil {
			// the task stays created when the heads-up fails
			s.logger.WarnContext(ctx, "failed to notify task assignee",
				"task_id", snap.ID.String(), "error", err)
		}
	}

	return t, nil
}

func (s *Sink) store(ctx context.Context, dedupKey string, draft NotificationDraft) (bool, error) {
	n, err := notification.NewNotification(kernel.NewUUID(), notification.Snapshot{
		RecipientID: draft.RecipientID,
		Type:        draft.Type,
		Message:     draft.Message,
		Metadata:    draft.Metadata,
		OrderID:     draft.OrderID,
		DedupKey:    dedupKey,
	}, s.now())
	if err != nil {
		return false, err
	}

	created, err := s.notifications.Add(ctx, n)
	if err != nil {
		return false, fmt.Errorf("store notification: %w", err)
	}
	if created {
		metrics.Get().NotificationCreated(string(draft.Type))
	} else {
		metrics.Get().NotificationDeduplicated()
	}
	return created, nil
}
