package sink_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitversity/internal/adapters/out/memory"
	"bitversity/internal/core/application/sink"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/task"
)

func newSink(store *memory.Store) *sink.Sink {
	uow := memory.NewUnitOfWorkFactory(store).Create()
	return sink.New(uow.NotificationRepository(), uow.TaskRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func statusEvent() order.Event {
	return order.Event{
		ID:         kernel.NewUUID(),
		Type:       order.EventStatusChanged,
		OrderID:    kernel.NewUUID(),
		OldStatus:  order.Pending,
		NewStatus:  order.Approved,
		OccurredAt: time.Now().UTC(),
	}
}

func TestSink_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("should notify a recipient at most once per scope", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		ev := statusEvent()
		scope := sink.NewScope(ev)
		recipient := kernel.NewUUID()

		created, err := s.Notify(ctx, scope, sink.NotificationDraft{
			RecipientID: recipient, Type: notification.TypeOrderStatusChanged, Message: "moved", OrderID: &ev.OrderID,
		})
		require.NoError(t, err)
		assert.True(t, created)

		created, err = s.Notify(ctx, scope, sink.NotificationDraft{
			RecipientID: recipient, Type: notification.TypeWorkflow, Message: "rule says hi", OrderID: &ev.OrderID,
		})
		require.NoError(t, err)
		assert.False(t, created)

		stored := store.Notifications()
		require.Len(t, stored, 1)
		assert.Equal(t, notification.TypeOrderStatusChanged, stored[0].Type)
		assert.Equal(t, notification.EventDedupKey(ev.ID), stored[0].DedupKey)
	})

	t.Run("should notify distinct recipients", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		scope := sink.NewScope(statusEvent())

		for range 3 {
			_, err := s.Notify(ctx, scope, sink.NotificationDraft{
				RecipientID: kernel.NewUUID(), Type: notification.TypeWorkflow, Message: "hi",
			})
			require.NoError(t, err)
		}

		assert.Len(t, store.Notifications(), 3)
	})

	t.Run("should not suppress a retry after a store failure", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		scope := sink.NewScope(statusEvent())
		recipient := kernel.NewUUID()
		boom := errors.New("connection reset")

		store.SetFault(func(context.Context, string) error { return boom })
		_, err := s.Notify(ctx, scope, sink.NotificationDraft{
			RecipientID: recipient, Type: notification.TypeWorkflow, Message: "hi",
		})
		require.ErrorIs(t, err, boom)

		store.SetFault(nil)
		created, err := s.Notify(ctx, scope, sink.NotificationDraft{
			RecipientID: recipient, Type: notification.TypeWorkflow, Message: "hi",
		})
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("should be safe for concurrent senders", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		scope := sink.NewScope(statusEvent())
		recipient := kernel.NewUUID()

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.Notify(ctx, scope, sink.NotificationDraft{
					RecipientID: recipient, Type: notification.TypeWorkflow, Message: "hi",
				})
			}()
		}
		wg.Wait()

		assert.Len(t, store.Notifications(), 1)
	})
}

func TestSink_NotifyOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := newSink(store)
	draft := sink.NotificationDraft{RecipientID: kernel.NewUUID(), Type: notification.TypeTaskOverdue, Message: "late"}

	created, err := s.NotifyOnce(ctx, "task_overdue:1:2025-01-01", draft)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.NotifyOnce(ctx, "task_overdue:1:2025-01-01", draft)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSink_CreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the task and notify the assignee", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		assignee := kernel.NewUUID()
		orderID := kernel.NewUUID()
		due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

		created, err := s.CreateTask(ctx, task.Draft{
			OrderID:       &orderID,
			Title:         "Draft the quote",
			AssignedAdmin: &assignee,
			DueDate:       &due,
		})
		require.NoError(t, err)

		tasks := store.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, created.ID(), tasks[0].ID)

		notes := store.Notifications()
		require.Len(t, notes, 1)
		assert.Equal(t, assignee, notes[0].RecipientID)
		assert.Equal(t, notification.TypeTaskAssigned, notes[0].Type)
		assert.Equal(t, "2025-05-01", notes[0].Metadata["due_date"])
	})

	t.Run("should keep the task when the notification fails", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)
		store.SetFault(func(_ context.Context, op string) error {
			if op == "notification.add" {
				return errors.New("boom")
			}
			return nil
		})
		assignee := kernel.NewUUID()

		_, err := s.CreateTask(ctx, task.Draft{Title: "Call customer", AssignedAdmin: &assignee})

		require.NoError(t, err)
		assert.Len(t, store.Tasks(), 1)
		assert.Empty(t, store.Notifications())
	})

	t.Run("should reject an invalid draft", func(t *testing.T) {
		store := memory.NewStore()
		s := newSink(store)

		_, err := s.CreateTask(ctx, task.Draft{Title: "  "})

		require.Error(t, err)
		assert.Empty(t, store.Tasks())
	})
}
