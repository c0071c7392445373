package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T, priority kernel.Priority, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID: kernel.NewUUID(),
		Type:       order.TypeProject,
		Title:      "Portfolio website",
		Priority:   priority,
	}, createdAt)
	require.NoError(t, err)
	return o
}

func TestOrderRepository_UpdateAdvancesVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewUnitOfWorkFactory(store).Create().OrderRepository()

	o := newTestOrder(t, kernel.PriorityMedium, testNow)
	require.NoError(t, repo.Add(ctx, o))

	loaded, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Transition(order.UnderReview, "", "", nil, testNow.Add(time.Minute)))
	require.NoError(t, repo.Update(ctx, loaded))
	assert.Equal(t, 2, loaded.Version())

	snap, err := store.FindOrder(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.UnderReview, snap.Status)
	assert.Equal(t, 2, snap.Version)
}

func TestOrderRepository_StaleUpdateIsRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	factory := NewUnitOfWorkFactory(store)
	repo := factory.Create().OrderRepository()

	o := newTestOrder(t, kernel.PriorityMedium, testNow)
	require.NoError(t, repo.Add(ctx, o))

	first, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Transition(order.UnderReview, "", "", nil, testNow))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Transition(order.Cancelled, "", "", nil, testNow))
	err = repo.Update(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)

	snap, err := store.FindOrder(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.UnderReview, snap.Status)
}

func TestOrderRepository_GetUnknown(t *testing.T) {
	repo := NewUnitOfWorkFactory(NewStore()).Create().OrderRepository()

	_, err := repo.Get(context.Background(), kernel.NewUUID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUnitOfWork_WritesVisibleOnlyAfterCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWorkFactory(store).Create()

	require.NoError(t, uow.Begin(ctx))
	o := newTestOrder(t, kernel.PriorityHigh, testNow)
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	_, err := store.FindOrder(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, uow.Commit(ctx))
	_, err = store.FindOrder(ctx, o.ID())
	assert.NoError(t, err)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWorkFactory(store).Create()

	require.NoError(t, uow.Begin(ctx))
	o := newTestOrder(t, kernel.PriorityHigh, testNow)
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Rollback(ctx))

	_, err := store.FindOrder(ctx, o.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.ErrorIs(t, uow.Rollback(ctx), ErrNoActiveTx)
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWorkFactory(NewStore()).Create()

	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), ErrTxAlreadyStarted)
}

func TestOrderRepository_GetForUpdateSerializesTransactions(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	factory := NewUnitOfWorkFactory(store)

	o := newTestOrder(t, kernel.PriorityMedium, testNow)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	targets := []order.Status{order.UnderReview, order.Cancelled}
	var wg sync.WaitGroup
	results := make([]error, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results[i] = err
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
			if err != nil {
				results[i] = err
				return
			}
			if err = locked.Transition(target, "", "", nil, testNow); err != nil {
				results[i] = err
				return
			}
			if err = uow.OrderRepository().Update(ctx, locked); err != nil {
				results[i] = err
				return
			}
			results[i] = uow.Commit(ctx)
		}()
	}
	wg.Wait()

	// whichever transaction ran second saw the first one's result
	succeeded := 0
	for _, e := range results {
		if e == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, e, errs.ErrIllegalTransition)
	}

	snap, err := store.FindOrder(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, snap.Status)
	assert.Equal(t, 1+succeeded, snap.Version)
}

func TestOrderRepository_GetForUpdateHonoursContext(t *testing.T) {
	store := NewStore()
	factory := NewUnitOfWorkFactory(store)
	o := newTestOrder(t, kernel.PriorityMedium, testNow)
	require.NoError(t, factory.Create().OrderRepository().Add(context.Background(), o))

	holder := factory.Create()
	require.NoError(t, holder.Begin(context.Background()))
	_, err := holder.OrderRepository().GetForUpdate(context.Background(), o.ID())
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waiter := factory.Create()
	require.NoError(t, waiter.Begin(ctx))
	_, err = waiter.OrderRepository().GetForUpdate(ctx, o.ID())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_ListOrdersSortsByPriorityThenNewest(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewUnitOfWorkFactory(store).Create().OrderRepository()

	oldLow := newTestOrder(t, kernel.PriorityLow, testNow)
	newLow := newTestOrder(t, kernel.PriorityLow, testNow.Add(time.Hour))
	urgent := newTestOrder(t, kernel.PriorityUrgent, testNow.Add(-time.Hour))
	for _, o := range []*order.Order{oldLow, newLow, urgent} {
		require.NoError(t, repo.Add(ctx, o))
	}

	list, err := store.ListOrders(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, urgent.ID(), list[0].ID)
	assert.Equal(t, newLow.ID(), list[1].ID)
	assert.Equal(t, oldLow.ID(), list[2].ID)

	page, err := store.ListOrders(ctx, ports.OrderFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, newLow.ID(), page[0].ID)

	filtered, err := store.ListOrders(ctx, ports.OrderFilter{Statuses: []order.Status{order.Approved}})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestNotificationRepository_DeduplicatesPerRecipientAndKey(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewUnitOfWorkFactory(store).Create().NotificationRepository()
	recipient := kernel.NewUUID()

	build := func(to kernel.UUID, key string) *notification.Notification {
		n, err := notification.NewNotification(kernel.NewUUID(), notification.Snapshot{
			RecipientID: to,
			Type:        notification.TypeWorkflow,
			Message:     "hello",
			DedupKey:    key,
		}, testNow)
		require.NoError(t, err)
		return n
	}

	created, err := repo.Add(ctx, build(recipient, "event:1"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(ctx, build(recipient, "event:1"))
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.Add(ctx, build(kernel.NewUUID(), "event:1"))
	require.NoError(t, err)
	assert.True(t, created)

	list, err := store.ListNotifications(ctx, ports.NotificationFilter{RecipientID: recipient})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_FaultHook(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("disk on fire")
	store.SetFault(func(_ context.Context, op string) error {
		if op == "task.add" {
			return boom
		}
		return nil
	})

	tk, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Call customer"}, testNow)
	require.NoError(t, err)
	err = NewUnitOfWorkFactory(store).Create().TaskRepository().Add(ctx, tk)
	assert.ErrorIs(t, err, boom)

	store.SetFault(nil)
	assert.NoError(t, NewUnitOfWorkFactory(store).Create().TaskRepository().Add(ctx, tk))
}

func TestTaskRepository_ListOverdue(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewUnitOfWorkFactory(store).Create().TaskRepository()

	past := testNow.Add(-24 * time.Hour)
	future := testNow.Add(24 * time.Hour)
	overdue, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Late", DueDate: &past}, testNow.Add(-48*time.Hour))
	require.NoError(t, err)
	onTime, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Fine", DueDate: &future}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, overdue))
	require.NoError(t, repo.Add(ctx, onTime))

	list, err := repo.ListOverdue(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, overdue.ID(), list[0].ID())

	all, err := store.ListTasks(ctx, ports.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, overdue.ID(), all[0].ID)
}

func TestAdminRepository_InactiveAdminsAreHidden(t *testing.T) {
	ctx := context.Background()
	repo := NewUnitOfWorkFactory(NewStore()).Create().AdminRepository()

	active, err := admin.NewAdmin(kernel.NewUUID(), "Ada", "ada@example.com", true)
	require.NoError(t, err)
	retired, err := admin.NewAdmin(kernel.NewUUID(), "Bob", "bob@example.com", false)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, active))
	require.NoError(t, repo.Add(ctx, retired))

	_, err = repo.Get(ctx, retired.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID(), list[0].ID())
}
