package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bitversity/internal/adapters/out/memory"
	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

type orderUoWs struct{ f *memory.UnitOfWorkFactory }

func (x orderUoWs) Create() commands.OrderUoW { return x.f.Create() }

type ruleUoWs struct{ f *memory.UnitOfWorkFactory }

func (x ruleUoWs) Create() commands.RuleUoW { return x.f.Create() }

type notificationUoWs struct{ f *memory.UnitOfWorkFactory }

func (x notificationUoWs) Create() commands.NotificationUoW { return x.f.Create() }

type taskUoWs struct{ f *memory.UnitOfWorkFactory }

func (x taskUoWs) Create() commands.TaskUoW { return x.f.Create() }

// recordingDispatcher keeps every dispatched batch.
type recordingDispatcher struct {
	mu      sync.Mutex
	batches map[kernel.UUID][]order.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, subject order.Snapshot, events []order.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.batches == nil {
		d.batches = make(map[kernel.UUID][]order.Event)
	}
	d.batches[subject.ID] = append(d.batches[subject.ID], events...)
}

func (d *recordingDispatcher) events(id kernel.UUID) []order.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batches[id]
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryFixture struct {
	t       *testing.T
	store   *memory.Store
	factory *memory.UnitOfWorkFactory
}

func newMemoryFixture(t *testing.T) memoryFixture {
	t.Helper()
	store := memory.NewStore()
	return memoryFixture{t: t, store: store, factory: memory.NewUnitOfWorkFactory(store)}
}

func (f memoryFixture) admin(name string, active bool) kernel.UUID {
	f.t.Helper()
	a, err := admin.NewAdmin(kernel.NewUUID(), name, name+"@example.com", active)
	require.NoError(f.t, err)
	require.NoError(f.t, f.factory.Create().AdminRepository().Add(f.t.Context(), a))
	return a.ID()
}

// order stores an order and walks it through the given statuses.
func (f memoryFixture) order(path ...order.Status) kernel.UUID {
	f.t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID: kernel.NewUUID(),
		Type:       order.TypeProject,
		Title:      "Portfolio site",
	}, now)
	require.NoError(f.t, err)
	for _, s := range path {
		reason := ""
		if s == order.Rejected {
			reason = "out of scope"
		}
		require.NoError(f.t, o.Transition(s, reason, "", nil, now))
	}
	o.PullEvents()
	require.NoError(f.t, f.factory.Create().OrderRepository().Add(f.t.Context(), o))
	return o.ID()
}

func (f memoryFixture) snapshot(id kernel.UUID) order.Snapshot {
	f.t.Helper()
	s, err := f.store.FindOrder(f.t.Context(), id)
	require.NoError(f.t, err)
	return s
}
