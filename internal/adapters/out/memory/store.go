// Package memory implements every storage port in process memory. It backs
// the "memory" storage driver and the application-level tests.
//
// Transactions are staged: writes made after Begin become visible to other
// units of work only on Commit, and GetForUpdate holds a per-order lock until
// the transaction ends.
package memory

import (
	"context"
	"sort"
	"sync"

	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
)

// FaultFunc is consulted before every storage operation; a non-nil error is
// returned to the caller instead of performing the operation. op names look
// like "order.update" or "notification.add".
type FaultFunc func(ctx context.Context, op string) error

type Store struct {
	mu            sync.RWMutex
	orders        map[kernel.UUID]order.Snapshot
	rules         map[kernel.UUID]workflow.RuleSnapshot
	notifications map[kernel.UUID]notification.Snapshot
	dedupIndex    map[string]kernel.UUID
	tasks         map[kernel.UUID]task.Snapshot
	admins        map[kernel.UUID]*admin.Admin
	executions    []workflow.Execution

	locksMu sync.Mutex
	locks   map[kernel.UUID]chan struct{}

	faultMu sync.RWMutex
	fault   FaultFunc
}

func NewStore() *Store {
	return &Store{
		orders:        make(map[kernel.UUID]order.Snapshot),
		rules:         make(map[kernel.UUID]workflow.RuleSnapshot),
		notifications: make(map[kernel.UUID]notification.Snapshot),
		dedupIndex:    make(map[string]kernel.UUID),
		tasks:         make(map[kernel.UUID]task.Snapshot),
		admins:        make(map[kernel.UUID]*admin.Admin),
		locks:         make(map[kernel.UUID]chan struct{}),
	}
}

// SetFault installs or, with nil, removes a fault hook.
func (s *Store) SetFault(f FaultFunc) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.fault = f
}

func (s *Store) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.faultMu.RLock()
	f := s.fault
	s.faultMu.RUnlock()
	if f == nil {
		return nil
	}
	return f(ctx, op)
}

// lockOrder blocks until the order row lock is free or ctx ends.
func (s *Store) lockOrder(ctx context.Context, id kernel.UUID) error {
	s.locksMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlockOrder(id kernel.UUID) {
	s.locksMu.Lock()
	ch := s.locks[id]
	s.locksMu.Unlock()
	if ch != nil {
		<-ch
	}
}

// Executions returns the recorded rule executions, oldest first.
func (s *Store) Executions() []workflow.Execution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]workflow.Execution(nil), s.executions...)
}

// Notifications returns every stored notification, oldest first.
func (s *Store) Notifications() []notification.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notification.Snapshot, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Tasks returns every stored task.
func (s *Store) Tasks() []task.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Snapshot, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

var (
	_ ports.OrderReader        = (*Store)(nil)
	_ ports.RuleReader         = (*Store)(nil)
	_ ports.RuleFailureReader  = (*Store)(nil)
	_ ports.NotificationReader = (*Store)(nil)
	_ ports.TaskReader         = (*Store)(nil)
)
