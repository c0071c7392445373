package memory

import (
	"context"
	"errors"
	"sync"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/ports"
)

var (
	ErrTxAlreadyStarted = errors.New("transaction already started")
	ErrNoActiveTx       = errors.New("no active transaction")
)

// stagedOp is validated against the store before any staged op is applied.
type stagedOp struct {
	check func(s *Store) error
	apply func(s *Store)
}

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

//nolint:ireturn // factory returns the port
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

type UnitOfWork struct {
	store *Store

	mu     sync.Mutex
	active bool
	ops    []stagedOp
	locked []kernel.UUID
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active {
		return ErrTxAlreadyStarted
	}
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrNoActiveTx
	}
	defer u.finish()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, op := range u.ops {
		if op.check == nil {
			continue
		}
		if err := op.check(u.store); err != nil {
			return err
		}
	}
	for _, op := range u.ops {
		op.apply(u.store)
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrNoActiveTx
	}
	u.finish()
	return nil
}

func (u *UnitOfWork) finish() {
	for _, id := range u.locked {
		u.store.unlockOrder(id)
	}
	u.locked = nil
	u.ops = nil
	u.active = false
}

// write runs op immediately outside a transaction and stages it inside one.
func (u *UnitOfWork) write(op stagedOp) error {
	u.mu.Lock()
	if u.active {
		u.ops = append(u.ops, op)
		u.mu.Unlock()
		return nil
	}
	u.mu.Unlock()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if op.check != nil {
		if err := op.check(u.store); err != nil {
			return err
		}
	}
	op.apply(u.store)
	return nil
}

func (u *UnitOfWork) inTx() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.active
}

func (u *UnitOfWork) hold(id kernel.UUID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, held := range u.locked {
		if held.IsEqual(id) {
			return true
		}
	}
	return false
}

func (u *UnitOfWork) remember(id kernel.UUID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.locked = append(u.locked, id)
}

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) OrderRepository() ports.OrderRepository { return &orderRepository{uow: u} }

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) WorkflowRuleRepository() ports.WorkflowRuleRepository {
	return &ruleRepository{uow: u}
}

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) NotificationRepository() ports.NotificationRepository {
	return &notificationRepository{uow: u}
}

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) TaskRepository() ports.TaskRepository { return &taskRepository{uow: u} }

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) AdminRepository() ports.AdminRepository { return &adminRepository{uow: u} }

//nolint:ireturn // repositories are returned as ports
func (u *UnitOfWork) RuleExecutionLog() ports.RuleExecutionLog { return &executionLog{uow: u} }
