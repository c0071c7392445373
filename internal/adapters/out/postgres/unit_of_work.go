// Package postgres provides the GORM-based Unit of Work over the order,
// workflow, notification, task and admin tables.
//
// Repositories obtained from a GormUnitOfWork run inside its transaction
// when one is active and against the plain connection otherwise:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	...
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"gorm.io/gorm"

	"bitversity/internal/adapters/out/postgres/adminrepo"
	"bitversity/internal/adapters/out/postgres/notificationrepo"
	"bitversity/internal/adapters/out/postgres/orderrepo"
	"bitversity/internal/adapters/out/postgres/rulerepo"
	"bitversity/internal/adapters/out/postgres/taskrepo"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/ports"
)

// versioned is implemented by aggregates whose optimistic version advances
// once a guarded write is durable.
type versioned interface {
	ConfirmSaved()
}

// trackedAggregate represents an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database
// connections. Each business operation gets a fresh unit of work.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction. Aggregates written
// through its order repository are tracked and have their version confirmed
// only when the transaction commits; a rollback leaves them untouched.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and confirms every tracked aggregate.
// It returns gorm.ErrInvalidTransaction when no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	for _, tracked := range uow.trackedAggregates {
		if v, ok := tracked.Aggregate.(versioned); ok {
			v.ConfirmSaved()
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction. Handlers defer it unconditionally, so
// after a successful Commit it returns gorm.ErrInvalidTransaction, which
// they ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) WorkflowRuleRepository() ports.WorkflowRuleRepository {
	return rulerepo.NewGormRuleRepository(uow.conn())
}

func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	return notificationrepo.NewGormNotificationRepository(uow.conn())
}

func (uow *GormUnitOfWork) TaskRepository() ports.TaskRepository {
	return taskrepo.NewGormTaskRepository(uow.conn())
}

func (uow *GormUnitOfWork) AdminRepository() ports.AdminRepository {
	return adminrepo.NewGormAdminRepository(uow.conn())
}

func (uow *GormUnitOfWork) RuleExecutionLog() ports.RuleExecutionLog {
	return rulerepo.NewGormExecutionLog(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Outside a transaction the write is already durable and the aggregate is
// confirmed at once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	if uow.tx == nil {
		if v, ok := aggregate.(versioned); ok {
			v.ConfirmSaved()
		}
		return
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
