// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and dispatch of the committed lifecycle events.
package commands

import (
	"context"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AdminRepoFactory interface {
		AdminRepository() ports.AdminRepository
	}

	RuleRepoFactory interface {
		WorkflowRuleRepository() ports.WorkflowRuleRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	TaskRepoFactory interface {
		TaskRepository() ports.TaskRepository
	}

	// OrderUoW manages transactions for order operations. Admins are read to
	// validate assignment targets.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... mutate o
	//   err = uow.OrderRepository().Update(ctx, o)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AdminRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RuleUoW manages transactions for workflow rule administration.
	RuleUoW interface {
		TxManager
		RuleRepoFactory
	}

	RuleUoWFactory interface {
		Create() RuleUoW
	}

	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	NotificationUoWFactory interface {
		Create() NotificationUoW
	}

	// TaskUoW manages task operations, which also notify assignees.
	TaskUoW interface {
		TxManager
		TaskRepoFactory
		NotificationRepoFactory
		AdminRepoFactory
	}

	TaskUoWFactory interface {
		Create() TaskUoW
	}
)

// EventDispatcher receives the events of an order after they are committed.
// It runs the workflow rules and never fails the calling operation.
type EventDispatcher interface {
	Dispatch(ctx context.Context, subject order.Snapshot, events []order.Event)
}

// RuleCacheInvalidator is told whenever a workflow rule changes.
type RuleCacheInvalidator interface {
	Invalidate()
}
