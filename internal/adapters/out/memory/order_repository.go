package memory

import (
	"context"
	"sort"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "order.add"); err != nil {
		return err
	}
	snap := aggregate.Snapshot()
	return r.uow.write(stagedOp{
		check: func(s *Store) error {
			if _, ok := s.orders[snap.ID]; ok {
				return errs.NewValueIsInvalidErrorWithCause("order id", errDuplicate(snap.ID))
			}
			return nil
		},
		apply: func(s *Store) { s.orders[snap.ID] = snap },
	})
}

func (r *orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := r.uow.store.check(ctx, "order.update"); err != nil {
		return err
	}

	expected := aggregate.Version()
	snap := aggregate.Snapshot()
	snap.Version = expected + 1
	versionCheck := func(s *Store) error {
		stored, ok := s.orders[snap.ID]
		if !ok {
			return errs.NewObjectNotFoundError("order", snap.ID.String())
		}
		if stored.Version != expected {
			return errs.NewConcurrentModificationError("order", snap.ID.String(), expected, stored.Version)
		}
		return nil
	}

	// checked eagerly as well so callers see conflicts before commit
	r.uow.store.mu.RLock()
	err := versionCheck(r.uow.store)
	r.uow.store.mu.RUnlock()
	if err != nil {
		return err
	}

	if err = r.uow.write(stagedOp{
		check: versionCheck,
		apply: func(s *Store) { s.orders[snap.ID] = snap },
	}); err != nil {
		return err
	}
	aggregate.ConfirmSaved()
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := r.uow.store.check(ctx, "order.get"); err != nil {
		return nil, err
	}
	snap, err := r.uow.store.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(snap)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if r.uow.inTx() && !r.uow.hold(id) {
		if err := r.uow.store.lockOrder(ctx, id); err != nil {
			return nil, err
		}
		r.uow.remember(id)
	}
	return r.Get(ctx, id)
}

func (s *Store) FindOrder(_ context.Context, id kernel.UUID) (order.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.orders[id]
	if !ok {
		return order.Snapshot{}, errs.NewObjectNotFoundError("order", id.String())
	}
	return snap, nil
}

func (s *Store) ListOrders(_ context.Context, filter ports.OrderFilter) ([]order.Snapshot, error) {
	s.mu.RLock()
	out := make([]order.Snapshot, 0, len(s.orders))
	for _, snap := range s.orders {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, snap.Status) {
			continue
		}
		if filter.AssignedAdmin != nil && !kernel.OptionalUUIDEqual(filter.AssignedAdmin, snap.AssignedAdmin) {
			continue
		}
		out = append(out, snap)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Offset, filter.Limit), nil
}

func containsStatus(list []order.Status, s order.Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
