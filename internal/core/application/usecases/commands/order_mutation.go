package commands

import (
	"context"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"
)

// mutateOrder locks the order, checks expectedVersion when given, applies fn
// and commits. Nothing is written when fn fails. The returned order still
// holds the events fn recorded.
func mutateOrder(
	ctx context.Context,
	factory OrderUoWFactory,
	id kernel.UUID,
	expectedVersion *int,
	fn func(uow OrderUoW, o *order.Order) error,
) (*order.Order, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if expectedVersion != nil && *expectedVersion != o.Version() {
		return nil, errs.NewConcurrentModificationError("order", id.String(), *expectedVersion, o.Version())
	}

	if err = fn(uow, o); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func validateExpectedVersion(v *int) error {
	if v != nil && *v < 1 {
		return errs.NewValueIsOutOfRangeError("expected version", *v, 1, "unbounded")
	}
	return nil
}
