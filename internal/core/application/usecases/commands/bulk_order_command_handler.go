package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/services"
	"bitversity/internal/pkg/metrics"
)

const DefaultBulkWorkers = 4

var errItemSkipped = errors.New("order is not eligible")

// BulkItemFailure explains why one order of a bulk command was not changed.
type BulkItemFailure struct {
	OrderID kernel.UUID
	Reason  string
	Err     error
}

// BulkResult counts the outcome of a bulk command. Failed keeps the order of
// the command's ids.
type BulkResult struct {
	Succeeded int
	Skipped   int
	Failed    []BulkItemFailure
}

type bulkOutcome int

const (
	bulkSucceeded bulkOutcome = iota
	bulkSkipped
	bulkFailed
)

func (o bulkOutcome) String() string {
	switch o {
	case bulkSucceeded:
		return "succeeded"
	case bulkSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

type bulkItemResult struct {
	outcome bulkOutcome
	err     error
}

// BulkOrderCommandHandler runs every item of a bulk command in its own
// transaction, at most workers at a time. A failing item never stops the
// batch; its committed events are dispatched like those of a single-item
// command.
type BulkOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	dispatcher  EventDispatcher
	eligibility services.BulkEligibility
	workers     int
	logger      *slog.Logger
	now         func() time.Time
}

func NewBulkOrderCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher EventDispatcher,
	workers int,
	logger *slog.Logger,
) BulkOrderCommandHandler {
	if workers <= 0 {
		workers = DefaultBulkWorkers
	}
	return BulkOrderCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  dispatcher,
		eligibility: services.NewBulkEligibility(),
		workers:     workers,
		logger:      logger.With("component", "bulk-orders"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (h BulkOrderCommandHandler) Handle(ctx context.Context, cmd BulkOrderCommand) (BulkResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkResult{}, err
	}

	if assign, ok := cmd.Action().(BulkAssign); ok {
		if _, err := h.uowFactory.Create().AdminRepository().Get(ctx, assign.AdminID); err != nil {
			return BulkResult{}, err
		}
	}

	ids := cmd.OrderIDs()
	results := make([]bulkItemResult, len(ids))

	var g errgroup.Group
	g.SetLimit(h.workers)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = h.process(ctx, cmd, id)
			return nil
		})
	}
	_ = g.Wait()

	var res BulkResult
	for i, r := range results {
		metrics.Get().BulkItem(cmd.Action().Name(), r.outcome.String())
		switch r.outcome {
		case bulkSucceeded:
			res.Succeeded++
		case bulkSkipped:
			res.Skipped++
		case bulkFailed:
			res.Failed = append(res.Failed, BulkItemFailure{OrderID: ids[i], Reason: r.err.Error(), Err: r.err})
		}
	}

	h.logger.InfoContext(ctx, "bulk command finished",
		"action", cmd.Action().Name(),
		"requested", len(ids),
		"succeeded", res.Succeeded,
		"skipped", res.Skipped,
		"failed", len(res.Failed))

	return res, nil
}

func (h BulkOrderCommandHandler) process(ctx context.Context, cmd BulkOrderCommand, id kernel.UUID) bulkItemResult {
	actor := cmd.ActorID()
	from := order.Unknown
	o, err := mutateOrder(ctx, h.uowFactory, id, nil, func(_ OrderUoW, o *order.Order) error {
		from = o.Status()
		switch a := cmd.Action().(type) {
		case BulkTransition:
			if cmd.OnlyEligible() && !h.eligibility.CanTransition(o, a.Target) {
				return errItemSkipped
			}
			return o.Transition(a.Target, a.Reason, a.Notes, &actor, h.now())
		case BulkAssign:
			if cmd.OnlyEligible() && !h.eligibility.CanAssign(o) {
				return errItemSkipped
			}
			return o.Assign(a.AdminID, &actor, h.now())
		default:
			return errors.New("unsupported bulk action")
		}
	})

	if t, ok := cmd.Action().(BulkTransition); ok && !errors.Is(err, errItemSkipped) {
		metrics.Get().Transition(from.String(), t.Target.String(), err)
	}

	switch {
	case errors.Is(err, errItemSkipped):
		return bulkItemResult{outcome: bulkSkipped}
	case err != nil:
		h.logger.DebugContext(ctx, "bulk item failed", "order_id", id.String(), "error", err)
		return bulkItemResult{outcome: bulkFailed, err: err}
	}

	h.dispatcher.Dispatch(ctx, o.Snapshot(), o.PullEvents())
	return bulkItemResult{outcome: bulkSucceeded}
}
