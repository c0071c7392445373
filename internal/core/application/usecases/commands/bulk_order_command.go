package commands

import (
	"errors"
	"strings"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

const maxBulkItems = 500

var ErrBulkOrderCommandIsNotConstructed = errors.New(
	"BulkOrderCommand must be created via NewBulkOrderCommand constructor",
)

// BulkAction is what a bulk command does to every order. The set of
// implementations is closed: BulkTransition and BulkAssign.
type BulkAction interface {
	Name() string
	validate() error
}

// BulkTransition moves every order to Target.
type BulkTransition struct {
	Target order.Status
	Reason string
	Notes  string
}

func (BulkTransition) Name() string { return "transition" }

func (a BulkTransition) validate() error {
	if err := a.Target.Validate(); err != nil {
		return err
	}
	if a.Target == order.Rejected && strings.TrimSpace(a.Reason) == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}
	return nil
}

// BulkAssign hands every order to AdminID.
type BulkAssign struct {
	AdminID kernel.UUID
}

func (BulkAssign) Name() string { return "assign" }

func (a BulkAssign) validate() error {
	return a.AdminID.Validate()
}

// BulkOrderCommand applies one action to a set of orders. Duplicate ids are
// dropped, keeping the first occurrence. With onlyEligible, orders the
// action cannot apply to are reported as skipped instead of failed.
type BulkOrderCommand struct {
	orderIDs     []kernel.UUID
	action       BulkAction
	onlyEligible bool
	actorID      kernel.UUID

	guard guard.ConstructorGuard
}

func NewBulkOrderCommand(
	orderIDs []kernel.UUID,
	action BulkAction,
	onlyEligible bool,
	actorID kernel.UUID,
) (BulkOrderCommand, error) {
	if action == nil {
		return BulkOrderCommand{}, errs.NewValueIsRequiredError("bulk action")
	}

	unique := make([]kernel.UUID, 0, len(orderIDs))
	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	var joined []error
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			joined = append(joined, err)
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 && len(joined) == 0 {
		joined = append(joined, errs.NewValueIsRequiredError("order ids"))
	}
	if len(unique) > maxBulkItems {
		joined = append(joined, errs.NewValueIsOutOfRangeError("order ids count", len(unique), 1, maxBulkItems))
	}
	joined = append(joined, action.validate(), actorID.Validate())
	if err := errors.Join(joined...); err != nil {
		return BulkOrderCommand{}, err
	}

	return BulkOrderCommand{
		orderIDs:     unique,
		action:       action,
		onlyEligible: onlyEligible,
		actorID:      actorID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c BulkOrderCommand) Validate() error {
	return c.guard.Validate(ErrBulkOrderCommandIsNotConstructed)
}

func (c BulkOrderCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

func (c BulkOrderCommand) Action() BulkAction   { return c.action }
func (c BulkOrderCommand) OnlyEligible() bool   { return c.onlyEligible }
func (c BulkOrderCommand) ActorID() kernel.UUID { return c.actorID }
