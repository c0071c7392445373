package queries

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders, most urgent first and newest first
// within one priority.
//
// Example:
//
//	query, err := NewListOrdersQuery([]string{"pending", "under_review"}, nil, 20, 0)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery parses the status names. A zero limit selects the
// default page size; larger limits are capped.
func NewListOrdersQuery(statuses []string, assignedAdmin *kernel.UUID, limit, offset int) (ListOrdersQuery, error) {
	var joined []error
	parsed := make([]order.Status, 0, len(statuses))
	for _, s := range statuses {
		status, err := order.ParseStatus(s)
		if err != nil {
			joined = append(joined, err)
			continue
		}
		parsed = append(parsed, status)
	}
	if assignedAdmin != nil {
		joined = append(joined, assignedAdmin.Validate())
	}
	if limit < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize))
	}
	if offset < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded"))
	}
	if err := errors.Join(joined...); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		filter: ports.OrderFilter{
			Statuses:      parsed,
			AssignedAdmin: kernel.CloneUUID(assignedAdmin),
			Limit:         pageSize(limit),
			Offset:        offset,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}
