package queries

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
	"bitversity/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery lists one administrator's notifications, newest first.
type ListNotificationsQuery struct {
	filter ports.NotificationFilter

	guard guard.ConstructorGuard
}

func NewListNotificationsQuery(recipientID kernel.UUID, unreadOnly bool, limit int) (ListNotificationsQuery, error) {
	var joined []error
	if err := recipientID.Validate(); err != nil {
		joined = append(joined, errs.NewValueIsRequiredErrorWithCause("recipient id", err))
	}
	if limit < 0 {
		joined = append(joined, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxPageSize))
	}
	if err := errors.Join(joined...); err != nil {
		return ListNotificationsQuery{}, err
	}

	return ListNotificationsQuery{
		filter: ports.NotificationFilter{
			RecipientID: recipientID,
			UnreadOnly:  unreadOnly,
			Limit:       pageSize(limit),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) Filter() ports.NotificationFilter {
	return q.filter
}
