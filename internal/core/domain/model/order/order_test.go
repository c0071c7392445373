package order_test

import (
	"fmt"
	"testing"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func validDetails() order.Details {
	budget, _ := kernel.MoneyFromString("2500")
	return order.Details{
		CustomerID:  kernel.NewUUID(),
		Type:        order.TypeProject,
		Title:       "Inventory dashboard",
		Description: "React front end with a Go API",
		Budget:      &budget,
		Priority:    kernel.PriorityHigh,
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), validDetails(), createdAt)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

// orderIn walks the lifecycle graph from Pending to the requested status.
func orderIn(t *testing.T, s order.Status) *order.Order {
	t.Helper()
	paths := map[order.Status][]order.Status{
		order.Pending:        {},
		order.UnderReview:    {order.UnderReview},
		order.Approved:       {order.Approved},
		order.PaymentPending: {order.Approved, order.PaymentPending},
		order.InProgress:     {order.Approved, order.InProgress},
		order.Completed:      {order.Approved, order.InProgress, order.Completed},
		order.Rejected:       {order.Rejected},
		order.Cancelled:      {order.Cancelled},
	}
	o := newPendingOrder(t)
	for _, step := range paths[s] {
		reason := ""
		if step == order.Rejected {
			reason = "not feasible"
		}
		require.NoError(t, o.Transition(step, reason, "", nil, createdAt))
	}
	o.PullEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order and records order.created", func(t *testing.T) {
		id := kernel.NewUUID()
		details := validDetails()

		o, err := order.NewOrder(id, details, createdAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.PaymentAwaited, o.PaymentStatus())
		assert.Equal(t, kernel.PriorityHigh, o.Priority())
		assert.Equal(t, 1, o.Version())
		assert.Nil(t, o.AssignedAdmin())
		assert.Nil(t, o.CustomPrice())

		events := o.Events()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventCreated, events[0].Type)
		assert.True(t, events[0].OrderID.IsEqual(id))
		require.NoError(t, events[0].ID.Validate())
	})

	t.Run("defaults priority to medium", func(t *testing.T) {
		details := validDetails()
		details.Priority = ""

		o, err := order.NewOrder(kernel.NewUUID(), details, createdAt)

		require.NoError(t, err)
		assert.Equal(t, kernel.PriorityMedium, o.Priority())
	})

	t.Run("joins every validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, order.Details{Priority: "asap"}, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Contains(t, err.Error(), "customer id")
		assert.Contains(t, err.Error(), "order type")
		assert.Contains(t, err.Error(), "title")
		assert.Contains(t, err.Error(), "priority")
	})
}

func TestOrder_Validate(t *testing.T) {
	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Transition_IllegalEdgesLeaveOrderUntouched(t *testing.T) {
	later := createdAt.Add(time.Hour)
	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			if isAllowed(from, to) {
				continue
			}
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				o := orderIn(t, from)
				before := o.Snapshot()

				err := o.Transition(to, "some reason", "notes", nil, later)

				require.ErrorIs(t, err, errs.ErrIllegalTransition)
				assert.Equal(t, before, o.Snapshot())
				assert.Empty(t, o.Events())
			})
		}
	}
}

func TestOrder_Transition_SameStatusAlwaysFails(t *testing.T) {
	for _, s := range order.AllStatuses() {
		o := orderIn(t, s)

		err := o.Transition(s, "reason", "", nil, createdAt)

		require.ErrorIs(t, err, errs.ErrIllegalTransition, s.String())
	}
}

func TestOrder_Transition_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []order.Status{order.Completed, order.Rejected, order.Cancelled} {
		o := orderIn(t, terminal)
		for _, to := range order.AllStatuses() {
			require.ErrorIs(t, o.Transition(to, "reason", "", nil, createdAt), errs.ErrIllegalTransition)
		}
	}
}

func TestOrder_Transition_Reject(t *testing.T) {
	rejectable := []order.Status{order.Pending, order.UnderReview, order.Approved}

	for _, from := range rejectable {
		t.Run(from.String()+" without reason", func(t *testing.T) {
			o := orderIn(t, from)
			before := o.Snapshot()

			err := o.Transition(order.Rejected, "   ", "", nil, createdAt.Add(time.Minute))

			require.ErrorIs(t, err, errs.ErrValueIsRequired)
			assert.Equal(t, before, o.Snapshot())
		})

		t.Run(from.String()+" with reason", func(t *testing.T) {
			o := orderIn(t, from)

			err := o.Transition(order.Rejected, "Budget too low", "", nil, createdAt)

			require.NoError(t, err)
			assert.Equal(t, order.Rejected, o.Status())
			assert.Equal(t, "Budget too low", o.RejectionReason())
		})
	}
}

func TestOrder_Transition_RecordsEventAndTouches(t *testing.T) {
	o := newPendingOrder(t)
	actor := kernel.NewUUID()
	at := createdAt.Add(2 * time.Hour)

	require.NoError(t, o.Transition(order.UnderReview, "", "looks promising", &actor, at))

	snap := o.Snapshot()
	assert.Equal(t, order.UnderReview, snap.Status)
	assert.Equal(t, "looks promising", snap.AdminNotes)
	assert.Equal(t, at, snap.UpdatedAt)
	require.NotNil(t, snap.UpdatedBy)
	assert.True(t, snap.UpdatedBy.IsEqual(actor))

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, order.EventStatusChanged, events[0].Type)
	assert.Equal(t, order.Pending, events[0].OldStatus)
	assert.Equal(t, order.UnderReview, events[0].NewStatus)
	assert.Empty(t, o.PullEvents())
}

func TestOrder_Scenario_ReviewToCompletion(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.Transition(order.UnderReview, "", "", nil, createdAt))
	require.ErrorIs(t, o.Transition(order.Completed, "", "", nil, createdAt), errs.ErrIllegalTransition)
	require.NoError(t, o.Transition(order.Approved, "", "", nil, createdAt))
	require.NoError(t, o.Transition(order.InProgress, "", "", nil, createdAt))
	require.NoError(t, o.Transition(order.Completed, "", "", nil, createdAt))

	assert.Equal(t, order.Completed, o.Status())
	assert.Len(t, o.Events(), 4)
}

func TestOrder_SetPrice(t *testing.T) {
	price, _ := kernel.MoneyFromString("500")

	t.Run("allowed while approved or awaiting payment", func(t *testing.T) {
		for _, s := range []order.Status{order.Approved, order.PaymentPending} {
			o := orderIn(t, s)
			eta := createdAt.AddDate(0, 1, 0)

			require.NoError(t, o.SetPrice(price, &eta, nil, createdAt))

			require.NotNil(t, o.CustomPrice())
			assert.True(t, o.CustomPrice().IsEqual(price))
			assert.Equal(t, s, o.Status())
			assert.Empty(t, o.Events())
		}
	})

	t.Run("invalid state elsewhere", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			if s.AllowsPricing() {
				continue
			}
			o := orderIn(t, s)
			before := o.Snapshot()

			err := o.SetPrice(price, nil, nil, createdAt.Add(time.Hour))

			require.ErrorIs(t, err, errs.ErrInvalidState, s.String())
			assert.Equal(t, before, o.Snapshot())
		}
	})

	t.Run("negative price is rejected before reaching the order", func(t *testing.T) {
		_, err := kernel.MoneyFromString("-10")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("zero value money is rejected", func(t *testing.T) {
		o := orderIn(t, order.Approved)

		require.ErrorIs(t, o.SetPrice(kernel.Money{}, nil, nil, createdAt), kernel.ErrMoneyIsNotConstructed)
	})
}

func TestOrder_QuoteIsDroppedOnRejectOrCancel(t *testing.T) {
	price, _ := kernel.MoneyFromString("900")

	for _, to := range []order.Status{order.Rejected, order.Cancelled} {
		o := orderIn(t, order.Approved)
		require.NoError(t, o.SetPrice(price, nil, nil, createdAt))

		require.NoError(t, o.Transition(to, "client withdrew", "", nil, createdAt))

		assert.Nil(t, o.CustomPrice(), to.String())
	}
}

func TestOrder_CompletionSettlesPendingPayment(t *testing.T) {
	o := orderIn(t, order.InProgress)
	require.Equal(t, order.PaymentAwaited, o.PaymentStatus())

	require.NoError(t, o.Transition(order.Completed, "", "", nil, createdAt))

	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
}

func TestOrder_Assign(t *testing.T) {
	t.Run("records order.assigned", func(t *testing.T) {
		o := newPendingOrder(t)
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		require.NoError(t, o.Assign(first, nil, createdAt))
		require.NoError(t, o.Assign(second, nil, createdAt))

		events := o.PullEvents()
		require.Len(t, events, 2)
		assert.Equal(t, order.EventAssigned, events[1].Type)
		require.NotNil(t, events[1].PreviousAdmin)
		assert.True(t, events[1].PreviousAdmin.IsEqual(first))
		assert.True(t, events[1].AssignedAdmin.IsEqual(second))
		assert.True(t, o.AssignedAdmin().IsEqual(second))
	})

	t.Run("same admin is a no-op", func(t *testing.T) {
		o := newPendingOrder(t)
		admin := kernel.NewUUID()
		require.NoError(t, o.Assign(admin, nil, createdAt))
		o.PullEvents()
		before := o.Snapshot()

		require.NoError(t, o.Assign(admin, nil, createdAt.Add(time.Hour)))

		assert.Equal(t, before, o.Snapshot())
		assert.Empty(t, o.Events())
	})

	t.Run("terminal order cannot be assigned", func(t *testing.T) {
		o := orderIn(t, order.Cancelled)

		require.ErrorIs(t, o.Assign(kernel.NewUUID(), nil, createdAt), errs.ErrInvalidState)
	})
}

func TestOrder_SetPriority(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.SetPriority(kernel.PriorityUrgent, nil, createdAt.Add(time.Minute)))
	assert.Equal(t, kernel.PriorityUrgent, o.Priority())

	require.ErrorIs(t, o.SetPriority("whenever", nil, createdAt), errs.ErrValueIsInvalid)
}

func TestOrder_SetPaymentStatus(t *testing.T) {
	price, _ := kernel.MoneyFromString("120")

	t.Run("pending to paid to refunded", func(t *testing.T) {
		o := orderIn(t, order.Approved)
		require.NoError(t, o.SetPrice(price, nil, nil, createdAt))

		require.NoError(t, o.SetPaymentStatus(order.PaymentPaid, nil, createdAt))
		require.NoError(t, o.SetPaymentStatus(order.PaymentRefunded, nil, createdAt))
		assert.Equal(t, order.PaymentRefunded, o.PaymentStatus())
	})

	t.Run("paid requires a quote", func(t *testing.T) {
		o := orderIn(t, order.Approved)

		require.ErrorIs(t, o.SetPaymentStatus(order.PaymentPaid, nil, createdAt), errs.ErrInvalidState)
	})

	t.Run("cannot skip to refunded", func(t *testing.T) {
		o := orderIn(t, order.Approved)

		require.ErrorIs(t, o.SetPaymentStatus(order.PaymentRefunded, nil, createdAt), errs.ErrIllegalTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round trips a snapshot", func(t *testing.T) {
		o := orderIn(t, order.Approved)
		price, _ := kernel.MoneyFromString("42")
		require.NoError(t, o.SetPrice(price, nil, nil, createdAt))

		restored, err := order.RestoreOrder(o.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, o.Snapshot(), restored.Snapshot())
		assert.Empty(t, restored.Events())
	})

	t.Run("rejects rejected status without reason", func(t *testing.T) {
		snap := orderIn(t, order.Pending).Snapshot()
		snap.Status = order.Rejected

		_, err := order.RestoreOrder(snap)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects a price on a pending order", func(t *testing.T) {
		snap := orderIn(t, order.Pending).Snapshot()
		price, _ := kernel.MoneyFromString("10")
		snap.CustomPrice = &price

		_, err := order.RestoreOrder(snap)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_ConfirmSavedAdvancesVersion(t *testing.T) {
	o := newPendingOrder(t)

	o.ConfirmSaved()

	assert.Equal(t, 2, o.Version())
}
