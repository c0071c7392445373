package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/domain/services"
	"bitversity/internal/pkg/errs"
)

func approvedOrder(t *testing.T) (order.Snapshot, order.Event) {
	t.Helper()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID: kernel.NewUUID(),
		Type:       order.TypeGame,
		Title:      "Space shooter",
	}, now)
	require.NoError(t, err)
	o.PullEvents()
	require.NoError(t, o.Transition(order.Approved, "", "", nil, now))
	price, err := kernel.MoneyFromString("1250.5")
	require.NoError(t, err)
	require.NoError(t, o.SetPrice(price, nil, nil, now))
	events := o.PullEvents()
	require.NotEmpty(t, events)
	return o.Snapshot(), events[0]
}

func TestMessageRenderer_Render(t *testing.T) {
	snap, ev := approvedOrder(t)
	facts := workflow.NewFacts(snap, ev)
	r := services.NewMessageRenderer()

	t.Run("should substitute facts and event attributes", func(t *testing.T) {
		msg, err := r.Render("{{.title}}: {{.previous_status}} -> {{.status}} at {{.price}} ({{.event_type}})", snap, ev, facts)

		require.NoError(t, err)
		assert.Equal(t, "Space shooter: pending -> approved at 1250.50 (order.status_changed)", msg)
	})

	t.Run("should render unknown keys as empty", func(t *testing.T) {
		msg, err := r.Render("Hello {{.nobody}}world", snap, ev, facts)

		require.NoError(t, err)
		assert.Equal(t, "Hello world", msg)
	})

	t.Run("should reject unparsable templates", func(t *testing.T) {
		_, err := r.Render("{{.title", snap, ev, facts)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Error(t, r.Validate("{{if}}"))
		assert.NoError(t, r.Validate("plain text"))
	})

	t.Run("should reject templates rendering to blank", func(t *testing.T) {
		_, err := r.Render("  {{.nobody}} ", snap, ev, facts)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestBulkEligibility(t *testing.T) {
	e := services.NewBulkEligibility()

	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			o, err := order.RestoreOrder(order.Snapshot{
				ID:              kernel.NewUUID(),
				CustomerID:      kernel.NewUUID(),
				Type:            order.TypeProject,
				Title:           "Landing page",
				Status:          from,
				Priority:        kernel.PriorityLow,
				RejectionReason: rejectionFor(from),
				PaymentStatus:   order.PaymentAwaited,
				Version:         1,
			})
			require.NoError(t, err)

			assert.Equal(t, from.CanTransitionTo(to), e.CanTransition(o, to), "%s -> %s", from, to)
			assert.Equal(t, !from.IsTerminal(), e.CanAssign(o), "assign in %s", from)
		}
	}

	assert.False(t, e.CanTransition(nil, order.Approved))
	assert.False(t, e.CanAssign(&order.Order{}))
}

func rejectionFor(s order.Status) string {
	if s == order.Rejected {
		return "not feasible"
	}
	return ""
}
