package workflow_test

import (
	"testing"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedSnapshot() order.Snapshot {
	price, _ := kernel.MoneyFromString("750")
	admin := kernel.NewUUID()
	return order.Snapshot{
		ID:            kernel.NewUUID(),
		CustomerID:    kernel.NewUUID(),
		Type:          order.TypeGame,
		Title:         "Racing game",
		Status:        order.Approved,
		Priority:      kernel.PriorityHigh,
		AssignedAdmin: &admin,
		CustomPrice:   &price,
		PaymentStatus: order.PaymentAwaited,
		Version:       3,
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func statusChanged(from, to order.Status) order.Event {
	return order.Event{ID: kernel.NewUUID(), Type: order.EventStatusChanged, OldStatus: from, NewStatus: to}
}

func TestNewFacts(t *testing.T) {
	snap := approvedSnapshot()

	facts := workflow.NewFacts(snap, statusChanged(order.UnderReview, order.Approved))

	assert.Equal(t, "approved", facts[workflow.FieldStatus])
	assert.Equal(t, "under_review", facts[workflow.FieldPreviousStatus])
	assert.Equal(t, "high", facts[workflow.FieldPriority])
	assert.Equal(t, "game", facts[workflow.FieldOrderType])
	assert.Equal(t, "pending", facts[workflow.FieldPaymentStatus])
	assert.Equal(t, snap.AssignedAdmin.String(), facts[workflow.FieldAssignedAdmin])
	assert.Equal(t, "750", facts[workflow.FieldCustomPrice])
	assert.NotContains(t, facts, workflow.FieldBudget)

	created := workflow.NewFacts(snap, order.Event{Type: order.EventCreated})
	assert.NotContains(t, created, workflow.FieldPreviousStatus)
}

func TestCondition_Matches(t *testing.T) {
	facts := workflow.NewFacts(approvedSnapshot(), statusChanged(order.UnderReview, order.Approved))

	tests := []struct {
		name      string
		condition workflow.Condition
		expected  bool
	}{
		{"status eq", workflow.Condition{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "approved"}, true},
		{"status eq is case insensitive", workflow.Condition{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "APPROVED"}, true},
		{"status neq", workflow.Condition{Field: workflow.FieldStatus, Comparator: workflow.Neq, Value: "approved"}, false},
		{"previous status in", workflow.Condition{Field: workflow.FieldPreviousStatus, Comparator: workflow.In, Value: "pending, under_review"}, true},
		{"order type not in", workflow.Condition{Field: workflow.FieldOrderType, Comparator: workflow.NotIn, Value: "game"}, false},
		{"priority gte", workflow.Condition{Field: workflow.FieldPriority, Comparator: workflow.Gte, Value: "high"}, true},
		{"priority gt", workflow.Condition{Field: workflow.FieldPriority, Comparator: workflow.Gt, Value: "high"}, false},
		{"priority lt", workflow.Condition{Field: workflow.FieldPriority, Comparator: workflow.Lt, Value: "urgent"}, true},
		{"price gt", workflow.Condition{Field: workflow.FieldCustomPrice, Comparator: workflow.Gt, Value: "500.50"}, true},
		{"price eq numerically", workflow.Condition{Field: workflow.FieldCustomPrice, Comparator: workflow.Eq, Value: "750.00"}, true},
		{"budget lte on absent value", workflow.Condition{Field: workflow.FieldBudget, Comparator: workflow.Lte, Value: "1000"}, false},
		{"budget is empty", workflow.Condition{Field: workflow.FieldBudget, Comparator: workflow.IsEmpty}, true},
		{"admin is not empty", workflow.Condition{Field: workflow.FieldAssignedAdmin, Comparator: workflow.IsNotEmpty}, true},
		{"budget neq on absent value", workflow.Condition{Field: workflow.FieldBudget, Comparator: workflow.Neq, Value: "10"}, true},
		{"unknown field fails closed", workflow.Condition{Field: "colour", Comparator: workflow.Eq, Value: "red"}, false},
		{"unknown comparator fails closed", workflow.Condition{Field: workflow.FieldStatus, Comparator: "like", Value: "app%"}, false},
		{"ordering on status fails closed", workflow.Condition{Field: workflow.FieldStatus, Comparator: workflow.Gt, Value: "pending"}, false},
		{"bad operand fails closed", workflow.Condition{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "shipped"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.condition.Matches(facts))
		})
	}
}

func TestConditions_EmptyConjunctionMatches(t *testing.T) {
	assert.True(t, workflow.Conditions{}.Matches(workflow.Facts{}))
	assert.True(t, workflow.Conditions(nil).Matches(nil))
}

func TestNewCondition(t *testing.T) {
	c, err := workflow.NewCondition(workflow.FieldStatus, workflow.Eq, " approved ")
	require.NoError(t, err)
	assert.Equal(t, "approved", c.Value)

	_, err = workflow.NewCondition(workflow.FieldPriority, workflow.In, " , ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = workflow.NewCondition(workflow.FieldAssignedAdmin, workflow.Eq, "bob")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDecodeConditions(t *testing.T) {
	t.Run("empty document is the empty conjunction", func(t *testing.T) {
		cs, err := workflow.DecodeConditions(nil)

		require.NoError(t, err)
		assert.Empty(t, cs)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := workflow.DecodeConditions([]byte(`{"status":`))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("valid json with an invalid condition", func(t *testing.T) {
		_, err := workflow.DecodeConditions([]byte(`[{"field":"status","comparator":"gt","value":"approved"}]`))

		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		in := workflow.Conditions{{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "approved"}}

		raw, err := workflow.EncodeConditions(in)
		require.NoError(t, err)
		out, err := workflow.DecodeConditions(raw)

		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}
