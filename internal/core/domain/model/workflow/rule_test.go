package workflow_test

import (
	"errors"
	"testing"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruleTime = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func approvalDefinition(recipient kernel.UUID) workflow.Definition {
	return workflow.Definition{
		Name:    "Notify on approval",
		Trigger: order.EventStatusChanged,
		Conditions: workflow.Conditions{
			{Field: workflow.FieldStatus, Comparator: workflow.Eq, Value: "approved"},
		},
		Actions:  []workflow.Action{workflow.NotifyAction{RecipientID: recipient, Template: "approved"}},
		IsActive: true,
	}
}

func TestNewRule(t *testing.T) {
	t.Run("valid definition", func(t *testing.T) {
		creator := kernel.NewUUID()

		r, err := workflow.NewRule(kernel.NewUUID(), approvalDefinition(kernel.NewUUID()), &creator, ruleTime)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.Equal(t, "Notify on approval", r.Name())
		assert.True(t, r.IsActive())
		assert.Zero(t, r.ExecutionCount())
		assert.Nil(t, r.LastExecutedAt())
	})

	t.Run("collects every problem", func(t *testing.T) {
		def := workflow.Definition{
			Trigger:    "order.deleted",
			Conditions: workflow.Conditions{{Field: "colour", Comparator: workflow.Eq, Value: "red"}},
		}

		_, err := workflow.NewRule(kernel.NewUUID(), def, nil, ruleTime)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "rule name")
		assert.Contains(t, err.Error(), "event type")
		assert.Contains(t, err.Error(), "condition field")
		assert.Contains(t, err.Error(), "rule actions")
	})

	t.Run("rejects malformed actions", func(t *testing.T) {
		def := approvalDefinition(kernel.NewUUID())
		def.Actions = append(def.Actions, workflow.MalformedAction{RawKind: "x", Err: errors.New("bad")})

		_, err := workflow.NewRule(kernel.NewUUID(), def, nil, ruleTime)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRule_Matches(t *testing.T) {
	r, err := workflow.NewRule(kernel.NewUUID(), approvalDefinition(kernel.NewUUID()), nil, ruleTime)
	require.NoError(t, err)

	approved := approvedSnapshot()
	rejected := approvedSnapshot()
	rejected.Status = order.Rejected
	toApproved := statusChanged(order.UnderReview, order.Approved)
	toRejected := statusChanged(order.Pending, order.Rejected)

	assert.True(t, r.Matches(toApproved, workflow.NewFacts(approved, toApproved)))
	assert.False(t, r.Matches(toRejected, workflow.NewFacts(rejected, toRejected)))

	created := order.Event{Type: order.EventCreated}
	assert.False(t, r.Matches(created, workflow.NewFacts(approved, created)))

	r.SetActive(false, ruleTime)
	assert.False(t, r.Matches(toApproved, workflow.NewFacts(approved, toApproved)))
}

func TestRestoreRule_BrokenConditionsFailClosed(t *testing.T) {
	r, err := workflow.RestoreRule(workflow.RuleSnapshot{
		ID:            kernel.NewUUID(),
		Name:          "legacy",
		IsActive:      true,
		Trigger:       order.EventStatusChanged,
		ConditionsErr: errors.New("unexpected end of JSON input"),
		Actions:       []workflow.Action{workflow.SetPriorityAction{Priority: kernel.PriorityHigh}},
	})
	require.NoError(t, err)

	ev := statusChanged(order.UnderReview, order.Approved)
	assert.False(t, r.Matches(ev, workflow.NewFacts(approvedSnapshot(), ev)))
}

func TestRule_UpdateKeepsCounters(t *testing.T) {
	r, err := workflow.NewRule(kernel.NewUUID(), approvalDefinition(kernel.NewUUID()), nil, ruleTime)
	require.NoError(t, err)
	r.RecordExecution(ruleTime.Add(time.Minute))

	def := approvalDefinition(kernel.NewUUID())
	def.Name = "Renamed"
	later := ruleTime.Add(time.Hour)
	require.NoError(t, r.Update(def, later))

	assert.Equal(t, "Renamed", r.Name())
	assert.Equal(t, 1, r.ExecutionCount())
	assert.Equal(t, later, r.Snapshot().UpdatedAt)

	require.Error(t, r.Update(workflow.Definition{}, later))
	assert.Equal(t, "Renamed", r.Name())
}
