package task_test

import (
	"testing"
	"time"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func newTask(t *testing.T) *task.Task {
	t.Helper()
	due := now.Add(48 * time.Hour)
	admin := kernel.NewUUID()
	tk, err := task.NewTask(kernel.NewUUID(), task.Draft{
		Title:         "Prepare quote",
		Priority:      kernel.PriorityHigh,
		DueDate:       &due,
		AssignedAdmin: &admin,
	}, now)
	require.NoError(t, err)
	return tk
}

func TestNewTask(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		tk := newTask(t)

		require.NoError(t, tk.Validate())
		assert.Equal(t, task.StatusPending, tk.Status())
		assert.NotNil(t, tk.AssignedAdmin())
	})

	t.Run("validation", func(t *testing.T) {
		negative := decimal.NewFromInt(-2)

		_, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: " ", EstimatedHours: &negative}, now)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "task title")
		assert.Contains(t, err.Error(), "estimated hours")
	})
}

func TestTask_UpdateStatus(t *testing.T) {
	t.Run("pending and in progress move freely", func(t *testing.T) {
		tk := newTask(t)

		require.NoError(t, tk.UpdateStatus(task.StatusInProgress, nil, now))
		require.NoError(t, tk.UpdateStatus(task.StatusPending, nil, now))
	})

	t.Run("completing records hours and time", func(t *testing.T) {
		tk := newTask(t)
		hours := decimal.RequireFromString("3.5")
		at := now.Add(time.Hour)

		require.NoError(t, tk.UpdateStatus(task.StatusCompleted, &hours, at))

		snap := tk.Snapshot()
		require.NotNil(t, snap.CompletedAt)
		assert.Equal(t, at, *snap.CompletedAt)
		assert.True(t, snap.ActualHours.Equal(hours))
	})

	t.Run("terminal statuses are final", func(t *testing.T) {
		tk := newTask(t)
		require.NoError(t, tk.UpdateStatus(task.StatusCancelled, nil, now))

		err := tk.UpdateStatus(task.StatusPending, nil, now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("same status is illegal", func(t *testing.T) {
		tk := newTask(t)

		require.ErrorIs(t, tk.UpdateStatus(task.StatusPending, nil, now), errs.ErrIllegalTransition)
	})

	t.Run("negative hours leave the task untouched", func(t *testing.T) {
		tk := newTask(t)
		before := tk.Snapshot()
		negative := decimal.NewFromInt(-1)

		err := tk.UpdateStatus(task.StatusCompleted, &negative, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, before, tk.Snapshot())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := task.ParseStatus("blocked")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTask_IsOverdue(t *testing.T) {
	tk := newTask(t)

	assert.False(t, tk.IsOverdue(now))
	assert.True(t, tk.IsOverdue(now.Add(72*time.Hour)))

	require.NoError(t, tk.UpdateStatus(task.StatusCompleted, nil, now))
	assert.False(t, tk.IsOverdue(now.Add(72*time.Hour)))
}
