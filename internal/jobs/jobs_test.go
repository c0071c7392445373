package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bitversity/internal/core/application/usecases/commands"
)

type reminderMock struct {
	mock.Mock
}

func (m *reminderMock) Handle(ctx context.Context, cmd commands.RemindOverdueTasksCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type refresherMock struct {
	mock.Mock
}

func (m *refresherMock) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskReminderJob_Run(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reminder := &reminderMock{}
		reminder.On("Handle", mock.Anything, mock.Anything).Return(2, nil).Once()

		NewTaskReminderJob(reminder, "", discardLogger()).run(t.Context())

		reminder.AssertExpectations(t)
	})

	t.Run("handler error is swallowed", func(t *testing.T) {
		reminder := &reminderMock{}
		reminder.On("Handle", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()

		assert.NotPanics(t, func() {
			NewTaskReminderJob(reminder, "", discardLogger()).run(t.Context())
		})
		reminder.AssertExpectations(t)
	})
}

func TestTaskReminderJob_DefaultSchedule(t *testing.T) {
	job := NewTaskReminderJob(&reminderMock{}, "", discardLogger())
	assert.Equal(t, DefaultTaskReminderSchedule, job.schedule)

	job = NewTaskReminderJob(&reminderMock{}, "*/30 * * * * *", discardLogger())
	assert.Equal(t, "*/30 * * * * *", job.schedule)
}

func TestTaskReminderJob_StartRejectsBadSchedule(t *testing.T) {
	job := NewTaskReminderJob(&reminderMock{}, "every tuesday", discardLogger())
	require.Error(t, job.Start())
}

func TestRuleCacheRefreshJob_Run(t *testing.T) {
	refresher := &refresherMock{}
	refresher.On("Refresh", mock.Anything).Return(errors.New("timeout")).Once()
	refresher.On("Refresh", mock.Anything).Return(nil).Once()

	job := NewRuleCacheRefreshJob(refresher, time.Minute, discardLogger())
	job.run(t.Context())
	job.run(t.Context())

	refresher.AssertExpectations(t)
}

func TestRuleCacheRefreshJob_RefreshesOnSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}

	refreshed := make(chan struct{}, 1)
	refresher := &refresherMock{}
	refresher.On("Refresh", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
	})

	job := NewRuleCacheRefreshJob(refresher, time.Second, discardLogger())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-refreshed:
	case <-time.After(5 * time.Second):
		t.Fatal("rule cache was not refreshed")
	}
}

func TestRuleCacheRefreshJob_StartRejectsSubSecondInterval(t *testing.T) {
	job := NewRuleCacheRefreshJob(&refresherMock{}, 10*time.Millisecond, discardLogger())
	require.Error(t, job.Start())
}

func TestJobManager_StartAllStopsStartedJobsOnFailure(t *testing.T) {
	jm := NewJobManager(&reminderMock{}, "not a schedule", &refresherMock{}, time.Minute, discardLogger())

	err := jm.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task reminder job")
}

func TestJobManager_StartAndStop(t *testing.T) {
	jm := NewJobManager(&reminderMock{}, "", &refresherMock{}, time.Hour, discardLogger())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}
