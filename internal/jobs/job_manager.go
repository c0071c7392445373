package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	taskReminderJob     *TaskReminderJob
	ruleCacheRefreshJob *RuleCacheRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	reminder OverdueTaskReminder,
	reminderSchedule string,
	refresher RuleRefresher,
	refreshInterval time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		taskReminderJob:     NewTaskReminderJob(reminder, reminderSchedule, logger),
		ruleCacheRefreshJob: NewRuleCacheRefreshJob(refresher, refreshInterval, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.ruleCacheRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start rule cache refresh job: %w", err)
	}

	if err := jm.taskReminderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.ruleCacheRefreshJob.Stop()
		return fmt.Errorf("failed to start task reminder job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.taskReminderJob.Stop()
	jm.ruleCacheRefreshJob.Stop()
}
