package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"bitversity/internal/core/application/usecases/commands"
)

// DefaultTaskReminderSchedule runs the overdue scan at the top of every hour.
const DefaultTaskReminderSchedule = "0 0 * * * *"

// OverdueTaskReminder is satisfied by commands.RemindOverdueTasksCommandHandler.
type OverdueTaskReminder interface {
	Handle(ctx context.Context, cmd commands.RemindOverdueTasksCommand) (int, error)
}

// TaskReminderJob periodically reminds assignees about their overdue tasks.
// Reminders are deduplicated per task and day by the handler, so the
// schedule only bounds how late a reminder can arrive.
type TaskReminderJob struct {
	handler  OverdueTaskReminder
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewTaskReminderJob creates the job. An empty schedule selects
// DefaultTaskReminderSchedule. Schedules use the six-field cron format.
func NewTaskReminderJob(handler OverdueTaskReminder, schedule string, logger *slog.Logger) *TaskReminderJob {
	if schedule == "" {
		schedule = DefaultTaskReminderSchedule
	}
	return &TaskReminderJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "task_reminder_job"),
	}
}

// Start registers the scan and starts the scheduler.
func (j *TaskReminderJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Task reminder job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running scan to finish.
func (j *TaskReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Task reminder job stopped")
}

func (j *TaskReminderJob) run(ctx context.Context) {
	sent, err := j.handler.Handle(ctx, commands.NewRemindOverdueTasksCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Task reminder job failed", "error", err)
		return
	}
	if sent > 0 {
		j.logger.InfoContext(ctx, "Overdue task reminders sent", "count", sent)
	}
}
