// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. TaskReminderJob - Runs on TASK_REMINDER_SCHEDULE (hourly by default) and notifies
// assignees about tasks past their due date, at most once per task and day
// 2. RuleCacheRefreshJob - Runs every RULE_CACHE_TTL and reloads the active workflow rules
//
// # Usage
//
//	jobManager := jobs.NewJobManager(remindHandler, cfg.TaskReminderSchedule, ruleCache, cfg.RuleCacheTTL, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Failed runs are logged; the next run retries
// - A failed refresh keeps the previously loaded rules
// - Failed job starts will stop any already running jobs
package jobs
