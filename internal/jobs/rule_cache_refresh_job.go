package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RuleRefresher is satisfied by automation.RuleCache.
type RuleRefresher interface {
	Refresh(ctx context.Context) error
}

// RuleCacheRefreshJob reloads the active workflow rules at a fixed interval
// so that rules changed by another instance become visible.
type RuleCacheRefreshJob struct {
	refresher RuleRefresher
	interval  time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewRuleCacheRefreshJob creates the job; interval is usually the cache TTL.
func NewRuleCacheRefreshJob(refresher RuleRefresher, interval time.Duration, logger *slog.Logger) *RuleCacheRefreshJob {
	return &RuleCacheRefreshJob{
		refresher: refresher,
		interval:  interval,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "rule_cache_refresh_job"),
	}
}

// Start registers the refresh and starts the scheduler.
func (j *RuleCacheRefreshJob) Start() error {
	if j.interval < time.Second {
		return fmt.Errorf("rule cache refresh interval %s is shorter than one second", j.interval)
	}
	spec := "@every " + j.interval.String()
	if _, err := j.cron.AddFunc(spec, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rule cache refresh job started", "interval", j.interval.String())
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *RuleCacheRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Rule cache refresh job stopped")
}

func (j *RuleCacheRefreshJob) run(ctx context.Context) {
	if err := j.refresher.Refresh(ctx); err != nil {
		// the previous rule set stays in use
		j.logger.WarnContext(ctx, "Rule cache refresh failed", "error", err)
	}
}
