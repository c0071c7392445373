package automation

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
)

// ruleSet is an immutable snapshot of the active rules grouped by trigger.
type ruleSet struct {
	byTrigger map[order.EventType][]*workflow.Rule
	loadedAt  time.Time
}

// RuleCache serves the active workflow rules from an in-memory snapshot.
//
// The snapshot is replaced atomically on reload. It is reloaded when older
// than the TTL or after Invalidate; readers never block on a reload that
// someone else is already doing. When a reload fails the previous snapshot
// keeps being served.
type RuleCache struct {
	uowFactory ports.UnitOfWorkFactory
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time

	current     atomic.Pointer[ruleSet]
	invalidated atomic.Bool
	loadMu      sync.Mutex
}

func NewRuleCache(uowFactory ports.UnitOfWorkFactory, ttl time.Duration, logger *slog.Logger) *RuleCache {
	return &RuleCache{
		uowFactory: uowFactory,
		ttl:        ttl,
		logger:     logger.With("component", "rule-cache"),
		now:        time.Now,
	}
}

// Rules returns the active rules triggered by eventType, oldest first.
// Callers must treat the returned rules as read-only.
func (c *RuleCache) Rules(ctx context.Context, eventType order.EventType) ([]*workflow.Rule, error) {
	set := c.current.Load()
	if set != nil && !c.expired(set) {
		return set.byTrigger[eventType], nil
	}

	if err := c.load(ctx, false); err != nil {
		if set == nil {
			return nil, err
		}
		c.logger.WarnContext(ctx, "serving stale workflow rules", "error", err,
			"loaded_at", set.loadedAt)
		return set.byTrigger[eventType], nil
	}
	return c.current.Load().byTrigger[eventType], nil
}

// Invalidate marks the snapshot stale; the next read reloads it.
func (c *RuleCache) Invalidate() {
	c.invalidated.Store(true)
}

// Refresh reloads the snapshot from storage unconditionally.
func (c *RuleCache) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *RuleCache) load(ctx context.Context, force bool) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// someone else reloaded while we waited for the lock
	if set := c.current.Load(); !force && set != nil && !c.expired(set) {
		return nil
	}

	c.invalidated.Store(false)
	rules, err := c.uowFactory.Create().WorkflowRuleRepository().ListActive(ctx)
	if err != nil {
		c.invalidated.Store(true)
		return err
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Snapshot().CreatedAt.Before(rules[j].Snapshot().CreatedAt)
	})
	set := &ruleSet{
		byTrigger: make(map[order.EventType][]*workflow.Rule),
		loadedAt:  c.now(),
	}
	for _, r := range rules {
		set.byTrigger[r.Trigger()] = append(set.byTrigger[r.Trigger()], r)
	}
	c.current.Store(set)

	c.logger.DebugContext(ctx, "workflow rules loaded", "count", len(rules))
	return nil
}

func (c *RuleCache) expired(set *ruleSet) bool {
	if c.invalidated.Load() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(set.loadedAt) >= c.ttl
}
