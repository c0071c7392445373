// Package metrics exposes Prometheus instruments for the order lifecycle and
// the workflow engine.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "custom_orders"

type Metrics struct {
	transitionsTotal   *prometheus.CounterVec
	ruleRunsTotal      *prometheus.CounterVec
	actionFailures     *prometheus.CounterVec
	bulkItemsTotal     *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	droppedEventsTotal *prometheus.CounterVec

	dispatchLatency *prometheus.HistogramVec
}

var singleton = sync.OnceValue(func() *Metrics {
	return &Metrics{
		transitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Order status transitions by source, target and result.",
		}, []string{"from", "to", "result"}),
		ruleRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_runs_total",
			Help:      "Matched workflow rule runs by trigger and result.",
		}, []string{"trigger", "result"}),
		actionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_failures_total",
			Help:      "Failed workflow actions by kind and severity.",
		}, []string{"kind", "fatal"}),
		bulkItemsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_items_total",
			Help:      "Bulk operation items by action and outcome.",
		}, []string{"action", "outcome"}),
		notificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications created or suppressed as duplicates.",
		}, []string{"type", "result"}),
		droppedEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Events produced past the dispatch hop limit.",
		}, []string{"event"}),
		dispatchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of dispatching one lifecycle event.",
			Buckets: []float64{
				0.001, 0.005, 0.01,
				0.05, 0.1, 0.25,
				0.5, 1, 2.5, 5,
			},
		}, []string{"event"}),
	}
})

// Get returns the process-wide instruments.
func Get() *Metrics {
	return singleton()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) Transition(from, to string, err error) {
	m.transitionsTotal.WithLabelValues(from, to, result(err)).Inc()
}

func (m *Metrics) RuleRun(trigger string, succeeded bool) {
	r := "succeeded"
	if !succeeded {
		r = "failed"
	}
	m.ruleRunsTotal.WithLabelValues(trigger, r).Inc()
}

func (m *Metrics) ActionFailed(kind string, fatal bool) {
	m.actionFailures.WithLabelValues(kind, strconv.FormatBool(fatal)).Inc()
}

func (m *Metrics) BulkItem(action, outcome string) {
	m.bulkItemsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) NotificationCreated(notificationType string) {
	m.notificationsTotal.WithLabelValues(notificationType, "created").Inc()
}

func (m *Metrics) NotificationDeduplicated() {
	m.notificationsTotal.WithLabelValues("any", "deduplicated").Inc()
}

func (m *Metrics) EventDropped(event string) {
	m.droppedEventsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveDispatch(event string, started time.Time) {
	m.dispatchLatency.WithLabelValues(event).Observe(time.Since(started).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
