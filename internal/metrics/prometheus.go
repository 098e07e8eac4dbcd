package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noveng05/splits/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments   *prometheus.CounterVec
	varyDefaults  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	offlineTotal  prometheus.Counter

	deliveryAttempts *prometheus.CounterVec
	deliveryBackoff  *prometheus.HistogramVec
	queueDepth       prometheus.Gauge

	identityMerges    *prometheus.CounterVec
	identityDeferrals prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Metric registration is deferred to the first recording so that building a
// collector never panics on duplicate registration in tests.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "splits" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "splits"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "assignments_total",
			Help:      "Total resolved assignments by split, variant, and resolution source.",
		}, []string{"split", "variant", "source"})

		p.varyDefaults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "vary_defaulted_total",
			Help:      "Total vary calls that fell back to their default branch.",
		}, []string{"split"})

		p.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "registry_fetch_duration_seconds",
			Help:      "Registry fetch latency in seconds by registry kind.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"})

		p.fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "registry_fetch_failures_total",
			Help:      "Total failed registry fetches by registry kind.",
		}, []string{"kind"})

		p.offlineTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "offline_transitions_total",
			Help:      "Total visitors that entered sticky offline mode.",
		})

		p.deliveryAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "attempts_total",
			Help:      "Total event delivery attempts by event kind and outcome.",
		}, []string{"kind", "outcome"})

		p.deliveryBackoff = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "retry_backoff_seconds",
			Help:      "Observed delivery retry backoff durations in seconds by event kind.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"kind"})

		p.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "queue_depth",
			Help:      "Current depth of the event delivery queue.",
		})

		p.identityMerges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "identity",
			Name:      "merges_total",
			Help:      "Total identity merge attempts by outcome.",
		}, []string{"outcome"})

		p.identityDeferrals = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "identity",
			Name:      "deferrals_total",
			Help:      "Total identity links deferred to the notifier after timeout.",
		})

		collectors := []prometheus.Collector{
			p.assignments, p.varyDefaults, p.fetchDuration, p.fetchFailures,
			p.offlineTotal, p.deliveryAttempts, p.deliveryBackoff, p.queueDepth,
			p.identityMerges, p.identityDeferrals,
		}
		for _, c := range collectors {
			// AlreadyRegisteredError is tolerated so shared registries work.
			_ = p.reg.Register(c)
		}
	})
}

// RecordAssignment records a resolved assignment.
func (p *PrometheusCollector) RecordAssignment(splitName, variant, source string) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(splitName, variant, source).Inc()
}

// RecordVaryDefaulted records a vary call that used its default branch.
func (p *PrometheusCollector) RecordVaryDefaulted(splitName string) {
	p.ensureRegistered()
	p.varyDefaults.WithLabelValues(splitName).Inc()
}

// RecordRegistryFetch records a registry fetch attempt.
func (p *PrometheusCollector) RecordRegistryFetch(kind string, duration float64, success bool) {
	p.ensureRegistered()
	p.fetchDuration.WithLabelValues(kind).Observe(duration)
	if !success {
		p.fetchFailures.WithLabelValues(kind).Inc()
	}
}

// RecordOffline records a visitor entering sticky offline mode.
func (p *PrometheusCollector) RecordOffline() {
	p.ensureRegistered()
	p.offlineTotal.Inc()
}

// RecordDeliveryAttempt records a sink delivery attempt.
func (p *PrometheusCollector) RecordDeliveryAttempt(kind string, success bool) {
	p.ensureRegistered()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.deliveryAttempts.WithLabelValues(kind, outcome).Inc()
}

// RecordDeliveryBackoff records an observed retry backoff duration.
func (p *PrometheusCollector) RecordDeliveryBackoff(kind string, duration float64) {
	p.ensureRegistered()
	p.deliveryBackoff.WithLabelValues(kind).Observe(duration)
}

// RecordQueueDepth sets the current delivery queue depth.
func (p *PrometheusCollector) RecordQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Set(float64(depth))
}

// RecordIdentityMerge records a completed (or failed) identity merge.
func (p *PrometheusCollector) RecordIdentityMerge(success bool) {
	p.ensureRegistered()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.identityMerges.WithLabelValues(outcome).Inc()
}

// RecordIdentityDeferred records an identity link deferred to the notifier.
func (p *PrometheusCollector) RecordIdentityDeferred() {
	p.ensureRegistered()
	p.identityDeferrals.Inc()
}
