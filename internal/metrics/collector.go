// internal/metrics/collector.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

const namespace = "dashboard"

// Collector records controller activity on its own registry
type Collector struct {
	registry *prometheus.Registry

	fetchTotal       *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	fetchInFlight    *prometheus.GaugeVec
	fetchDiscarded   *prometheus.CounterVec
	triggerTotal     *prometheus.CounterVec
	triggerCoalesced *prometheus.CounterVec
}

var _ query.Observer = (*Collector)(nil)

// NewCollector creates a collector with a fresh registry. Process and Go runtime
// collectors are included when withRuntime is set.
func NewCollector(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Total number of completed resource fetches",
			},
			[]string{"resource", "result"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Resource fetch duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"resource"},
		),
		fetchInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fetch_in_flight",
				Help:      "Number of resource fetches currently running",
			},
			[]string{"resource"},
		),
		fetchDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_discarded_total",
				Help:      "Fetch results dropped because the resource was invalidated",
			},
			[]string{"resource"},
		),
		triggerTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_total",
				Help:      "Fetch triggers by kind and outcome",
			},
			[]string{"resource", "trigger", "outcome"},
		),
		triggerCoalesced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_coalesced_total",
				Help:      "Interval and focus triggers dropped while a fetch was in flight",
			},
			[]string{"resource", "trigger"},
		),
	}

	c.registry.MustRegister(
		c.fetchTotal,
		c.fetchDuration,
		c.fetchInFlight,
		c.fetchDiscarded,
		c.triggerTotal,
		c.triggerCoalesced,
	)

	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// TriggerStarted implements query.Observer
func (c *Collector) TriggerStarted(key string, trigger query.Trigger) {
	c.triggerTotal.WithLabelValues(key, trigger.String(), "started").Inc()
}

// TriggerJoined implements query.Observer
func (c *Collector) TriggerJoined(key string, trigger query.Trigger) {
	c.triggerTotal.WithLabelValues(key, trigger.String(), "joined").Inc()
}

// TriggerCoalesced implements query.Observer
func (c *Collector) TriggerCoalesced(key string, trigger query.Trigger) {
	c.triggerTotal.WithLabelValues(key, trigger.String(), "coalesced").Inc()
	c.triggerCoalesced.WithLabelValues(key, trigger.String()).Inc()
}

// FetchStarted implements query.Observer
func (c *Collector) FetchStarted(key string) {
	c.fetchInFlight.WithLabelValues(key).Inc()
}

// FetchFinished implements query.Observer
func (c *Collector) FetchFinished(key string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}

	c.fetchInFlight.WithLabelValues(key).Dec()
	c.fetchTotal.WithLabelValues(key, result).Inc()
	c.fetchDuration.WithLabelValues(key).Observe(elapsed.Seconds())
}

// FetchDiscarded implements query.Observer
func (c *Collector) FetchDiscarded(key string, elapsed time.Duration) {
	c.fetchInFlight.WithLabelValues(key).Dec()
	c.fetchDiscarded.WithLabelValues(key).Inc()
	c.fetchDuration.WithLabelValues(key).Observe(elapsed.Seconds())
}
