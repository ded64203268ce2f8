package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/head/pkg/head"
)

// Config configures the head metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "head").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures Metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vango",
		Subsystem: "head",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records head activity. It is safe for concurrent use.
type Metrics struct {
	inserts       *prometheus.CounterVec
	updates       *prometheus.CounterVec
	removals      *prometheus.CounterVec
	domErrors     *prometheus.CounterVec
	entries       prometheus.Gauge
	patchesSent   prometheus.Counter
	framesSent    prometheus.Counter
	flushDuration prometheus.Histogram
	clients       prometheus.Gauge
}

var _ head.Observer = (*Metrics)(nil)

// New creates and registers the head metrics.
// Registering twice with the same registry panics.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		inserts:   counterVec("inserts_total", "Total number of head nodes inserted", "tag"),
		updates:   counterVec("updates_total", "Total number of head nodes updated in place", "tag"),
		removals:  counterVec("removals_total", "Total number of head nodes removed", "tag"),
		domErrors: counterVec("dom_errors_total", "Total number of failed DOM mutations", "op"),

		entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "entries",
			Help:        "Number of nodes currently managed in the head",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of head patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of head frames sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Time spent encoding and broadcasting head patches",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "clients",
			Help:        "Number of connected live head clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Inserted implements head.Observer.
func (m *Metrics) Inserted(n head.Node) {
	m.inserts.WithLabelValues(n.Tag).Inc()
	m.entries.Inc()
}

// Updated implements head.Observer.
func (m *Metrics) Updated(_, next head.Node) {
	m.updates.WithLabelValues(next.Tag).Inc()
}

// Removed implements head.Observer.
func (m *Metrics) Removed(n head.Node) {
	m.removals.WithLabelValues(n.Tag).Inc()
	m.entries.Dec()
}

// DOMError implements head.Observer.
func (m *Metrics) DOMError(op string, _ error) {
	m.domErrors.WithLabelValues(op).Inc()
}

// RecordFlush records one flush that sent patches across frames.
// Empty flushes only record their duration.
func (m *Metrics) RecordFlush(patches, frames int, d time.Duration) {
	m.flushDuration.Observe(d.Seconds())
	if patches == 0 {
		return
	}
	m.patchesSent.Add(float64(patches))
	m.framesSent.Add(float64(frames))
}

// SetClients records the number of connected live clients.
func (m *Metrics) SetClients(n int) {
	m.clients.Set(float64(n))
}
