package metrics

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every instrument.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics captures event pipeline and settings cache health signals.
type Metrics struct {
	eventsApplied  *prometheus.CounterVec
	handleFailures *prometheus.CounterVec
	rejectedEvents *prometheus.CounterVec
	syncDuration   prometheus.Histogram
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// Default returns the singleton metrics registry.
func Default() *Metrics {
	return WithConfig(Config{})
}

// WithConfig returns the singleton metrics registry using config labels.
func WithConfig(cfg Config) *Metrics {
	metricsOnce.Do(func() {
		metrics = newMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return metrics
}

// ResetForTest resets the metrics singleton for tests.
func ResetForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func newMetrics(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "telesim"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	eventsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "telesim_events_applied_total",
		Help:        "Domain events applied by aggregate and event type.",
		ConstLabels: constLabels,
	}, []string{"aggregate", "event"})
	handleFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "telesim_event_handle_failures_total",
		Help:        "Durable side-effect failures by aggregate and event type.",
		ConstLabels: constLabels,
	}, []string{"aggregate", "event"})
	rejectedEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "telesim_events_rejected_total",
		Help:        "Events rejected by precondition checks.",
		ConstLabels: constLabels,
	}, []string{"aggregate", "event"})
	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "telesim_sync_job_duration_seconds",
		Help:        "Completed sync job duration from start to terminal event.",
		Buckets:     []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		ConstLabels: constLabels,
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "telesim_settings_cache_hits_total",
		Help:        "Settings reads served from cache.",
		ConstLabels: constLabels,
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "telesim_settings_cache_misses_total",
		Help:        "Settings reads that fell through to the repository.",
		ConstLabels: constLabels,
	})

	collectors := []prometheus.Collector{
		eventsApplied,
		handleFailures,
		rejectedEvents,
		syncDuration,
		cacheHits,
		cacheMisses,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	}

	return &Metrics{
		eventsApplied:  eventsApplied,
		handleFailures: handleFailures,
		rejectedEvents: rejectedEvents,
		syncDuration:   syncDuration,
		cacheHits:      cacheHits,
		cacheMisses:    cacheMisses,
	}
}

func (m *Metrics) EventApplied(aggregate, event string) {
	if m == nil {
		return
	}
	m.eventsApplied.WithLabelValues(aggregate, event).Inc()
}

func (m *Metrics) HandleFailed(aggregate, event string) {
	if m == nil {
		return
	}
	m.handleFailures.WithLabelValues(aggregate, event).Inc()
}

func (m *Metrics) EventRejected(aggregate, event string) {
	if m == nil {
		return
	}
	m.rejectedEvents.WithLabelValues(aggregate, event).Inc()
}

func (m *Metrics) ObserveSyncDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.syncDuration.Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
