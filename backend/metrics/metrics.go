// Package metrics wraps a core.Backend with Prometheus
// instrumentation via github.com/prometheus/client_golang, grounded on
// mdzesseis-log_capturer_go's internal/metrics package (counters/
// histograms registered through promauto against a Registerer).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/corelog/flogger/core"
)

// Backend decorates a delegate core.Backend, recording a statement
// count (labeled by backend name and level) and a log-duration
// histogram for every call, then forwarding to the delegate unchanged.
type Backend struct {
	delegate core.Backend

	statements *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New wraps delegate, registering its collectors against reg. Passing
// a dedicated *prometheus.Registry (rather than the global
// DefaultRegisterer) lets tests construct multiple Backends without
// duplicate-registration panics.
func New(delegate core.Backend, reg prometheus.Registerer) *Backend {
	return &Backend{
		delegate: delegate,
		statements: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "flogger_backend_statements_total",
			Help: "Total statements dispatched through a flogger backend, by level.",
		}, []string{"backend", "level"}),
		errors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "flogger_backend_errors_total",
			Help: "Total errors returned by a flogger backend's Log call.",
		}, []string{"backend"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flogger_backend_log_duration_seconds",
			Help:    "Time spent in a flogger backend's Log call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
	}
}

func (b *Backend) Name() string { return b.delegate.Name() }

func (b *Backend) IsLoggable(level core.Level) bool { return b.delegate.IsLoggable(level) }

// Log times and counts the delegate's Log call before returning its
// result unchanged.
func (b *Backend) Log(data core.LogData) error {
	start := time.Now()
	err := b.delegate.Log(data)
	b.duration.WithLabelValues(b.Name()).Observe(time.Since(start).Seconds())
	b.statements.WithLabelValues(b.Name(), data.Level.String()).Inc()
	if err != nil {
		b.errors.WithLabelValues(b.Name()).Inc()
	}
	return err
}

// HandleError forwards to the delegate unchanged; error handling
// policy belongs to whatever backend actually owns the sink.
func (b *Backend) HandleError(err error, data core.LogData) error {
	return b.delegate.HandleError(err, data)
}
