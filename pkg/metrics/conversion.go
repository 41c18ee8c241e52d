package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConversionMetrics records draft-to-order conversion attempts.
type ConversionMetrics struct {
	duration *prometheus.HistogramVec
	attempts prometheus.Counter
	retries  prometheus.Counter
	failures *prometheus.CounterVec
}

// NewConversionMetrics registers the conversion metrics on the provided registerer.
func NewConversionMetrics(reg prometheus.Registerer) *ConversionMetrics {
	if reg == nil {
		return &ConversionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conversion_duration_seconds",
		Help:    "Duration of draft conversion transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	attempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conversion_attempts",
		Help: "Draft conversion calls.",
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conversion_retries",
		Help: "Conversion transactions retried on lock contention.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conversion_failures",
		Help: "Failed conversions by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, attempts, retries, failures)
	return &ConversionMetrics{
		duration: duration,
		attempts: attempts,
		retries:  retries,
		failures: failures,
	}
}

// ObserveDuration records a conversion duration with its outcome.
func (c *ConversionMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncAttempt counts one conversion call.
func (c *ConversionMetrics) IncAttempt() {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.Inc()
}

// IncRetry counts one lock-contention retry.
func (c *ConversionMetrics) IncRetry() {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.Inc()
}

// IncFailure counts one failed conversion with its error code.
func (c *ConversionMetrics) IncFailure(code string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(code)).Inc()
}
