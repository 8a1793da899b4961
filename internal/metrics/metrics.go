// Package metrics exposes optimizer counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "card_optimizer"

// Режимы агрегации (метка mode).
const (
	ModeSpreadsheet = "spreadsheet"
	ModeMonthly     = "monthly"
	ModeCompare     = "compare"
)

type Recorder struct {
	registry     *prometheus.Registry
	aggregations *prometheus.CounterVec
	skipped      prometheus.Counter
	duration     *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		aggregations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "aggregations_total",
				Help:      "Total number of portfolio aggregation passes per mode",
			},
			[]string{"mode"},
		),
		skipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "skipped_transactions_total",
				Help:      "Total number of transactions excluded from aggregation",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "aggregate_duration_seconds",
				Help:      "Duration of portfolio aggregation passes",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"mode"},
		),
	}
	r.registry.MustRegister(r.aggregations, r.skipped, r.duration)
	return r
}

// ObserveAggregate records one aggregation pass.
func (r *Recorder) ObserveAggregate(mode string, started time.Time, skipped int) {
	if r == nil {
		return
	}
	r.aggregations.WithLabelValues(mode).Inc()
	r.duration.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	if skipped > 0 {
		r.skipped.Add(float64(skipped))
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
