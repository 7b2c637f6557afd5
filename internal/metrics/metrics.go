// Package metrics records analysis outcomes in Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trend"

// Recorder holds the collectors for every analysis served
type Recorder struct {
	analyses         *prometheus.CounterVec
	anomalies        *prometheus.CounterVec
	validationErrors prometheus.Counter
	duration         *prometheus.HistogramVec
	sinkErrors       *prometheus.CounterVec
}

// New registers the analysis collectors on reg. A nil reg leaves the collectors
// unregistered.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of completed trend analyses",
			},
			[]string{"analysis_type", "trend_type"},
		),
		anomalies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_total",
				Help:      "Total number of anomalies reported",
			},
			[]string{"analysis_type"},
		),
		validationErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of rejected analysis requests",
			},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of trend analyses in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"analysis_type"},
		),
		sinkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sink_errors_total",
				Help:      "Total number of records the result sink failed to publish",
			},
			[]string{"sink"},
		),
	}
}

// RecordAnalysis records a completed analysis along with how many anomalies it reported
func (r *Recorder) RecordAnalysis(analysisType, trendType string, anomalies int, d time.Duration) {
	r.analyses.WithLabelValues(analysisType, trendType).Inc()
	r.duration.WithLabelValues(analysisType).Observe(d.Seconds())
	if anomalies > 0 {
		r.anomalies.WithLabelValues(analysisType).Add(float64(anomalies))
	}
}

func (r *Recorder) RecordValidationError() {
	r.validationErrors.Inc()
}

func (r *Recorder) RecordSinkError(sink string) {
	r.sinkErrors.WithLabelValues(sink).Inc()
}

// ValidationErrors exposes the rejected request counter
func (r *Recorder) ValidationErrors() prometheus.Counter {
	return r.validationErrors
}
