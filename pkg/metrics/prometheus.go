package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal         *prometheus.CounterVec
	candidatesTotal    prometheus.Counter
	candidatesLastScan prometheus.Gauge
	errorsTotal        *prometheus.CounterVec
	providerLatency    *prometheus.HistogramVec
	notificationsTotal *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_scans_total",
				Help: "Total number of scan runs by result",
			},
			[]string{"result"},
		),
		candidatesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coinsentry_candidates_total",
				Help: "Total number of candidates flagged across all scans",
			},
		),
		candidatesLastScan: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coinsentry_candidates_last_scan",
				Help: "Number of candidates flagged by the most recent scan",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinsentry_provider_request_seconds",
				Help:    "Duration of external provider requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		notificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsentry_notifications_total",
				Help: "Total notification attempts by result",
			},
			[]string{"result"},
		),
	}
}

// RecordScan records a finished scan run.
func (r *Recorder) RecordScan(result string) {
	r.scansTotal.WithLabelValues(result).Inc()
}

// RecordCandidates records the candidate count of a scan.
func (r *Recorder) RecordCandidates(n int) {
	r.candidatesTotal.Add(float64(n))
	r.candidatesLastScan.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordProviderLatency records an external request duration.
func (r *Recorder) RecordProviderLatency(provider string, seconds float64) {
	r.providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordNotification records a notification attempt.
func (r *Recorder) RecordNotification(result string) {
	r.notificationsTotal.WithLabelValues(result).Inc()
}
