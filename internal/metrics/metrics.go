package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use through a nil pointer, which disables collection.
type Metrics struct {
	jobs        *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	uploads     *prometheus.CounterVec
	inFlight    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rul_jobs_total",
			Help: "Prediction and monitoring jobs by terminal outcome.",
		}, []string{"variant", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rul_job_duration_seconds",
			Help:    "Wall time of external job processes.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		}, []string{"variant"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rul_uploads_total",
			Help: "Dataset uploads to the object store by outcome.",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rul_jobs_in_flight",
			Help: "Job requests running or waiting for a free job slot.",
		}),
	}

	reg.MustRegister(m.jobs, m.jobDuration, m.uploads, m.inFlight)

	return m
}

func (m *Metrics) ObserveJob(variant, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(variant, outcome).Inc()
	if duration > 0 {
		m.jobDuration.WithLabelValues(variant).Observe(duration.Seconds())
	}
}

func (m *Metrics) ObserveUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) JobFinished() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}
