// Package metrics provides Prometheus metrics for drawing processing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Processing metrics
	DrawingsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadboq_drawings_processed_total",
			Help: "Total number of drawings processed",
		},
		[]string{"format", "mode", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadboq_stage_duration_seconds",
			Help:    "Time spent in each processing stage",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 120},
		},
		[]string{"stage"},
	)

	EntitiesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadboq_entities_extracted_total",
			Help: "Total number of drawing entities measured",
		},
		[]string{"kind"},
	)

	EntitiesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadboq_entities_skipped_total",
			Help: "Entities skipped for malformed geometry",
		},
	)

	GrandTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadboq_boq_grand_total",
			Help:    "Grand total of generated BOQs in the configured currency",
			Buckets: prometheus.ExponentialBuckets(1000, 10, 7),
		},
	)

	// Job metrics
	JobsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadboq_jobs_queued",
			Help: "Number of jobs waiting for a worker",
		},
	)

	// Delivery metrics
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadboq_emails_total",
			Help: "Total number of report emails attempted",
		},
		[]string{"backend", "status"},
	)

	Retries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadboq_retries_total",
			Help: "Total number of retried operations",
		},
		[]string{"operation"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadboq_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordStage records how long a processing stage took.
func RecordStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordDrawing records the outcome of processing one drawing.
func RecordDrawing(format, mode, status string) {
	DrawingsProcessed.WithLabelValues(format, mode, status).Inc()
}

// RecordEntities adds per-kind entity counts and the skipped count.
func RecordEntities(byKind map[string]int, skipped int) {
	for kind, n := range byKind {
		EntitiesExtracted.WithLabelValues(kind).Add(float64(n))
	}
	EntitiesSkipped.Add(float64(skipped))
}

// RecordEmail records one delivery attempt.
func RecordEmail(backend string, sent bool) {
	status := "sent"
	if !sent {
		status = "failed"
	}
	EmailsTotal.WithLabelValues(backend, status).Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer was created
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
