package metrics

import "github.com/prometheus/client_golang/prometheus"

// Thumbnail job outcomes.
const (
	JobOutcomeSucceeded = "succeeded"
	JobOutcomeFailed    = "failed"
	JobOutcomeSkipped   = "skipped"
)

// ThumbnailMetrics tracks derivation pipeline outcomes.
// A zero-value (nil-registry) instance is a no-op.
type ThumbnailMetrics struct {
	jobsTotal     *prometheus.CounterVec
	widthFailures prometheus.Counter
}

// NewThumbnailMetrics creates pipeline metrics registered on the global
// registry, or a no-op instance if the registry is not initialized.
func NewThumbnailMetrics() *ThumbnailMetrics {
	reg := GetRegistry()
	if reg == nil {
		return &ThumbnailMetrics{}
	}

	m := &ThumbnailMetrics{
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cabinet_thumbnail_jobs_total",
			Help: "Derivation jobs by outcome (succeeded, failed, skipped).",
		}, []string{"outcome"}),
		widthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cabinet_thumbnail_width_failures_total",
			Help: "Individual width derivations that failed inside otherwise-running jobs.",
		}),
	}

	reg.MustRegister(m.jobsTotal, m.widthFailures)
	return m
}

// ObserveJob records one completed job outcome.
func (m *ThumbnailMetrics) ObserveJob(outcome string) {
	if m == nil || m.jobsTotal == nil {
		return
	}
	m.jobsTotal.WithLabelValues(outcome).Inc()
}

// ObserveWidthFailure records a single failed width derivation.
func (m *ThumbnailMetrics) ObserveWidthFailure() {
	if m == nil || m.widthFailures == nil {
		return
	}
	m.widthFailures.Inc()
}
