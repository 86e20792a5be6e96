// Package metrics exposes Prometheus instrumentation for the audit pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sevigo/comment-warden/internal/core"
)

// Metrics bundles the collectors the audit pipeline reports into.
type Metrics struct {
	AuditsTotal   *prometheus.CounterVec
	FindingsTotal *prometheus.CounterVec
	AuditDuration prometheus.Histogram
	QueueRejected prometheus.Counter
}

// New registers the audit collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuditsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_warden",
			Name:      "audits_total",
			Help:      "Completed comment audits by outcome and trigger.",
		}, []string{"outcome", "trigger"}),
		FindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_warden",
			Name:      "findings_total",
			Help:      "Audit findings by verdict and criterion.",
		}, []string{"verdict", "criterion"}),
		AuditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "comment_warden",
			Name:      "audit_duration_seconds",
			Help:      "Wall-clock duration of a full audit job.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		QueueRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "comment_warden",
			Name:      "queue_rejected_total",
			Help:      "Audit requests rejected because the job queue was full.",
		}),
	}
}

// ObserveAudit records a completed audit and its findings.
func (m *Metrics) ObserveAudit(report *core.AuditReport, trigger string, seconds float64) {
	if m == nil || report == nil {
		return
	}
	m.AuditsTotal.WithLabelValues(report.Outcome, trigger).Inc()
	m.AuditDuration.Observe(seconds)
	for _, f := range report.Findings {
		m.FindingsTotal.WithLabelValues(string(f.Verdict), string(f.Criterion)).Inc()
	}
}
