// Package metrics exposes Prometheus instrumentation for the
// generation lifecycle and export pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avatarmon_generations_total",
		Help: "Generation attempts by terminal status.",
	}, []string{"status"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "avatarmon_generation_duration_seconds",
		Help:    "Wall time from submit to terminal status.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avatarmon_exports_total",
		Help: "Export attempts by kind and result.",
	}, []string{"kind", "result"})

	QuotaDenialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avatarmon_quota_denials_total",
		Help: "Generation starts refused by the daily limit.",
	})
)

// ExportResult returns the result label for an export outcome.
func ExportResult(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
