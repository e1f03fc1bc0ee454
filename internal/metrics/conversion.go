package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rulebridge"

// Conversion outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeIssue = "issue"
	OutcomeError = "error"
)

// Conversion Prometheus metrics.
var (
	ConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Total number of predicate conversions",
		},
		[]string{"from", "to", "outcome"},
	)

	ConversionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Predicate conversion duration in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
		[]string{"from", "to"},
	)

	IssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_issues_total",
			Help:      "Conversion failures by issue code",
		},
		[]string{"code"},
	)
)

var registerOnce sync.Once

// Register adds every rulebridge collector to the default registry. Safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ConversionsTotal,
			ConversionDuration,
			IssuesTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}

// ObserveConversion records one conversion. codes are the issue codes of a
// failed conversion; an error without codes counts as OutcomeError.
func ObserveConversion(from, to string, elapsed time.Duration, failed bool, codes ...string) {
	outcome := OutcomeOK
	switch {
	case failed && len(codes) > 0:
		outcome = OutcomeIssue
	case failed:
		outcome = OutcomeError
	}
	ConversionsTotal.WithLabelValues(from, to, outcome).Inc()
	ConversionDuration.WithLabelValues(from, to).Observe(elapsed.Seconds())
	for _, c := range codes {
		IssuesTotal.WithLabelValues(c).Inc()
	}
}
