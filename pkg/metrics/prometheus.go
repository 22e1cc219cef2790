package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	EmailsScanned   prometheus.Counter
	FlightsAccepted prometheus.Counter
	ScanOutcomes    *prometheus.CounterVec
	FallbackCalls   *prometheus.CounterVec
	ProcessingTime  prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates metrics registered on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EmailsScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_scanned_total",
			Help:      "The total number of emails run through the pipeline",
		}),
		FlightsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_accepted_total",
			Help:      "The total number of flights stored",
		}),
		ScanOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_outcomes_total",
			Help:      "Per-email scan outcomes by status",
		}, []string{"status"}),
		FallbackCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_extractions_total",
			Help:      "Fallback extraction attempts by result",
		}, []string{"result"}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "email_processing_time_seconds",
			Help:      "Time taken to process one email",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
