package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	TokensIssuedTotal    prometheus.Counter
	CapturesTotal        *prometheus.CounterVec
	ExtractionConfidence *prometheus.HistogramVec
	DuplicateChecksTotal *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capture_tokens_issued_total",
			Help: "Total number of capture tokens issued (each issue revokes the prior generation).",
		},
	)

	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captures_total",
			Help: "Total number of capture sessions by kind and stage.",
		},
		[]string{"kind", "stage"}, // stage: submitted, consumed
	)

	ExtractionConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_confidence",
			Help:    "Overall confidence of extraction results.",
			Buckets: []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
		[]string{"kind"},
	)

	DuplicateChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_checks_total",
			Help: "Total number of duplicate checks by classification.",
		},
		[]string{"result"}, // none, exact, similar
	)
}
