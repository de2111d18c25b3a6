package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "smartedu", Name: "generation_requests_total", Help: "Number of completion-service generation requests by kind and outcome."},
		[]string{"kind", "outcome"},
	)
	PDFExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "smartedu", Name: "pdf_exports_total", Help: "Number of PDF downloads served by kind."},
		[]string{"kind"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "smartedu", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "smartedu", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GenerationRequests)
	reg.MustRegister(PDFExports)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
