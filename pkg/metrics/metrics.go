package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	NotebooksImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nbhive", Name: "notebooks_imported_total", Help: "Number of notebooks committed by import batches, by action (created/updated)."},
		[]string{"action"},
	)
	ImportEntryErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "nbhive", Name: "import_entry_errors_total", Help: "Number of archive entries rejected during import batches."},
	)
	ExportsServed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "nbhive", Name: "exports_served_total", Help: "Number of export archives served."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nbhive", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nbhive", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(NotebooksImported)
	reg.MustRegister(ImportEntryErrors)
	reg.MustRegister(ExportsServed)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
