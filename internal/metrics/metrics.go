// Package metrics holds Prometheus instruments that are used across the
// CMS.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cms_query_duration_seconds",
			Help:    "Latency of content repository operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"})

	QueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_query_errors_total",
			Help: "Content repository operations that returned a driver error.",
		}, []string{"op"})

	VisitsLoggedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cms_visits_logged_total",
			Help: "Visitor-log upserts that succeeded.",
		})

	VisitLogFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cms_visit_log_failures_total",
			Help: "Visitor-log upserts that failed and were swallowed.",
		})

	LanguageResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_language_resolved_total",
			Help: "Language preferences resolved during request bootstrap.",
		}, []string{"language", "source"})
)

func init() {
	prometheus.MustRegister(
		QueryDuration,
		QueryErrorsTotal,
		VisitsLoggedTotal,
		VisitLogFailuresTotal,
		LanguageResolvedTotal,
	)
}
