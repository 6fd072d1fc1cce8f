// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_analyze_requests_total",
			Help: "Total number of analyze requests by resolved strategy",
		},
		[]string{"strategy"},
	)

	RequestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_request_failures_total",
			Help: "Total number of failed requests by error code",
		},
		[]string{"operation", "error_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "trade_request_duration_seconds",
			Help: "Duration of request processing in seconds",
		},
		[]string{"operation"},
	)

	ExportsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_exports_written_total",
			Help: "Total number of export artifacts written",
		},
	)

	DownloadsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_downloads_served_total",
			Help: "Total number of export artifacts downloaded",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
