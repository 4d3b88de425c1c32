// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rms_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rms_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	documentActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rms_document_actions_total",
		Help: "Document lifecycle actions by doctype and action.",
	}, []string{"doctype", "action"})

	ledgerEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rms_stock_ledger_entries_total",
		Help: "Stock ledger entries written.",
	})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rms_report_duration_seconds",
		Help:    "Report execution time by report and output format.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"report", "format"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one finished request.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// DocumentAction counts a lifecycle action (save, submit, cancel, ...).
func DocumentAction(doctype, action string) {
	documentActions.WithLabelValues(doctype, action).Inc()
}

// LedgerEntries counts written stock ledger entries.
func LedgerEntries(n int) {
	ledgerEntries.Add(float64(n))
}

// ObserveReport records report execution time.
func ObserveReport(report, format string, elapsed time.Duration) {
	reportDuration.WithLabelValues(report, format).Observe(elapsed.Seconds())
}
