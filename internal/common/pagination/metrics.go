package pagination

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts the total number of report page requests.
	// Labels: report, status (HTTP status code), page_range (page bucket: 1-10, 11-50, etc.)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_pagination_requests_total",
			Help: "Total number of report page requests",
		},
		[]string{"report", "status", "page_range"},
	)

	// DurationSeconds tracks request duration distribution.
	// Labels: operation (handler, service, repository)
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_pagination_duration_seconds",
			Help:    "Request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	// RowsTotal tracks the most recently observed row count per report.
	// Updated on every count observation and by the background refresher.
	RowsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "report_rows_total",
			Help: "Most recently observed total row count",
		},
		[]string{"report"},
	)

	// OverrunsTotal counts page overruns detected during reconciliation.
	// Labels: report
	OverrunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_pagination_overruns_total",
			Help: "Total number of page overruns detected",
		},
		[]string{"report"},
	)

	// ExhaustedTotal counts requests that failed after exhausting the
	// overrun retry bound.
	// Labels: report
	ExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_pagination_exhausted_total",
			Help: "Total number of requests that exhausted overrun retries",
		},
		[]string{"report"},
	)

	// ErrorsTotal counts pagination errors by type.
	// Labels: type (database, exhausted, timeout)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordRequest records a report page request metric.
func RecordRequest(report string, statusCode int, page int) {
	RequestsTotal.WithLabelValues(
		report,
		fmt.Sprintf("%d", statusCode),
		getPageRangeBucket(page),
	).Inc()
}

// RecordDuration records operation duration in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// UpdateRowCount updates the row count gauge for a report.
func UpdateRowCount(report string, count int64) {
	RowsTotal.WithLabelValues(report).Set(float64(count))
}

// RecordOverrun records a detected page overrun for a report.
func RecordOverrun(report string) {
	OverrunsTotal.WithLabelValues(report).Inc()
}

// RecordExhausted records an exhausted overrun recovery for a report.
func RecordExhausted(report string) {
	ExhaustedTotal.WithLabelValues(report).Inc()
}

// RecordError records an error metric.
// errorType should be one of: "database", "exhausted", "timeout"
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
