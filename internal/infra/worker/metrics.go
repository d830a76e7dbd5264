package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"report-writer/internal/pkg/config"
)

// RefresherMetrics provides Prometheus metrics for the row count refresher.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// sweep execution metrics.
//
// Embedded metrics (from ConfigMetrics):
//   - refresher_config_load_timestamp: Unix timestamp of last configuration load
//   - refresher_config_validation_errors_total: Total validation errors by field
//   - refresher_config_fallbacks_total: Total fallback operations by field
//   - refresher_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Sweep metrics:
//   - refresher_sweep_runs_total: Total sweeps by status (started/success/failure/aborted)
//   - refresher_sweep_duration_seconds: Duration histogram of sweep execution
//   - refresher_reports_refreshed_total: Total report counts refreshed across sweeps
//   - refresher_sweep_last_success_timestamp: Unix timestamp of last fully successful sweep
type RefresherMetrics struct {
	*config.ConfigMetrics

	// SweepRunsTotal counts sweep executions.
	// Type: Counter
	// Labels: status (started, success, failure, aborted)
	SweepRunsTotal *prometheus.CounterVec

	// SweepDurationSeconds measures how long a full sweep takes.
	// Type: Histogram
	// Buckets: 10ms-60s (count queries are cheap, the throttle dominates)
	SweepDurationSeconds prometheus.Histogram

	// ReportsRefreshedTotal counts the report gauges refreshed across all sweeps.
	// Type: Counter
	ReportsRefreshedTotal prometheus.Counter

	// SweepLastSuccessTimestamp records when the last sweep completed with
	// every configured report refreshed.
	// Type: Gauge
	SweepLastSuccessTimestamp prometheus.Gauge
}

// NewRefresherMetrics creates a RefresherMetrics instance with all metrics
// initialized and registered in the default registry via promauto.
func NewRefresherMetrics() *RefresherMetrics {
	return &RefresherMetrics{
		ConfigMetrics: config.NewConfigMetrics("refresher"),

		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refresher_sweep_runs_total",
			Help: "Total number of row count sweeps by status (started/success/failure/aborted)",
		}, []string{"status"}),

		SweepDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refresher_sweep_duration_seconds",
			Help:    "Duration of row count sweep execution in seconds",
			Buckets: []float64{0.01, 0.05, 0.25, 1, 5, 15, 60},
		}),

		ReportsRefreshedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refresher_reports_refreshed_total",
			Help: "Total number of report row counts refreshed across all sweeps",
		}),

		SweepLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "refresher_sweep_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful row count sweep",
		}),
	}
}

// MustRegister is a no-op kept for symmetry with the usual metrics
// initialization pattern; promauto already registered everything in
// NewRefresherMetrics.
func (m *RefresherMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordSweep increments the sweep counter for the given status.
// Status is one of "started", "success", "failure" or "aborted".
func (m *RefresherMetrics) RecordSweep(status string) {
	m.SweepRunsTotal.WithLabelValues(status).Inc()
}

// RecordSweepDuration observes the duration of one sweep in seconds.
func (m *RefresherMetrics) RecordSweepDuration(seconds float64) {
	m.SweepDurationSeconds.Observe(seconds)
}

// RecordReportsRefreshed adds the number of reports refreshed in one sweep.
func (m *RefresherMetrics) RecordReportsRefreshed(count int) {
	m.ReportsRefreshedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last sweep that
// refreshed every configured report.
func (m *RefresherMetrics) RecordLastSuccess() {
	m.SweepLastSuccessTimestamp.SetToCurrentTime()
}
