// Package worker runs the background row count refresher. Page requests
// already update the row count gauge for the report they touch, but a
// report nobody is looking at would otherwise serve a stale gauge to
// dashboards forever. The refresher sweeps every configured report on a
// cron schedule, re-counts its rows, and republishes the gauge, then
// re-evaluates the SLO gauges so attainment stays current between
// traffic bursts.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"report-writer/internal/common/pagination"
	"report-writer/internal/observability/slo"
	"report-writer/internal/resilience/retry"
)

// Counter counts the rows a report's source currently matches.
// The sqlite report repository satisfies it.
type Counter interface {
	CountRows(ctx context.Context) (int64, error)
}

// Target pairs a report name with the counter for its backing query.
type Target struct {
	Report  string
	Counter Counter
}

// Refresher sweeps the configured reports on a cron schedule, updating
// the per-report row count gauge through each target's counter. Count
// queries are throttled so a sweep over many reports cannot saturate
// the database, and retried on transient failures.
type Refresher struct {
	cfg       *RefresherConfig
	targets   []Target
	logger    *slog.Logger
	metrics   *RefresherMetrics
	evaluator *slo.Evaluator
	limiter   *rate.Limiter
	cron      *cron.Cron
}

// NewRefresher creates a Refresher for the given targets. The sweep
// order follows the target order.
func NewRefresher(cfg *RefresherConfig, targets []Target, logger *slog.Logger, metrics *RefresherMetrics) *Refresher {
	return &Refresher{
		cfg:       cfg,
		targets:   targets,
		logger:    logger,
		metrics:   metrics,
		evaluator: slo.NewEvaluator(nil),
		limiter:   rate.NewLimiter(rate.Limit(cfg.CountsPerSecond), 1),
	}
}

// Start registers the sweep on the configured schedule and starts the
// scheduler. A first sweep runs immediately in the background so the
// gauges are primed before the first cron tick. The context bounds
// every sweep; cancelling it aborts a running sweep.
func (r *Refresher) Start(ctx context.Context) error {
	loc, err := time.LoadLocation(r.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", r.cfg.Timezone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(r.cfg.Schedule, func() { r.runSweep(ctx) }); err != nil {
		return fmt.Errorf("register sweep schedule %q: %w", r.cfg.Schedule, err)
	}
	r.cron = c
	c.Start()

	go r.runSweep(ctx)

	r.logger.Info("row count refresher started",
		slog.String("schedule", r.cfg.Schedule),
		slog.String("timezone", r.cfg.Timezone),
		slog.Int("reports", len(r.targets)))
	return nil
}

// Stop stops the scheduler and waits for a sweep started by a cron tick
// to finish. Safe to call when Start was never called.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.logger.Info("row count refresher stopped")
}

func (r *Refresher) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, r.cfg.SweepTimeout)
	defer cancel()
	r.Sweep(sweepCtx)
}

// Sweep refreshes the row count gauge of every configured report, then
// re-evaluates the SLO gauges. One failing report does not stop the
// sweep; the sweep only counts as fully successful when every report
// refreshed. Context cancellation aborts the remaining reports.
func (r *Refresher) Sweep(ctx context.Context) {
	start := time.Now()
	r.metrics.RecordSweep("started")
	r.logger.Info("row count sweep started", slog.Int("reports", len(r.targets)))

	refreshed := 0
	failed := 0
	for _, target := range r.targets {
		if err := r.limiter.Wait(ctx); err != nil {
			r.metrics.RecordSweep("aborted")
			r.metrics.RecordSweepDuration(time.Since(start).Seconds())
			r.metrics.RecordReportsRefreshed(refreshed)
			r.logger.Warn("row count sweep aborted",
				slog.Int("refreshed", refreshed),
				slog.Any("error", err))
			return
		}

		var total int64
		err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
			var countErr error
			total, countErr = target.Counter.CountRows(ctx)
			return countErr
		})
		if err != nil {
			failed++
			r.logger.Warn("row count refresh failed",
				slog.String("report", target.Report),
				slog.Any("error", err))
			continue
		}

		pagination.UpdateRowCount(target.Report, total)
		refreshed++
		r.logger.Debug("row count refreshed",
			slog.String("report", target.Report),
			slog.Int64("rows", total))
	}

	duration := time.Since(start)
	r.metrics.RecordSweepDuration(duration.Seconds())
	r.metrics.RecordReportsRefreshed(refreshed)
	if failed > 0 {
		r.metrics.RecordSweep("failure")
	} else {
		r.metrics.RecordSweep("success")
		r.metrics.RecordLastSuccess()
	}

	r.logger.Info("row count sweep completed",
		slog.Int("refreshed", refreshed),
		slog.Int("failed", failed),
		slog.Duration("duration", duration))

	r.evaluateSLO()
}

// evaluateSLO recomputes the SLO gauges from the traffic recorded so far
// and logs any target the service is currently missing.
func (r *Refresher) evaluateSLO() {
	snap, err := r.evaluator.Evaluate()
	if err != nil {
		r.logger.Warn("slo evaluation failed", slog.Any("error", err))
		return
	}
	for _, breach := range snap.Breaches() {
		r.logger.Warn("slo target missed", slog.String("breach", breach))
	}
}
