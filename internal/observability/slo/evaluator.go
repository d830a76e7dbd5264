package slo

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	requestsMetricName = "http_requests_total"
	durationMetricName = "http_request_duration_seconds"
)

// Evaluator computes SLO attainment from the transport metrics recorded by
// the HTTP layer. It reads http_requests_total for availability and error
// rate, and http_request_duration_seconds for latency percentiles, then
// publishes the results through the SLO gauges.
//
// Run Evaluate periodically (the background worker does this on its refresh
// schedule) so dashboards and alerts always see a recent attainment value.
type Evaluator struct {
	gatherer prometheus.Gatherer
}

// NewEvaluator creates an Evaluator reading from the given gatherer.
// Pass nil to read from the default Prometheus registry.
func NewEvaluator(gatherer prometheus.Gatherer) *Evaluator {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Evaluator{gatherer: gatherer}
}

// Snapshot holds the SLO attainment values computed by a single evaluation.
type Snapshot struct {
	// TotalRequests is the number of requests observed so far.
	TotalRequests float64

	// Availability is the ratio of non-5xx responses (0-1).
	Availability float64

	// ErrorRate is the ratio of 5xx responses (0-1).
	ErrorRate float64

	// LatencyP95 is the 95th percentile request latency in seconds.
	LatencyP95 float64

	// LatencyP99 is the 99th percentile request latency in seconds.
	LatencyP99 float64
}

// Breaches returns a description of each SLO target the snapshot misses.
// An empty result means all targets are met.
func (s Snapshot) Breaches() []string {
	var breaches []string
	if s.TotalRequests > 0 && s.Availability*100 < AvailabilitySLO {
		breaches = append(breaches, fmt.Sprintf("availability %.4f%% below target %.1f%%", s.Availability*100, AvailabilitySLO))
	}
	if s.ErrorRate > ErrorRateSLO {
		breaches = append(breaches, fmt.Sprintf("error rate %.4f above target %.4f", s.ErrorRate, ErrorRateSLO))
	}
	if s.LatencyP95 > LatencyP95SLO {
		breaches = append(breaches, fmt.Sprintf("p95 latency %.3fs above target %.3fs", s.LatencyP95, LatencyP95SLO))
	}
	if s.LatencyP99 > LatencyP99SLO {
		breaches = append(breaches, fmt.Sprintf("p99 latency %.3fs above target %.3fs", s.LatencyP99, LatencyP99SLO))
	}
	return breaches
}

// Evaluate gathers the transport metrics, computes the current SLO values,
// and updates the SLO gauges. With no traffic recorded yet the service is
// trivially available: availability reports 1 and the latency percentiles 0.
func (e *Evaluator) Evaluate() (Snapshot, error) {
	families, err := e.gatherer.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("gather metrics: %w", err)
	}

	snap := Snapshot{Availability: 1}
	for _, mf := range families {
		switch mf.GetName() {
		case requestsMetricName:
			total, errored := sumRequests(mf)
			snap.TotalRequests = total
			if total > 0 {
				snap.ErrorRate = errored / total
				snap.Availability = (total - errored) / total
			}
		case durationMetricName:
			bounds, counts, count := mergeHistogram(mf)
			snap.LatencyP95 = histogramQuantile(0.95, bounds, counts, count)
			snap.LatencyP99 = histogramQuantile(0.99, bounds, counts, count)
		}
	}

	UpdateAvailability(snap.Availability)
	UpdateErrorRate(snap.ErrorRate)
	UpdateLatencyP95(snap.LatencyP95)
	UpdateLatencyP99(snap.LatencyP99)

	return snap, nil
}

// sumRequests totals the request counter across label sets and counts the
// share carrying a 5xx status label.
func sumRequests(mf *dto.MetricFamily) (total, errored float64) {
	for _, m := range mf.GetMetric() {
		value := m.GetCounter().GetValue()
		total += value
		for _, label := range m.GetLabel() {
			if label.GetName() != "status" {
				continue
			}
			if code, err := strconv.Atoi(label.GetValue()); err == nil && code >= 500 {
				errored += value
			}
		}
	}
	return total, errored
}

// mergeHistogram merges histogram children across label sets into a single
// set of cumulative bucket counts. Children of the same vector share bucket
// bounds, so merging is a per-bound sum.
func mergeHistogram(mf *dto.MetricFamily) (bounds []float64, counts map[float64]uint64, count uint64) {
	counts = make(map[float64]uint64)
	for _, m := range mf.GetMetric() {
		h := m.GetHistogram()
		count += h.GetSampleCount()
		for _, b := range h.GetBucket() {
			bound := b.GetUpperBound()
			if _, seen := counts[bound]; !seen {
				bounds = append(bounds, bound)
			}
			counts[bound] += b.GetCumulativeCount()
		}
	}
	sort.Float64s(bounds)
	return bounds, counts, count
}

// histogramQuantile estimates a quantile from cumulative bucket counts using
// the same linear interpolation Prometheus applies in histogram_quantile.
// When the rank falls in the +Inf bucket the largest finite bound is
// returned, matching the Prometheus convention.
func histogramQuantile(q float64, bounds []float64, counts map[float64]uint64, count uint64) float64 {
	if count == 0 || len(bounds) == 0 {
		return 0
	}

	rank := q * float64(count)
	var prevBound float64
	var prevCumulative uint64
	for i, bound := range bounds {
		cumulative := counts[bound]
		if float64(cumulative) >= rank {
			if math.IsInf(bound, 1) {
				if i > 0 {
					return bounds[i-1]
				}
				return 0
			}
			bucketCount := cumulative - prevCumulative
			if bucketCount == 0 {
				return bound
			}
			return prevBound + (bound-prevBound)*((rank-float64(prevCumulative))/float64(bucketCount))
		}
		prevBound = bound
		prevCumulative = cumulative
	}

	// Rank beyond every recorded bucket: report the largest finite bound.
	last := bounds[len(bounds)-1]
	if math.IsInf(last, 1) && len(bounds) > 1 {
		return bounds[len(bounds)-2]
	}
	return last
}
