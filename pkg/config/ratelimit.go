package config

import (
	"log/slog"
	"time"
)

// RateLimitConfig holds the per-IP rate limiting configuration for the
// report endpoints. One sliding window covers all reports; report pages are
// cheap to serve but each one costs two queries, so the limiter protects the
// database rather than the HTTP layer.
type RateLimitConfig struct {
	// Enabled controls whether the rate limiting middleware is installed.
	Enabled bool

	// Limit is the number of requests allowed per window and client IP.
	Limit int

	// Window is the sliding window duration.
	Window time.Duration
}

// LoadRateLimitConfig loads rate limiting configuration from environment
// variables. Invalid values are logged and replaced with defaults instead of
// failing: a misconfigured limiter must not keep the reports from serving.
//
// Environment variables:
//   - RATELIMIT_ENABLED: Enable/disable rate limiting (default: true)
//   - RATELIMIT_IP_LIMIT: Requests allowed per window and IP (default: 100)
//   - RATELIMIT_IP_WINDOW: Sliding window duration (default: 1m)
//
// The cleanup interval for expired limiter entries is loaded separately,
// next to the cleanup loop that uses it.
func LoadRateLimitConfig() (*RateLimitConfig, error) {
	config := &RateLimitConfig{
		Enabled: GetEnvBool("RATELIMIT_ENABLED", true),
	}

	limit := GetEnvInt("RATELIMIT_IP_LIMIT", 100)
	if limit <= 0 {
		slog.Warn("invalid RATELIMIT_IP_LIMIT, using default",
			slog.Int("value", limit),
			slog.Int("default", 100))
		limit = 100
	}
	config.Limit = limit

	window := GetEnvDuration("RATELIMIT_IP_WINDOW", 1*time.Minute)
	if err := ValidatePositiveDuration(window); err != nil {
		slog.Warn("invalid RATELIMIT_IP_WINDOW, using default",
			slog.String("value", window.String()),
			slog.String("default", "1m"),
			slog.String("error", err.Error()))
		window = 1 * time.Minute
	}
	config.Window = window

	return config, nil
}

// CSPConfig contains the configuration for Content Security Policy.
//
// Report pages carry an inline stylesheet, so the policy applied to them
// differs from the strict default; this struct only decides whether and how
// the headers are sent, the policies themselves live in pkg/security/csp.
type CSPConfig struct {
	// Enabled controls whether CSP headers are applied
	Enabled bool

	// ReportOnly sets the header to Content-Security-Policy-Report-Only
	// instead of Content-Security-Policy, which logs violations but does not enforce
	ReportOnly bool
}

// LoadCSPConfig loads Content Security Policy configuration from environment variables.
//
// Environment variables:
//   - CSP_ENABLED: Enable/disable CSP headers (default: true)
//   - CSP_REPORT_ONLY: Use report-only mode (default: false)
//
// Returns:
//   - *CSPConfig: CSP configuration
//   - error: Always nil
func LoadCSPConfig() (*CSPConfig, error) {
	config := &CSPConfig{
		Enabled:    GetEnvBool("CSP_ENABLED", true),
		ReportOnly: GetEnvBool("CSP_REPORT_ONLY", false),
	}

	return config, nil
}
