package http

import (
	"context"
	"log/slog"
	"time"

	"report-writer/internal/handler/http/middleware"
	"report-writer/pkg/config"
)

// StartRateLimitCleanup starts a background goroutine that periodically
// removes expired entries from the rate limiter.
//
// The limiter keeps a timestamp slice per client IP. Entries outside the
// window stop affecting decisions but still occupy memory until this
// sweep removes them, so without it the map grows with every IP that has
// ever requested a report page.
//
// The loop stops when the context is cancelled, typically during server
// shutdown.
func StartRateLimitCleanup(ctx context.Context, limiter *middleware.RateLimiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return

		case <-ticker.C:
			limiter.CleanupExpired()

			slog.Debug("rate limit cleanup completed")
		}
	}
}

// CleanupConfig holds configuration for rate limit cleanup.
type CleanupConfig struct {
	// Interval specifies how often to run cleanup.
	// Default: 5 minutes
	Interval time.Duration
}

// DefaultCleanupInterval is the default cleanup interval if not specified.
const DefaultCleanupInterval = 5 * time.Minute

// LoadCleanupConfigFromEnv loads cleanup configuration from environment variables.
//
// Environment variables:
//   - RATELIMIT_CLEANUP_INTERVAL: Cleanup interval between 10s and 1h
//     (e.g., "5m", "10m"). Default: 5 minutes
//
// If parsing fails or values are invalid, the default is used instead of
// failing. A missing sweep interval is not worth refusing to boot over.
func LoadCleanupConfigFromEnv() CleanupConfig {
	interval := config.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval)
	if err := config.ValidateDurationRange(interval, 10*time.Second, time.Hour); err != nil {
		slog.Warn("invalid RATELIMIT_CLEANUP_INTERVAL, using default",
			slog.String("value", interval.String()),
			slog.String("default", DefaultCleanupInterval.String()),
			slog.String("error", err.Error()))
		interval = DefaultCleanupInterval
	}
	return CleanupConfig{Interval: interval}
}
