package worker

import (
	"fmt"
	"log/slog"
	"time"

	"report-writer/internal/pkg/config"
)

// RefresherConfig holds the configuration for the row count refresher.
// It controls the sweep schedule, its timezone, how long one sweep may
// run, and how fast count queries are issued against the database.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have defaults and validation rules so the refresher can
// operate safely even with invalid or missing configuration.
type RefresherConfig struct {
	// Schedule is the cron expression for the count sweep.
	// Format: "minute hour day month weekday"
	// Example: "*/5 * * * *" (every five minutes)
	// Validation: Must be a valid cron expression (5 fields)
	// Default: "*/5 * * * *"
	Schedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	// Example: "UTC", "Asia/Tokyo", "America/New_York"
	// Validation: Must be a valid IANA timezone name
	// Default: "UTC"
	Timezone string

	// SweepTimeout is the maximum duration for one full sweep across all
	// configured reports. After this timeout the remaining reports are
	// skipped until the next tick.
	// Range: 5s-30m
	// Default: 2 minutes
	SweepTimeout time.Duration

	// CountsPerSecond is the maximum number of count queries issued per
	// second, spread across reports so the sweep cannot monopolize the
	// database connection pool.
	// Range: 1-100
	// Default: 2
	CountsPerSecond int
}

// DefaultConfig returns a RefresherConfig with production defaults:
// a sweep every five minutes in UTC, bounded to two minutes, issuing at
// most two count queries per second.
func DefaultConfig() RefresherConfig {
	return RefresherConfig{
		Schedule:        "*/5 * * * *",
		Timezone:        "UTC",
		SweepTimeout:    2 * time.Minute,
		CountsPerSecond: 2,
	}
}

// Validate checks the configuration values using the reusable validators
// from internal/pkg/config. If multiple fields are invalid, all errors
// are collected and returned together.
//
// Validation rules:
//   - Schedule: Must be a valid cron expression (validated by the robfig/cron parser)
//   - Timezone: Must be a valid IANA timezone name (validated by time.LoadLocation)
//   - SweepTimeout: Must be between 5 seconds and 30 minutes (inclusive)
//   - CountsPerSecond: Must be between 1 and 100 (inclusive)
func (c *RefresherConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errors = append(errors, fmt.Errorf("schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidateDuration(c.SweepTimeout, 5*time.Second, 30*time.Minute); err != nil {
		errors = append(errors, fmt.Errorf("sweep timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.CountsPerSecond, 1, 100); err != nil {
		errors = append(errors, fmt.Errorf("counts per second: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// LoadConfigFromEnv loads refresher configuration from environment
// variables with validation and automatic fallback to default values.
//
// This function implements the fail-open strategy:
//  1. Start with DefaultConfig() as base
//  2. Load each field from environment variables
//  3. Validate each loaded value
//  4. If validation fails: use the default, log a warning, increment metrics
//  5. Never return an error - always return a usable configuration
//
// Environment variables:
//   - COUNT_REFRESH_SCHEDULE: Cron expression (default: "*/5 * * * *")
//   - COUNT_REFRESH_TZ: IANA timezone name (default: "UTC")
//   - COUNT_REFRESH_TIMEOUT: Duration string 5s-30m, e.g. "2m" (default: 2 minutes)
//   - COUNT_REFRESH_RATE: Integer 1-100 (default: 2)
//
// Metrics updated:
//   - ValidationErrorsTotal: Incremented for each validation failure
//   - FallbacksTotal: Incremented for each fallback applied
//   - FallbackActive: Set to 1 if any fallback is active, 0 otherwise
//   - LoadTimestamp: Set to current time after the load
func LoadConfigFromEnv(logger *slog.Logger, metrics *RefresherMetrics) (*RefresherConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("COUNT_REFRESH_SCHEDULE", cfg.Schedule, config.ValidateCronSchedule)
	cfg.Schedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("schedule")
		metrics.RecordFallback("schedule", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "Schedule"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvWithFallback("COUNT_REFRESH_TZ", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "Timezone"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvDuration("COUNT_REFRESH_TIMEOUT", cfg.SweepTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 5*time.Second, 30*time.Minute)
	})
	cfg.SweepTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("sweep_timeout")
		metrics.RecordFallback("sweep_timeout", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "SweepTimeout"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvInt("COUNT_REFRESH_RATE", cfg.CountsPerSecond, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.CountsPerSecond = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("counts_per_second")
		metrics.RecordFallback("counts_per_second", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "CountsPerSecond"),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Always return a usable config (fail-open strategy)
	return &cfg, nil
}
