package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3
// parser, the same parser the refresher's scheduler runs the expression with.
//
// The expression must follow the standard five-field cron format:
//   - "minute hour day month weekday"
//   - Example: "*/5 * * * *" (every five minutes)
//   - Example: "0 */6 * * *" (every 6 hours)
//   - Example: "30 9 * * 1-5" (weekdays at 9:30)
//
// Returns nil if valid, a descriptive error otherwise. Error messages
// include what went wrong so operators can fix configuration issues.
//
// Validation tool: https://crontab.guru/
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidateTimezone validates a timezone string by attempting to load it
// with time.LoadLocation.
//
// The timezone must be a valid IANA name ("UTC", "Asia/Tokyo",
// "America/New_York"). Loading depends on timezone data being available
// on the system, so in a minimal container this can fail even for valid
// names when the tzdata package is missing.
//
// Common issues:
//   - Missing tzdata package in the container image
//   - Typo in the timezone name
//   - Using a UTC offset instead of an IANA name (e.g. "+09:00" instead of "Asia/Tokyo")
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}

	_, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}

	return nil
}

// ValidateDuration validates that a duration lies within [min, max],
// both bounds inclusive. Error messages include the actual value and
// the valid range.
//
// Example:
//
//	// Sweep timeout must be between 5s and 30m
//	err := ValidateDuration(2*time.Minute, 5*time.Second, 30*time.Minute)
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}

	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}

	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}

	return nil
}

// ValidateIntRange validates that an integer lies within [min, max],
// both bounds inclusive. Error messages include the actual value and
// the valid range.
//
// Example:
//
//	// Page size must be between 1 and 500
//	err := ValidateIntRange(25, 1, 500)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}

// ValidatePositiveDuration validates that a duration is strictly greater
// than zero. This is the common check for timeouts, delays, and windows
// where zero would mean disabled or infinite.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}

	return nil
}
