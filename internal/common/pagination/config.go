// Package pagination implements the page-state half of the report engine:
// lenient request parsing, reconciliation of the requested page index against
// freshly observed row counts, and the page-link window handed to rendering.
package pagination

import (
	"report-writer/internal/pkg/config"
)

// Config holds the fallback pagination settings applied when a report
// definition does not set its own page size or window size.
type Config struct {
	DefaultPageSize   int // Rows per page (typically 25)
	DefaultWindowSize int // Numbered page links shown around the current page (typically 5)
}

// DefaultConfig returns the default pagination configuration.
// Default values: page size=25, window size=5
func DefaultConfig() Config {
	return Config{
		DefaultPageSize:   25,
		DefaultWindowSize: 5,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - DEFAULT_PAGE_SIZE: rows per page, 1 to 500
//   - DEFAULT_WINDOW_SIZE: numbered page links shown, 1 to 50
//
// Unset, unparsable, or out-of-range values fall back to DefaultConfig()
// values; a bad default must never keep reports from serving.
func LoadFromEnv() Config {
	fallback := DefaultConfig()

	pageSize := config.LoadEnvInt("DEFAULT_PAGE_SIZE", fallback.DefaultPageSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 500)
	})
	windowSize := config.LoadEnvInt("DEFAULT_WINDOW_SIZE", fallback.DefaultWindowSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})

	return Config{
		DefaultPageSize:   pageSize.Value.(int),
		DefaultWindowSize: windowSize.Value.(int),
	}
}
