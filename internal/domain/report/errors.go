package report

import (
	"errors"
	"fmt"
)

// Sentinel errors for report configuration.
var (
	// ErrNoColumns indicates a report definition without any columns
	ErrNoColumns = errors.New("report has no columns")

	// ErrDuplicateColumn indicates two columns sharing the same key
	ErrDuplicateColumn = errors.New("duplicate column key")

	// ErrInvalidDefaultSort indicates a default sort key that does not name a sortable column
	ErrInvalidDefaultSort = errors.New("default sort key is not a sortable column")

	// ErrInvalidPageSize indicates a page size of zero or less
	ErrInvalidPageSize = errors.New("page size must be positive")

	// ErrInvalidWindowSize indicates a page window size of zero or less
	ErrInvalidWindowSize = errors.New("window size must be positive")
)

// ValidationError represents a configuration error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
