package pathutil

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidName is returned when the report name in the URL path is invalid.
var ErrInvalidName = errors.New("invalid report name")

// reportNamePattern matches the names the report catalog accepts:
// a lowercase alphanumeric followed by lowercase alphanumerics,
// underscores, or hyphens.
var reportNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ExtractName extracts a report name from a URL path.
// It removes the specified prefix and validates the remaining string
// against the naming rules the report catalog enforces.
//
// Parameters:
//   - path: The full URL path (e.g., "/reports/employees")
//   - prefix: The prefix to remove (e.g., "/reports/")
//
// Returns:
//   - string: The report name
//   - error: ErrInvalidName if the name is empty, contains a subpath,
//     or uses characters outside the catalog naming rules
//
// Example:
//
//	name, err := ExtractName("/reports/employees", "/reports/")
//	// Returns: "employees", nil
func ExtractName(path, prefix string) (string, error) {
	name := strings.TrimPrefix(path, prefix)
	if !reportNamePattern.MatchString(name) {
		return "", ErrInvalidName
	}
	return name, nil
}
