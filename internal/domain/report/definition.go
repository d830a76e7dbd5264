package report

import (
	"fmt"

	"report-writer/internal/utils/text"
)

// Definition describes one configured report.
// Source is the FROM clause fragment (including any WHERE conditions) the data
// layer appends to the projected fields; the definition never contains a full
// SQL statement. Columns are fixed for the lifetime of the report.
type Definition struct {
	Name        string
	Title       string
	Source      string
	Columns     []Column
	DefaultSort string
	PageSize    int
	WindowSize  int
}

// Normalized returns a copy of the definition with every column in canonical
// form, a title derived from the name when none is configured, and the first
// sortable column as default sort when none is configured.
func (d Definition) Normalized() Definition {
	cols := make([]Column, len(d.Columns))
	for i, c := range d.Columns {
		cols[i] = c.normalized()
	}
	d.Columns = cols
	if d.Title == "" {
		d.Title = text.Labelize(d.Name)
	}
	if d.DefaultSort == "" {
		for _, c := range cols {
			if c.Sortable {
				d.DefaultSort = c.Key
				break
			}
		}
	}
	return d
}

// Validate checks the construction-time invariants of a definition.
// A definition that fails validation must not be served: these are
// configuration mistakes, not per-request conditions, and the service fails
// fast on them at startup.
func (d Definition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Message: "report name is required"}
	}
	if d.Source == "" {
		return &ValidationError{Field: "source", Message: "source clause is required"}
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("report %q: %w", d.Name, ErrNoColumns)
	}

	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if c.Key == "" {
			return &ValidationError{Field: "columns", Message: "column key is required"}
		}
		if _, ok := seen[c.Key]; ok {
			return fmt.Errorf("report %q, column %q: %w", d.Name, c.Key, ErrDuplicateColumn)
		}
		seen[c.Key] = struct{}{}
	}

	if col, ok := d.Column(d.DefaultSort); !ok || !col.Sortable {
		return fmt.Errorf("report %q, key %q: %w", d.Name, d.DefaultSort, ErrInvalidDefaultSort)
	}
	if d.PageSize <= 0 {
		return fmt.Errorf("report %q: %w", d.Name, ErrInvalidPageSize)
	}
	if d.WindowSize <= 0 {
		return fmt.Errorf("report %q: %w", d.Name, ErrInvalidWindowSize)
	}
	return nil
}

// Column looks up a column by its key.
func (d Definition) Column(key string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
