// Package report defines the core domain model for configured reports.
// It contains the column specification and report definition types, along with
// the construction-time normalization and validation rules that guarantee every
// downstream component works with canonical configuration.
package report

import "report-writer/internal/utils/text"

// Column describes one reportable column.
// Key is the stable identifier clients supply in request parameters, Query is
// the expression projected into the SELECT list, Order is the expression used
// for ORDER BY, and Label is the header text shown to users. Order may differ
// from Query so that a formatted display expression can still be ordered by
// its underlying raw value.
type Column struct {
	Key      string
	Query    string
	Order    string
	Label    string
	Sortable bool
}

// NewColumn returns the canonical column for a bare column name: the name
// serves as key, query expression and order expression, the label is derived
// from it, and the column is sortable.
func NewColumn(name string) Column {
	return Column{
		Key:      name,
		Query:    name,
		Order:    name,
		Label:    text.Labelize(name),
		Sortable: true,
	}
}

// normalized fills the optional fields of a detailed column spec: an empty
// query expression falls back to the key, an empty order expression falls
// back to the query expression, and an empty label is derived from the key.
func (c Column) normalized() Column {
	if c.Query == "" {
		c.Query = c.Key
	}
	if c.Order == "" {
		c.Order = c.Query
	}
	if c.Label == "" {
		c.Label = text.Labelize(c.Key)
	}
	return c
}
