// Package planner turns resolved sort and page state into the SQL clause
// strings the data layer executes with. It is pure string computation over
// typed inputs: no database access, no side effects.
package planner

import (
	"errors"
	"fmt"

	"report-writer/internal/common/pagination"
	"report-writer/internal/common/sorting"
	"report-writer/internal/domain/report"
)

// ErrUnknownSortKey indicates a sort key that matches no configured column.
// Sort resolution guarantees the active key names a column, so hitting this
// error means a caller built a sort state by hand.
var ErrUnknownSortKey = errors.New("sort key does not match any column")

// Plan carries the SQL fragments for one page fetch.
// Fields holds the query expression of every column verbatim, in declared
// order; no implicit columns are added. OrderBy and Limit are complete
// clauses ready to append to a statement. The limit clause uses the
// "LIMIT offset, count" form with a 0-based offset.
type Plan struct {
	Fields  []string
	OrderBy string
	Limit   string
}

// Build computes the plan for the given sort state, page state and column
// configuration. The ORDER BY clause uses the matching column's order
// expression, which may differ from its query expression so that a formatted
// display value is still ordered by its raw form. Identical inputs always
// yield identical clause strings.
func Build(sort sorting.State, page pagination.PageState, columns []report.Column) (Plan, error) {
	var active report.Column
	found := false
	for _, col := range columns {
		if col.Key == sort.Key {
			active = col
			found = true
			break
		}
	}
	if !found {
		return Plan{}, fmt.Errorf("key %q: %w", sort.Key, ErrUnknownSortKey)
	}

	fields := make([]string, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, col.Query)
	}

	return Plan{
		Fields:  fields,
		OrderBy: fmt.Sprintf("ORDER BY %s %s", active.Order, sort.Direction),
		Limit:   fmt.Sprintf("LIMIT %d, %d", page.Offset(), page.PageSize),
	}, nil
}
