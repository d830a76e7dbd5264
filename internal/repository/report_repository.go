// Package repository declares the data-access contracts of the report engine.
package repository

import (
	"context"

	"report-writer/internal/planner"
)

// Row is the display projection of one record: one cell per configured
// column, in declared column order, already formatted for presentation.
type Row []string

// ReportRepository executes the queries planned for one report.
type ReportRepository interface {
	// FetchPage runs one count query and one data query for the plan and
	// returns the page rows together with the total row count observed in
	// the same round. The count is taken fresh on every call: the caller
	// reconciles it against the requested page and may call again with a
	// corrected plan when the page overran the live result set.
	FetchPage(ctx context.Context, plan planner.Plan) (rows []Row, total int64, err error)
}
