// Package sqlite implements the report repository over database/sql with the
// modernc.org/sqlite driver. SQLite accepts the "LIMIT offset, count" clause
// form the planner emits.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "report-writer/internal/domain/report"
	"report-writer/internal/planner"
	"report-writer/internal/repository"
)

// Querier is the subset of database/sql the repository needs. Both *sql.DB
// and the circuit-breaker wrapper satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ReportRepo executes planned queries for one report definition.
// The definition supplies the source clause; the plan supplies projection,
// ordering and paging. Queries are assembled from configuration fragments
// only, never from request input.
type ReportRepo struct {
	db  Querier
	def domain.Definition
}

func NewReportRepo(db Querier, def domain.Definition) *ReportRepo {
	return &ReportRepo{db: db, def: def}
}

// FetchPage runs one count query and one data query for the plan.
// The total is observed fresh on every call so the caller can reconcile the
// requested page against it and retry with a corrected plan after an overrun.
func (repo *ReportRepo) FetchPage(ctx context.Context, plan planner.Plan) ([]repository.Row, int64, error) {
	total, err := repo.CountRows(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("FetchPage: %w", err)
	}

	query := buildSelect(plan, repo.def.Source)
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("FetchPage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, 0, fmt.Errorf("FetchPage: Columns: %w", err)
	}

	result := make([]repository.Row, 0, repo.def.PageSize)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, 0, fmt.Errorf("FetchPage: Scan: %w", err)
		}
		result = append(result, formatRow(values))
	}
	return result, total, rows.Err()
}

// CountRows returns the current total row count of the report's source.
// Also used by the background refresher to keep the row gauge current.
func (repo *ReportRepo) CountRows(ctx context.Context) (int64, error) {
	query := "SELECT COUNT(*) " + repo.def.Source
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountRows: %w", err)
	}
	return count, nil
}

// buildSelect assembles the data query from the plan fragments and the
// report's source clause.
func buildSelect(plan planner.Plan, source string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(plan.Fields, ", "))
	sb.WriteString(" ")
	sb.WriteString(source)
	sb.WriteString(" ")
	sb.WriteString(plan.OrderBy)
	sb.WriteString(" ")
	sb.WriteString(plan.Limit)
	return sb.String()
}

// formatRow converts scanned driver values into the display projection.
func formatRow(values []interface{}) repository.Row {
	row := make(repository.Row, len(values))
	for i, v := range values {
		row[i] = formatCell(v)
	}
	return row
}

func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
