package report

import (
	"context"
	"fmt"
	"log/slog"

	"report-writer/internal/common/pagination"
	"report-writer/internal/common/sorting"
	domain "report-writer/internal/domain/report"
	"report-writer/internal/planner"
	"report-writer/internal/repository"
)

// maxCorrections bounds overrun recovery. After this many corrective
// re-queries (three query rounds in total) a still-invalid page fails with
// ErrOverrunExhausted: under a result set that keeps shrinking, the corrected
// index of one round can already be stale by the next, so the loop must have
// a hard ceiling.
const maxCorrections = 2

// Request carries the raw, untrusted request parameters for one report page.
// All three values may be missing or malformed; they are normalized, never
// rejected.
type Request struct {
	Page      string
	SortKey   string
	Direction string
}

// Result contains everything the rendering layer needs for one served page.
type Result struct {
	Rows    []repository.Row
	Window  pagination.ResultWindow
	Sort    sorting.State
	Headers []sorting.Header
	Pages   pagination.PageList
	// Attempts is the number of query rounds used; 1 means no overrun
	// occurred.
	Attempts int
}

// Service serves pages of one configured report.
// Def must be normalized and validated before the service is constructed.
type Service struct {
	Def  domain.Definition
	Repo repository.ReportRepository
}

// Run resolves the request and fetches the page.
//
// Each round plans the query for the current index, fetches rows together
// with a freshly observed total, and reconciles the index against that total.
// A valid window ends the loop. An overrun corrects the index to the last
// existing page and re-plans; after maxCorrections corrective rounds the
// request fails with ErrOverrunExhausted. An empty result set is valid on the
// first round, whatever index was requested.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	sortState := sorting.Resolve(req.SortKey, req.Direction, s.Def.Columns, s.Def.DefaultSort)
	page := pagination.NewPageState(req.Page, s.Def.PageSize, s.Def.WindowSize)

	var (
		rows     []repository.Row
		window   pagination.ResultWindow
		attempts int
	)
	for {
		plan, err := planner.Build(sortState, page, s.Def.Columns)
		if err != nil {
			return nil, fmt.Errorf("plan report %s: %w", s.Def.Name, err)
		}

		attempts++
		var total int64
		rows, total, err = s.Repo.FetchPage(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("fetch report %s page %d: %w", s.Def.Name, page.Index, err)
		}

		window = pagination.Reconcile(total, page)
		pagination.UpdateRowCount(s.Def.Name, total)
		if window.Valid {
			break
		}

		pagination.RecordOverrun(s.Def.Name)
		if attempts > maxCorrections {
			pagination.RecordExhausted(s.Def.Name)
			slog.Error("page overrun recovery exhausted",
				slog.String("report", s.Def.Name),
				slog.Int("index", page.Index),
				slog.Int("attempts", attempts))
			return nil, fmt.Errorf("report %s: max corrective re-queries (%d) exceeded: %w",
				s.Def.Name, maxCorrections, ErrOverrunExhausted)
		}

		corrected := window.CorrectedIndex()
		slog.Warn("page overrun, correcting index",
			slog.String("report", s.Def.Name),
			slog.Int("requested", page.Index),
			slog.Int("corrected", corrected),
			slog.Int("page_count", window.PageCount),
			slog.Int("attempt", attempts))
		page = page.WithIndex(corrected)
	}

	return &Result{
		Rows:     rows,
		Window:   window,
		Sort:     sortState,
		Headers:  sorting.Headers(s.Def.Columns, sortState),
		Pages:    pagination.BuildPageList(window, page.WindowSize),
		Attempts: attempts,
	}, nil
}
