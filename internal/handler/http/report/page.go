package report

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"report-writer/internal/handler/http/pathutil"
	"report-writer/internal/handler/http/respond"
	"report-writer/internal/observability/logging"
	repUC "report-writer/internal/usecase/report"
)

// PageHandler serves one page of a configured report.
//
// GET /reports/{name}?page=N&sort=key&dir=asc|desc renders the requested
// page as HTML; with format=json the same page is returned as a DTO. All
// three paging parameters are optional and tolerate malformed values: the
// use case normalizes rather than rejects them, so this handler never
// returns 400 for bad paging input.
type PageHandler struct {
	Reports *Catalog
	Logger  *slog.Logger
}

func (h PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	logger := logging.WithRequestID(ctx, h.Logger)

	name, err := pathutil.ExtractName(r.URL.Path, "/reports/")
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}

	svc, ok := h.Reports.Lookup(name)
	if !ok {
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("report %q not found", name))
		return
	}

	q := r.URL.Query()
	req := repUC.Request{
		Page:      q.Get("page"),
		SortKey:   q.Get("sort"),
		Direction: q.Get("dir"),
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		if errors.Is(err, repUC.ErrOverrunExhausted) {
			// The result set shrank faster than the corrective re-queries
			// could catch up. The client holds a stale view; retrying from
			// page 1 resolves it.
			logger.Warn("report page request gave up after repeated overruns",
				"report", name,
				"page", req.Page)
			respond.Error(w, http.StatusConflict, repUC.ErrOverrunExhausted)
			return
		}
		logger.Error("failed to serve report page",
			"report", name,
			"page", req.Page,
			"error", err.Error())
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	duration := time.Since(startTime)
	logger.Info("report page served",
		"report", name,
		"page", result.Window.CurrentIndex,
		"sort", result.Sort.Key,
		"dir", dirParam(result.Sort.Direction),
		"rows", len(result.Rows),
		"total", result.Window.TotalCount,
		"attempts", result.Attempts,
		"duration_ms", duration.Milliseconds())

	if q.Get("format") == "json" {
		respond.JSON(w, http.StatusOK, buildDTO(svc.Def, result, r.URL.RequestURI()))
		return
	}

	renderPage(w, svc.Def, result)
}
