package report

import (
	"log/slog"
	"net/http"

	"report-writer/internal/handler/http/auth"
)

// Register wires the report endpoints into the mux. The bare /reports
// pattern serves the catalog index and the trailing-slash pattern serves the
// individual report pages; both go through the auth middleware, which is a
// no-op until a token secret is configured.
func Register(mux *http.ServeMux, reports *Catalog, logger *slog.Logger) {
	mux.Handle("GET    /reports", auth.Authz(IndexHandler{Reports: reports}))
	mux.Handle("GET    /reports/", auth.Authz(PageHandler{Reports: reports, Logger: logger}))
}
