package report

import (
	"net/http"

	"report-writer/internal/handler/http/respond"
)

// IndexHandler lists the configured reports.
//
// GET /reports renders the catalog as an HTML list of links; with
// format=json it returns the entries as a DTO array.
type IndexHandler struct {
	Reports *Catalog
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defs := h.Reports.Definitions()

	if r.URL.Query().Get("format") == "json" {
		out := make([]IndexEntryDTO, 0, len(defs))
		for _, def := range defs {
			out = append(out, IndexEntryDTO{
				Name:    def.Name,
				Title:   def.Title,
				URL:     "/reports/" + def.Name,
				Columns: len(def.Columns),
			})
		}
		respond.JSON(w, http.StatusOK, out)
		return
	}

	renderIndex(w, defs)
}
