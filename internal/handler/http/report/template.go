package report

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"report-writer/internal/common/sorting"
	domain "report-writer/internal/domain/report"
	"report-writer/internal/handler/http/respond"
	"report-writer/internal/repository"
	repUC "report-writer/internal/usecase/report"
)

//go:embed report.tmpl index.tmpl
var templateFS embed.FS

// templates holds the parsed report templates, keyed by file name.
// Parsing happens once at package load; a malformed template is a build
// defect, not a runtime condition.
var templates = template.Must(template.ParseFS(templateFS, "*.tmpl"))

// headerView is one column header prepared for the template. URL is empty
// for non-sortable columns, which render as plain text.
type headerView struct {
	Label    string
	Sortable bool
	Active   bool
	Arrow    string
	URL      string
}

// pageLinkView is one entry in the page navigation bar.
type pageLinkView struct {
	Label  string
	URL    string
	Active bool
}

// navView is the page navigation bar. First/Prev and Next/Last targets are
// empty when the corresponding direction has nowhere to go; the template
// renders those as inert text instead of links.
type navView struct {
	Entries []pageLinkView
	HasPrev bool
	HasNext bool
	First   string
	Prev    string
	Next    string
	Last    string
}

// pageView is everything the report template renders.
type pageView struct {
	Title   string
	Name    string
	Headers []headerView
	Rows    []repository.Row
	Nav     navView
	Total   int64
	Page    int
	Pages   int
	Empty   bool
}

// indexEntryView is one report entry on the index page.
type indexEntryView struct {
	Title   string
	URL     string
	Columns int
}

// newPageView prepares the template data for one served page. All link
// targets are computed here so the template stays free of logic beyond
// conditionals and ranges.
func newPageView(def domain.Definition, res *repUC.Result) pageView {
	headers := make([]headerView, 0, len(res.Headers))
	for _, h := range res.Headers {
		hv := headerView{
			Label:    h.Label,
			Sortable: h.Sortable,
			Active:   h.Active,
		}
		if h.Sortable {
			hv.URL = headerURL(def.Name, h.Key, h.Next, res.Window.CurrentIndex)
		}
		if h.Active {
			if res.Sort.Direction == sorting.Asc {
				hv.Arrow = "▲"
			} else {
				hv.Arrow = "▼"
			}
		}
		headers = append(headers, hv)
	}

	nav := navView{
		HasPrev: res.Pages.HasPrev,
		HasNext: res.Pages.HasNext,
	}
	if res.Pages.HasPrev {
		nav.First = pageURL(def.Name, res.Sort, res.Pages.First)
		nav.Prev = pageURL(def.Name, res.Sort, res.Pages.Prev)
	}
	if res.Pages.HasNext {
		nav.Next = pageURL(def.Name, res.Sort, res.Pages.Next)
		nav.Last = pageURL(def.Name, res.Sort, res.Pages.Last)
	}
	for _, e := range res.Pages.Entries {
		nav.Entries = append(nav.Entries, pageLinkView{
			Label:  e.Label,
			URL:    pageURL(def.Name, res.Sort, e.Index),
			Active: e.Active,
		})
	}

	return pageView{
		Title:   def.Title,
		Name:    def.Name,
		Headers: headers,
		Rows:    res.Rows,
		Nav:     nav,
		Total:   res.Window.TotalCount,
		Page:    res.Window.CurrentIndex,
		Pages:   res.Window.PageCount,
		Empty:   len(res.Rows) == 0,
	}
}

// renderPage writes the HTML for one served page. The template executes into
// a buffer first so an execution failure can still produce a clean error
// response instead of a half-written page.
func renderPage(w http.ResponseWriter, def domain.Definition, res *repUC.Result) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report.tmpl", newPageView(def, res)); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// renderIndex writes the HTML catalog listing.
func renderIndex(w http.ResponseWriter, defs []domain.Definition) {
	entries := make([]indexEntryView, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, indexEntryView{
			Title:   def.Title,
			URL:     "/reports/" + def.Name,
			Columns: len(def.Columns),
		})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.tmpl", entries); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
