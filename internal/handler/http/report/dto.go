// Package report provides the HTTP handlers that serve configured report
// pages. A report renders as a server-side HTML table by default and as JSON
// when the request asks for it; page and sort resolution, including overrun
// recovery, is delegated to the report use case.
package report

import (
	"report-writer/internal/common/pagination"
	domain "report-writer/internal/domain/report"
	repUC "report-writer/internal/usecase/report"
)

// RowDTO is one report row: display cells in declared column order.
type RowDTO []string

// ColumnDTO describes one column header in the JSON variant.
// NextDir is the direction a request sorting on this column should use; it is
// set only for sortable columns.
type ColumnDTO struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Active   bool   `json:"active,omitempty"`
	NextDir  string `json:"next_dir,omitempty"`
}

// SortDTO is the resolved sort state echoed back to the client. It reflects
// what was actually applied, which may differ from what was requested.
type SortDTO struct {
	Key       string `json:"key"`
	Direction string `json:"dir"`
}

// LinksDTO carries the navigation targets for the current page.
// Targets that do not apply (no previous page while on page 1, no pages at
// all on an empty result set) are omitted.
type LinksDTO struct {
	Self  string `json:"self"`
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// DTO is the JSON body for one rendered report page.
type DTO struct {
	Report  string      `json:"report"`
	Title   string      `json:"title"`
	Sort    SortDTO     `json:"sort"`
	Columns []ColumnDTO `json:"columns"`
	pagination.Response[RowDTO]
	Links LinksDTO `json:"links"`
}

// IndexEntryDTO is one catalog entry in the JSON report index.
type IndexEntryDTO struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Columns int    `json:"columns"`
}

// buildDTO assembles the JSON body for one served page.
func buildDTO(def domain.Definition, res *repUC.Result, self string) DTO {
	rows := make([]RowDTO, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, RowDTO(r))
	}

	cols := make([]ColumnDTO, 0, len(res.Headers))
	for _, h := range res.Headers {
		c := ColumnDTO{
			Key:      h.Key,
			Label:    h.Label,
			Sortable: h.Sortable,
			Active:   h.Active,
		}
		if h.Sortable {
			c.NextDir = dirParam(h.Next)
		}
		cols = append(cols, c)
	}

	links := LinksDTO{Self: self}
	if res.Window.PageCount >= 1 {
		links.First = pageURL(def.Name, res.Sort, res.Pages.First)
		links.Last = pageURL(def.Name, res.Sort, res.Pages.Last)
	}
	if res.Pages.HasPrev {
		links.Prev = pageURL(def.Name, res.Sort, res.Pages.Prev)
	}
	if res.Pages.HasNext {
		links.Next = pageURL(def.Name, res.Sort, res.Pages.Next)
	}

	return DTO{
		Report:   def.Name,
		Title:    def.Title,
		Sort:     SortDTO{Key: res.Sort.Key, Direction: dirParam(res.Sort.Direction)},
		Columns:  cols,
		Response: pagination.NewResponse(rows, pagination.MetadataFromWindow(res.Window, def.PageSize)),
		Links:    links,
	}
}
