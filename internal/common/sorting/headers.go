package sorting

import "report-writer/internal/domain/report"

// Header is one column header entry for the rendering layer.
// Next is the direction a click on the header requests: the active column
// toggles its direction, every other sortable column starts ascending.
// Active marks the column currently driving the sort so the template can
// attach a visual indicator; it is derived state, not business logic.
type Header struct {
	Key      string
	Label    string
	Sortable bool
	Active   bool
	Next     Direction
}

// Headers derives the header entries for every configured column, in
// declared order, against the active sort state.
func Headers(columns []report.Column, active State) []Header {
	headers := make([]Header, 0, len(columns))
	for _, col := range columns {
		h := Header{
			Key:      col.Key,
			Label:    col.Label,
			Sortable: col.Sortable,
		}
		if col.Sortable {
			if col.Key == active.Key {
				h.Active = true
				h.Next = active.Direction.Toggle()
			} else {
				h.Next = Asc
			}
		}
		headers = append(headers, h)
	}
	return headers
}
