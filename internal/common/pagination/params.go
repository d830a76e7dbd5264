package pagination

import "strconv"

// PageState carries the requested page index together with the report's page
// and window configuration for one request.
// The index comes straight from untrusted request input. It is parsed
// leniently and clamped to at least 1, but there is no upper clamp here: the
// upper bound depends on the live row count, which has not been observed yet
// (see Reconcile).
type PageState struct {
	Index      int // 1-based page index, as requested
	PageSize   int // Rows per page
	WindowSize int // Numbered page links shown around the current page
}

// NewPageState builds the page state for one request.
// pageSize and windowSize come from a validated report definition and are
// already known to be positive.
func NewPageState(rawIndex string, pageSize, windowSize int) PageState {
	return PageState{
		Index:      ParsePageIndex(rawIndex),
		PageSize:   pageSize,
		WindowSize: windowSize,
	}
}

// ParsePageIndex interprets the raw page parameter.
// Missing or non-numeric values and values below 1 all normalize silently to
// page 1; malformed paging input never fails a request.
func ParsePageIndex(raw string) int {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 1 {
		return 1
	}
	return index
}

// WithIndex returns a copy of the state pointing at a different page.
// Overrun recovery uses this to retry with a corrected index.
func (p PageState) WithIndex(index int) PageState {
	p.Index = index
	return p
}

// Offset returns the 0-based row offset of the page.
//
// Formula: offset = (index - 1) * pageSize
func (p PageState) Offset() int {
	return (p.Index - 1) * p.PageSize
}
