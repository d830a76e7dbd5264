package pagination

// CalculatePageCount returns the number of pages needed for total rows at the
// given page size, using ceiling division.
//
// Special cases:
//   - If total is 0, returns 0 (an empty result set has no pages)
//   - A partial final page still counts as a page
//
// Examples:
//   - Total 0, PageSize 10 -> 0 pages
//   - Total 1, PageSize 10 -> 1 page
//   - Total 25, PageSize 10 -> 3 pages
//   - Total 30, PageSize 10 -> 3 pages
func CalculatePageCount(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ResultWindow is the reconciled pagination state after one observation of
// the total row count. It is recomputed, never mutated in place: during
// overrun recovery several windows may be built for a single request, and the
// latest one is the sole authority on whether a re-query is needed.
type ResultWindow struct {
	TotalCount   int64
	PageCount    int
	CurrentIndex int
	Valid        bool
}

// Reconcile builds the window for a freshly observed total row count.
// The index is valid when it lies within [1, max(pageCount, 1)]. An empty
// result set is always valid regardless of the requested index: there is
// nothing to overrun into, and zero rows is not an error.
func Reconcile(total int64, page PageState) ResultWindow {
	pageCount := CalculatePageCount(total, page.PageSize)
	valid := total == 0 || (page.Index >= 1 && page.Index <= max(pageCount, 1))
	return ResultWindow{
		TotalCount:   total,
		PageCount:    pageCount,
		CurrentIndex: page.Index,
		Valid:        valid,
	}
}

// CorrectedIndex returns the page index to retry with after an overrun: the
// requested index clamped to the last existing page, or page 1 when no pages
// exist.
func (w ResultWindow) CorrectedIndex() int {
	if w.PageCount >= 1 {
		return min(w.CurrentIndex, w.PageCount)
	}
	return 1
}
