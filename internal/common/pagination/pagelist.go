package pagination

import "strconv"

// PageEntry is one numbered link in the page list.
type PageEntry struct {
	Label  string // Display text, the page number
	Index  int    // Target page index to encode in the link
	Active bool   // True for the currently displayed page
}

// PageList is the set of navigation targets for one rendered page: up to
// windowSize numbered entries around the current page plus explicit
// first/prev/next/last targets. Every target lies within [1, PageCount].
// An empty result set produces the zero value with no entries.
type PageList struct {
	Entries []PageEntry
	HasPrev bool
	HasNext bool
	First   int // Target of the "first page" link (1 when pages exist)
	Last    int // Target of the "last page" link (PageCount)
	Prev    int // Target of the "previous" link, 0 when HasPrev is false
	Next    int // Target of the "next" link, 0 when HasNext is false
}

// BuildPageList computes the page list for a reconciled window.
// The numbered entries are centered on the current index and clamped at both
// boundaries so the list never runs past page 1 or the last page.
func BuildPageList(w ResultWindow, windowSize int) PageList {
	if w.PageCount < 1 {
		return PageList{}
	}

	start := w.CurrentIndex - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > w.PageCount {
		end = w.PageCount
		start = max(1, end-windowSize+1)
	}

	list := PageList{
		HasPrev: w.CurrentIndex > 1,
		HasNext: w.CurrentIndex < w.PageCount,
		First:   1,
		Last:    w.PageCount,
	}
	if list.HasPrev {
		list.Prev = w.CurrentIndex - 1
	}
	if list.HasNext {
		list.Next = w.CurrentIndex + 1
	}

	list.Entries = make([]PageEntry, 0, end-start+1)
	for i := start; i <= end; i++ {
		list.Entries = append(list.Entries, PageEntry{
			Label:  strconv.Itoa(i),
			Index:  i,
			Active: i == w.CurrentIndex,
		})
	}
	return list
}
