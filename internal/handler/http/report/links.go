package report

import (
	"net/url"
	"strconv"
	"strings"

	"report-writer/internal/common/sorting"
)

// pageURL builds the link target for one page of a report, preserving the
// active sort state.
func pageURL(name string, sort sorting.State, index int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(index))
	q.Set("sort", sort.Key)
	q.Set("dir", dirParam(sort.Direction))
	return "/reports/" + name + "?" + q.Encode()
}

// headerURL builds the link target for a sortable column header: it sorts by
// that column in the given direction while staying on the current page.
// Sorting does not change the row count, so the current index stays valid
// under the new order.
func headerURL(name, key string, dir sorting.Direction, index int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(index))
	q.Set("sort", key)
	q.Set("dir", dirParam(dir))
	return "/reports/" + name + "?" + q.Encode()
}

// dirParam lowercases a direction for use as a query parameter value.
func dirParam(d sorting.Direction) string {
	return strings.ToLower(string(d))
}
