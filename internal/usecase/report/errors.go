// Package report provides the use case for serving one configured report
// page: resolving sort and page state from raw request input, planning the
// query, and reconciling the requested page against the live row count with
// bounded overrun recovery.
package report

import "errors"

// Sentinel errors for report use case operations.
var (
	// ErrOverrunExhausted indicates that the requested page kept falling
	// outside the live result set after the maximum number of corrective
	// re-queries. This happens when the underlying result set shrinks
	// concurrently with the paginated read; the request fails with this
	// error instead of looping further.
	ErrOverrunExhausted = errors.New("page overrun recovery exhausted")
)
