package pagination

// Metadata contains pagination metadata included in JSON report responses.
type Metadata struct {
	Total      int64 `json:"total"`       // Total number of rows across all pages
	Page       int   `json:"page"`        // Current page number (1-based)
	PageSize   int   `json:"page_size"`   // Rows per page
	TotalPages int   `json:"total_pages"` // Calculated total number of pages
}

// MetadataFromWindow builds response metadata from a reconciled window.
func MetadataFromWindow(w ResultWindow, pageSize int) Metadata {
	return Metadata{
		Total:      w.TotalCount,
		Page:       w.CurrentIndex,
		PageSize:   pageSize,
		TotalPages: w.PageCount,
	}
}
