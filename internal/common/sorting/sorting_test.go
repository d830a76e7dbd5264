package sorting_test

import (
	"testing"

	"report-writer/internal/common/sorting"
	"report-writer/internal/domain/report"
)

func testColumns() []report.Column {
	return []report.Column{
		{Key: "name", Query: "name", Order: "name", Label: "Name", Sortable: true},
		{Key: "age", Query: "age", Order: "age", Label: "Age", Sortable: true},
		{Key: "notes", Query: "notes", Order: "notes", Label: "Notes", Sortable: false},
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want sorting.Direction
	}{
		{
			name: "lowercase asc",
			raw:  "asc",
			want: sorting.Asc,
		},
		{
			name: "uppercase ASC",
			raw:  "ASC",
			want: sorting.Asc,
		},
		{
			name: "lowercase desc",
			raw:  "desc",
			want: sorting.Desc,
		},
		{
			name: "mixed case Desc",
			raw:  "Desc",
			want: sorting.Desc,
		},
		{
			name: "empty string defaults to asc",
			raw:  "",
			want: sorting.Asc,
		},
		{
			name: "garbage defaults to asc",
			raw:  "sideways",
			want: sorting.Asc,
		},
		{
			name: "numeric defaults to asc",
			raw:  "1",
			want: sorting.Asc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorting.ParseDirection(tt.raw)
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDirection_Toggle(t *testing.T) {
	t.Parallel()

	if got := sorting.Asc.Toggle(); got != sorting.Desc {
		t.Errorf("Asc.Toggle() = %q, want %q", got, sorting.Desc)
	}
	if got := sorting.Desc.Toggle(); got != sorting.Asc {
		t.Errorf("Desc.Toggle() = %q, want %q", got, sorting.Asc)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		requestedKey string
		requestedDir string
		want         sorting.State
	}{
		{
			name:         "valid key and direction",
			requestedKey: "age",
			requestedDir: "desc",
			want:         sorting.State{Key: "age", Direction: sorting.Desc},
		},
		{
			name:         "missing key falls back to default",
			requestedKey: "",
			requestedDir: "asc",
			want:         sorting.State{Key: "name", Direction: sorting.Asc},
		},
		{
			name:         "unknown key falls back to default",
			requestedKey: "salary",
			requestedDir: "desc",
			want:         sorting.State{Key: "name", Direction: sorting.Desc},
		},
		{
			name:         "non-sortable key falls back to default",
			requestedKey: "notes",
			requestedDir: "asc",
			want:         sorting.State{Key: "name", Direction: sorting.Asc},
		},
		{
			name:         "invalid direction defaults to asc",
			requestedKey: "age",
			requestedDir: "upward",
			want:         sorting.State{Key: "age", Direction: sorting.Asc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorting.Resolve(tt.requestedKey, tt.requestedDir, testColumns(), "name")
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %+v, want %+v", tt.requestedKey, tt.requestedDir, got, tt.want)
			}
		})
	}
}

// TestResolve_ToggleSequence walks the toggle cycle a client performs by
// following the header link of the already active column twice.
func TestResolve_ToggleSequence(t *testing.T) {
	t.Parallel()

	cols := testColumns()

	first := sorting.Resolve("age", "", cols, "name")
	if first.Direction != sorting.Asc {
		t.Fatalf("first click direction = %q, want %q", first.Direction, sorting.Asc)
	}

	headers := sorting.Headers(cols, first)
	second := sorting.Resolve("age", string(headerFor(t, headers, "age").Next), cols, "name")
	if second.Direction != sorting.Desc {
		t.Fatalf("second click direction = %q, want %q", second.Direction, sorting.Desc)
	}

	headers = sorting.Headers(cols, second)
	third := sorting.Resolve("age", string(headerFor(t, headers, "age").Next), cols, "name")
	if third.Direction != sorting.Asc {
		t.Fatalf("third click direction = %q, want %q", third.Direction, sorting.Asc)
	}
}

func headerFor(t *testing.T, headers []sorting.Header, key string) sorting.Header {
	t.Helper()
	for _, h := range headers {
		if h.Key == key {
			return h
		}
	}
	t.Fatalf("no header for key %q", key)
	return sorting.Header{}
}
