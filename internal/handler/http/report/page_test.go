package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "report-writer/internal/domain/report"
	handler "report-writer/internal/handler/http/report"
	"report-writer/internal/planner"
	"report-writer/internal/repository"
	repUC "report-writer/internal/usecase/report"
)

/* ───────── stub implementation ───────── */

// stubRepo serves pages from a result set whose size can change between
// rounds: totals[n] is the row count observed by the n-th FetchPage call.
// Rows are derived from the plan's LIMIT clause so the handler sees exactly
// the slice a real adapter would return.
type stubRepo struct {
	totals []int64
	calls  int
	err    error
}

func (s *stubRepo) FetchPage(_ context.Context, plan planner.Plan) ([]repository.Row, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}

	total := s.totals[s.calls]
	if s.calls < len(s.totals)-1 {
		s.calls++
	}

	var offset, count int
	if _, err := fmt.Sscanf(plan.Limit, "LIMIT %d, %d", &offset, &count); err != nil {
		return nil, 0, fmt.Errorf("unparseable limit clause %q: %w", plan.Limit, err)
	}

	rows := []repository.Row{}
	for i := offset; i < offset+count && int64(i) < total; i++ {
		rows = append(rows, repository.Row{fmt.Sprintf("name-%d", i), "Engineering"})
	}
	return rows, total, nil
}

// employeesDef has one sortable and one non-sortable column so both header
// renderings are exercised.
func employeesDef() domain.Definition {
	return domain.Definition{
		Name:   "employees",
		Source: "FROM employees",
		Columns: []domain.Column{
			domain.NewColumn("name"),
			{Key: "department"},
		},
		DefaultSort: "name",
		PageSize:    10,
		WindowSize:  5,
	}.Normalized()
}

func newCatalog(totals ...int64) *handler.Catalog {
	svc := &repUC.Service{Def: employeesDef(), Repo: &stubRepo{totals: totals}}
	return handler.NewCatalog(svc)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

/* ───────── tests ───────── */

func TestPageHandler_HTML(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/employees?page=2", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"<title>Employees</title>",
		"25 rows &middot; page 2 of 3",
		"<td>name-10</td>",
		"<td>name-19</td>",
		"<td>Engineering</td>",
		// Active sort column: ascending marker, link toggles to descending,
		// link stays on the current page.
		`<a href="/reports/employees?dir=desc&amp;page=2&amp;sort=name">Name</a> ▲`,
		// Non-sortable column renders as plain text.
		"<th>Department</th>",
		`<span class="current">2</span>`,
		`<a href="/reports/employees?dir=asc&amp;page=1&amp;sort=name">1</a>`,
		`<a href="/reports/employees?dir=asc&amp;page=3&amp;sort=name">3</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}

	if strings.Contains(body, "<td>name-20</td>") {
		t.Error("body contains rows past the requested page")
	}
}

func TestPageHandler_HTML_FirstPage(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/employees", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := rr.Body.String()

	// On page 1 the backward targets are inert text, the forward ones links.
	for _, want := range []string{
		`<span class="off">&laquo; first</span>`,
		`<span class="off">&lsaquo; prev</span>`,
		`<a href="/reports/employees?dir=asc&amp;page=2&amp;sort=name">next &rsaquo;</a>`,
		`<a href="/reports/employees?dir=asc&amp;page=3&amp;sort=name">last &raquo;</a>`,
		"<td>name-0</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestPageHandler_HTML_EmptyResultSet(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(0), Logger: testLogger()}

	// Any requested index is fine against an empty result set.
	req := httptest.NewRequest(http.MethodGet, "/reports/employees?page=5", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "No records found.") {
		t.Error("body does not contain the empty-result message")
	}
	if strings.Contains(body, "<table>") {
		t.Error("empty result set should not render a table")
	}
	if strings.Contains(body, "class=\"pager\"") {
		t.Error("empty result set should not render a page bar")
	}
}

func TestPageHandler_JSON(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	// The requested sort key is not sortable, so the default applies while
	// the requested direction sticks.
	req := httptest.NewRequest(http.MethodGet, "/reports/employees?format=json&sort=department&dir=desc", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var dto handler.DTO
	if err := json.NewDecoder(rr.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if dto.Report != "employees" {
		t.Errorf("Report = %q, want employees", dto.Report)
	}
	if dto.Title != "Employees" {
		t.Errorf("Title = %q, want Employees", dto.Title)
	}
	if dto.Sort.Key != "name" || dto.Sort.Direction != "desc" {
		t.Errorf("Sort = %+v, want name/desc", dto.Sort)
	}

	if len(dto.Data) != 10 {
		t.Fatalf("len(Data) = %d, want 10", len(dto.Data))
	}
	if dto.Data[0][0] != "name-0" {
		t.Errorf("Data[0][0] = %q, want name-0", dto.Data[0][0])
	}

	if dto.Pagination.Total != 25 {
		t.Errorf("Pagination.Total = %d, want 25", dto.Pagination.Total)
	}
	if dto.Pagination.Page != 1 {
		t.Errorf("Pagination.Page = %d, want 1", dto.Pagination.Page)
	}
	if dto.Pagination.PageSize != 10 {
		t.Errorf("Pagination.PageSize = %d, want 10", dto.Pagination.PageSize)
	}
	if dto.Pagination.TotalPages != 3 {
		t.Errorf("Pagination.TotalPages = %d, want 3", dto.Pagination.TotalPages)
	}

	if len(dto.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(dto.Columns))
	}
	if !dto.Columns[0].Active || dto.Columns[0].NextDir != "asc" {
		t.Errorf("Columns[0] = %+v, want active with next_dir asc", dto.Columns[0])
	}
	if dto.Columns[1].Sortable {
		t.Errorf("Columns[1] = %+v, want non-sortable", dto.Columns[1])
	}

	if dto.Links.Self != "/reports/employees?format=json&sort=department&dir=desc" {
		t.Errorf("Links.Self = %q", dto.Links.Self)
	}
	if dto.Links.Prev != "" {
		t.Errorf("Links.Prev = %q, want empty on page 1", dto.Links.Prev)
	}
	if dto.Links.Next != "/reports/employees?dir=desc&page=2&sort=name" {
		t.Errorf("Links.Next = %q", dto.Links.Next)
	}
	if dto.Links.Last != "/reports/employees?dir=desc&page=3&sort=name" {
		t.Errorf("Links.Last = %q", dto.Links.Last)
	}
}

func TestPageHandler_JSON_OverrunCorrected(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/employees?page=9&format=json", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var dto handler.DTO
	if err := json.NewDecoder(rr.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Page 9 does not exist; the served page is the last one.
	if dto.Pagination.Page != 3 {
		t.Errorf("Pagination.Page = %d, want corrected 3", dto.Pagination.Page)
	}
	if len(dto.Data) != 5 {
		t.Errorf("len(Data) = %d, want 5", len(dto.Data))
	}
	if dto.Data[0][0] != "name-20" {
		t.Errorf("Data[0][0] = %q, want name-20", dto.Data[0][0])
	}
}

func TestPageHandler_OverrunExhausted(t *testing.T) {
	// Each observed total invalidates the index corrected against the
	// previous one, so recovery gives up after the third round.
	h := handler.PageHandler{Reports: newCatalog(50, 31, 21), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/employees?page=9", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusConflict)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "page overrun recovery exhausted" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestPageHandler_UnknownReport(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/payroll", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(body["error"], "not found") {
		t.Errorf("error = %q, want not found message", body["error"])
	}
}

func TestPageHandler_InvalidName(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	tests := []struct {
		name   string
		target string
	}{
		{"uppercase", "/reports/Employees"},
		{"subpath", "/reports/employees/export"},
		{"empty", "/reports/"},
		{"leading hyphen", "/reports/-staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusNotFound {
				t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
			}

			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["error"] != "invalid report name" {
				t.Errorf("error = %q, want invalid report name", body["error"])
			}
		})
	}
}

func TestPageHandler_RepoError(t *testing.T) {
	svc := &repUC.Service{
		Def:  employeesDef(),
		Repo: &stubRepo{err: errors.New("connection reset")},
	}
	h := handler.PageHandler{Reports: handler.NewCatalog(svc), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/reports/employees", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	// Infrastructure detail must not leak to the client.
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, want masked message", body["error"])
	}
}

func TestPageHandler_MalformedPagingParams(t *testing.T) {
	h := handler.PageHandler{Reports: newCatalog(25), Logger: testLogger()}

	// Garbage paging input normalizes instead of failing.
	req := httptest.NewRequest(http.MethodGet, "/reports/employees?page=banana&sort=salary&dir=upwards&format=json", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var dto handler.DTO
	if err := json.NewDecoder(rr.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.Pagination.Page != 1 {
		t.Errorf("Pagination.Page = %d, want 1", dto.Pagination.Page)
	}
	if dto.Sort.Key != "name" || dto.Sort.Direction != "asc" {
		t.Errorf("Sort = %+v, want name/asc", dto.Sort)
	}
}
