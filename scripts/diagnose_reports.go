package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"report-writer/internal/common/pagination"
	"report-writer/internal/common/sorting"
	reportcfg "report-writer/internal/config"
	domain "report-writer/internal/domain/report"
	"report-writer/internal/infra/adapter/persistence/sqlite"
	"report-writer/internal/infra/db"
	"report-writer/internal/planner"
)

// slowProbeThreshold marks a sort probe as slow. A first page that takes
// longer than this on an idle database usually means the order expression
// has no index backing it.
const slowProbeThreshold = 250 * time.Millisecond

// ReportDiagnostic represents the diagnostic result for a single report
type ReportDiagnostic struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	Status       string      `json:"status"` // "OK", "SLOW", "EMPTY", "COUNT_ERROR", "QUERY_ERROR"
	RowCount     int64       `json:"row_count"`
	PageCount    int         `json:"page_count"`
	ColumnCount  int         `json:"column_count"`
	CountTimeMs  int64       `json:"count_time_ms"`
	ErrorMessage string      `json:"error_message,omitempty"`
	SortProbes   []SortProbe `json:"sort_probes,omitempty"`
}

// SortProbe records one first-page query probed with a specific sort key
type SortProbe struct {
	Key          string `json:"key"`
	Order        string `json:"order"`
	TimeMs       int64  `json:"time_ms"`
	Slow         bool   `json:"slow"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func main() {
	catalogPath := os.Getenv("REPORTS_CONFIG")
	if catalogPath == "" {
		catalogPath = "reports.yaml"
		log.Println("REPORTS_CONFIG not set, using default reports.yaml")
	}

	defs, err := reportcfg.LoadCatalog(catalogPath, reportcfg.CatalogDefaults{
		PageSize:   pagination.DefaultConfig().DefaultPageSize,
		WindowSize: pagination.DefaultConfig().DefaultWindowSize,
	})
	if err != nil {
		log.Fatalf("Failed to load report catalog: %v", err)
	}

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	log.Printf("Diagnosing %d reports...\n", len(defs))

	diagnostics := make([]ReportDiagnostic, 0, len(defs))
	for i, def := range defs {
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(defs), def.Name)
		diagnostics = append(diagnostics, diagnoseReport(def, database, 30*time.Second))
	}

	generateReport(diagnostics)
	generateJSONReport(diagnostics)
	generateIndexSuggestions(diagnostics, defs)
}

// diagnoseReport counts the report's rows and then probes the first page
// under every sortable column, timing each query through the same planner
// and repository the server uses.
func diagnoseReport(def domain.Definition, database *sql.DB, timeout time.Duration) ReportDiagnostic {
	diag := ReportDiagnostic{
		Name:        def.Name,
		Title:       def.Title,
		ColumnCount: len(def.Columns),
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repo := sqlite.NewReportRepo(database, def)

	countStart := time.Now()
	total, err := repo.CountRows(ctx)
	diag.CountTimeMs = time.Since(countStart).Milliseconds()
	if err != nil {
		diag.Status = "COUNT_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.RowCount = total
	diag.PageCount = pagination.CalculatePageCount(total, def.PageSize)

	page := pagination.NewPageState("1", def.PageSize, def.WindowSize)
	slow := false
	for _, col := range def.Columns {
		if !col.Sortable {
			continue
		}

		probe := SortProbe{Key: col.Key, Order: col.Order}
		plan, err := planner.Build(sorting.State{Key: col.Key, Direction: sorting.Asc}, page, def.Columns)
		if err != nil {
			probe.ErrorMessage = err.Error()
			diag.SortProbes = append(diag.SortProbes, probe)
			diag.Status = "QUERY_ERROR"
			diag.ErrorMessage = fmt.Sprintf("sort %s: %v", col.Key, err)
			continue
		}

		probeStart := time.Now()
		_, _, err = repo.FetchPage(ctx, plan)
		probe.TimeMs = time.Since(probeStart).Milliseconds()
		if err != nil {
			probe.ErrorMessage = err.Error()
			diag.SortProbes = append(diag.SortProbes, probe)
			diag.Status = "QUERY_ERROR"
			diag.ErrorMessage = fmt.Sprintf("sort %s: %v", col.Key, err)
			continue
		}

		probe.Slow = time.Duration(probe.TimeMs)*time.Millisecond > slowProbeThreshold
		if probe.Slow {
			slow = true
		}
		diag.SortProbes = append(diag.SortProbes, probe)
	}

	if diag.Status == "QUERY_ERROR" {
		return diag
	}

	switch {
	case total == 0:
		diag.Status = "EMPTY"
		diag.ErrorMessage = "Report has no rows"
	case slow:
		diag.Status = "SLOW"
	default:
		diag.Status = "OK"
	}
	return diag
}

// writef is a helper to write to file and handle errors
func writef(f *os.File, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(f, format, args...)
	return err
}

func generateReport(diagnostics []ReportDiagnostic) {
	f, err := os.Create("report_diagnostics.txt")
	if err != nil {
		log.Printf("Failed to create report file: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close report file: %v", err)
		}
	}()

	// Helper to handle write errors
	writeErr := func(err error) bool {
		if err != nil {
			log.Printf("Failed to write to report: %v", err)
			return true
		}
		return false
	}

	if writeErr(writef(f, "===============================================\n")) {
		return
	}
	if writeErr(writef(f, "Report Catalog Diagnostics\n")) {
		return
	}
	if writeErr(writef(f, "Generated: %s\n", time.Now().Format(time.RFC3339))) {
		return
	}
	if writeErr(writef(f, "Total Reports: %d\n", len(diagnostics))) {
		return
	}
	if writeErr(writef(f, "===============================================\n\n")) {
		return
	}

	statusCount := make(map[string]int)
	var okCount, errorCount int
	for _, d := range diagnostics {
		statusCount[d.Status]++
		if d.Status == "OK" || d.Status == "SLOW" || d.Status == "EMPTY" {
			okCount++
		} else {
			errorCount++
		}
	}

	_ = writef(f, "SUMMARY:\n")
	_ = writef(f, "  ✅ Serving: %d (%.1f%%)\n", okCount, float64(okCount)/float64(len(diagnostics))*100)
	_ = writef(f, "  ❌ Broken: %d (%.1f%%)\n", errorCount, float64(errorCount)/float64(len(diagnostics))*100)
	_ = writef(f, "\nSTATUS BREAKDOWN:\n")
	for status, count := range statusCount {
		_ = writef(f, "  %s: %d\n", status, count)
	}
	_ = writef(f, "\n")

	_ = writef(f, "DETAILED RESULTS:\n")
	_ = writef(f, "===============================================\n\n")

	for _, d := range diagnostics {
		_ = writef(f, "Report: %s (%s)\n", d.Name, d.Title)
		_ = writef(f, "  Status: %s | Rows: %d | Pages: %d | Columns: %d\n",
			d.Status, d.RowCount, d.PageCount, d.ColumnCount)
		_ = writef(f, "  Count query: %dms\n", d.CountTimeMs)
		if d.ErrorMessage != "" {
			_ = writef(f, "  Error: %s\n", d.ErrorMessage)
		}
		for _, p := range d.SortProbes {
			marker := " "
			if p.Slow {
				marker = "⚠️ "
			}
			if p.ErrorMessage != "" {
				_ = writef(f, "  ❌ sort %-16s %s\n", p.Key+":", p.ErrorMessage)
				continue
			}
			_ = writef(f, "  %ssort %-16s %dms (ORDER BY %s)\n", marker, p.Key+":", p.TimeMs, p.Order)
		}
		_ = writef(f, "\n")
	}

	log.Println("✅ Text report generated: report_diagnostics.txt")
}

func generateJSONReport(diagnostics []ReportDiagnostic) {
	f, err := os.Create("report_diagnostics.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}

	log.Println("✅ JSON report generated: report_diagnostics.json")
}

// bareIdentifier matches order expressions that are plain column names, the
// only case where an index suggestion is mechanical.
var bareIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// generateIndexSuggestions emits CREATE INDEX statements for slow sort
// probes whose order expression is a bare column on a single-table source.
func generateIndexSuggestions(diagnostics []ReportDiagnostic, defs []domain.Definition) {
	sources := make(map[string]string, len(defs))
	for _, def := range defs {
		sources[def.Name] = def.Source
	}

	f, err := os.Create("index_suggestions.sql")
	if err != nil {
		log.Printf("Failed to create index suggestions file: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close index suggestions file: %v", err)
		}
	}()

	_ = writef(f, "-- Index suggestions for slow report sorts\n")
	_ = writef(f, "-- Generated: %s\n\n", time.Now().Format(time.RFC3339))

	suggested := 0
	for _, d := range diagnostics {
		table := singleTable(sources[d.Name])
		if table == "" {
			continue
		}
		for _, p := range d.SortProbes {
			if !p.Slow || !bareIdentifier.MatchString(p.Order) {
				continue
			}
			_ = writef(f, "CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s); -- %s sort took %dms\n",
				table, p.Order, table, p.Order, d.Name, p.TimeMs)
			suggested++
		}
	}

	if suggested == 0 {
		_ = writef(f, "-- No slow bare-column sorts found.\n")
	}

	log.Println("✅ Index suggestions generated: index_suggestions.sql")
}

// singleTable extracts the table name from a source clause of the shape
// "FROM <table> [WHERE ...]". Joined or subquery sources return "".
func singleTable(source string) string {
	if strings.Contains(strings.ToUpper(source), " JOIN ") {
		return ""
	}
	fields := strings.Fields(source)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "FROM") {
		return ""
	}
	if !bareIdentifier.MatchString(fields[1]) {
		return ""
	}
	return fields[1]
}
