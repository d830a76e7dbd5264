// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware extracts W3C Trace Context from incoming requests,
// opens a server span per request, and echoes the trace ID back to the
// client via the X-Trace-Id response header so a failing report request
// can be correlated with its spans and log entries.
//
// Example usage:
//
//	import "report-writer/internal/observability/tracing"
//
//	mux := http.NewServeMux()
//	mux.Handle("/reports", reportHandler)
//	http.ListenAndServe(":8080", tracing.Middleware(mux))
//
//	func fetchPage(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "report.fetch_page")
//	    defer span.End()
//	    // ... query the database ...
//	}
package tracing
