// Package observability provides production-grade observability infrastructure
// including structured logging, SLO tracking, and OpenTelemetry tracing.
//
// This package centralizes observability concerns to enable:
//   - Request tracing across service boundaries
//   - Structured logging with context propagation
//   - SLO tracking for report serving
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - slo: Service level objective targets and evaluator
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "report-writer/internal/observability/logging"
//	    "report-writer/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    handler := tracing.Middleware(mux)
//	}
package observability
