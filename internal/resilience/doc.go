// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes implementations of circuit breakers and retry logic to keep report
// serving degradation graceful when the backing database misbehaves.
//
// The package supports:
//   - Circuit breakers around the report database query path
//   - Retry logic with exponential backoff and jitter for transient query failures
//
// Usage Example:
//
//	dcb := circuitbreaker.NewDBCircuitBreaker(db)
//	rows, err := dcb.QueryContext(ctx, "SELECT name FROM employees LIMIT 0, 25")
//
//	retryConfig := retry.DBConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return refreshRowCount()
//	})
package resilience
