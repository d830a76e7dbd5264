package auth

import "strings"

// PublicEndpoints defines endpoints that don't require authentication.
//
// - /healthz, /readyz, /livez: orchestration probes (Kubernetes, monitoring)
// - /metrics: Prometheus scraping
//
// Report pages are deliberately absent: when auth is enabled, every
// report requires a token.
var PublicEndpoints = []string{
	"/healthz",
	"/readyz",
	"/livez",
	"/metrics",
}

// IsPublicEndpoint checks if a given path is a public endpoint.
//
// Matching logic:
// - Endpoints ending with '/' use prefix matching
// - Endpoints without '/' require an exact match, a trailing slash, or
//   query params only, so /healthz matches /healthz?x=1 but /healthzz
//   and /healthz/detail do not
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}

		if path == endpoint {
			return true
		}
		if path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
