package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RateLimiter implements a sliding window rate limiter for HTTP requests.
// Report queries hit the database twice per page (count plus rows), so a
// burst of anonymous traffic translates directly into database load. The
// limiter keys on client IP through the IPExtractor interface, which lets
// deployments behind a reverse proxy opt into header-based extraction.
type RateLimiter struct {
	// limit is the maximum number of requests allowed per IP within the time window
	limit int

	// window is the time period for rate limiting (e.g., 1 minute)
	window time.Duration

	// ipExtractor extracts the client IP from HTTP requests
	ipExtractor IPExtractor

	// mu protects the requests map from concurrent access
	mu sync.RWMutex

	// requests stores request timestamps for each IP address
	requests map[string][]time.Time
}

// NewRateLimiter creates a new RateLimiter with the specified parameters.
//
// Example:
//
//	// Default secure configuration (no proxy trust)
//	limiter := NewRateLimiter(60, time.Minute, &RemoteAddrExtractor{})
//
//	// With trusted proxy configuration
//	proxyConfig, _ := LoadTrustedProxyConfig()
//	limiter := NewRateLimiter(60, time.Minute, NewTrustedProxyExtractor(*proxyConfig))
func NewRateLimiter(limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		requests:    make(map[string][]time.Time),
	}
}

// Middleware returns an HTTP middleware handler that enforces rate limiting.
//
// Behavior:
//   - If the IP is within the rate limit, the request proceeds to the next handler
//   - If the IP exceeds the rate limit, returns 429 Too Many Requests
//   - If IP extraction fails, logs a warning and uses RemoteAddr as fallback
//
// The sliding window algorithm removes expired timestamps before counting,
// so a client that stops sending regains its full budget after one window.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr),
			)
			ip, err = extractIPFromAddr(r.RemoteAddr)
			if err != nil {
				// If even RemoteAddr extraction fails, reject the request
				slog.Error("rate limiter: RemoteAddr extraction failed",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}

		if !rl.allow(ip) {
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window),
			)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow checks if a request from the given IP is allowed based on the rate limit.
// It implements a sliding window algorithm:
// 1. Remove timestamps older than the time window
// 2. Check if the remaining count is below the limit
// 3. If allowed, add the current timestamp
func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[ip]

	// Remove expired timestamps (sliding window)
	var validTimestamps []time.Time
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps) >= rl.limit {
		// Keep the cleaned timestamps but do not record the rejected request
		rl.requests[ip] = validTimestamps
		return false
	}

	validTimestamps = append(validTimestamps, now)
	rl.requests[ip] = validTimestamps

	return true
}

// CleanupExpired removes all expired timestamps from all IPs.
// Without periodic cleanup the requests map grows with every IP that ever
// hit the server. StartRateLimitCleanup runs this on a ticker.
func (rl *RateLimiter) CleanupExpired() {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		var validTimestamps []time.Time
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				validTimestamps = append(validTimestamps, ts)
			}
		}

		if len(validTimestamps) == 0 {
			// Remove IP entirely if no valid timestamps
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = validTimestamps
		}
	}

	slog.Debug("rate limiter: cleanup completed",
		slog.Int("active_ips", len(rl.requests)),
	)
}
