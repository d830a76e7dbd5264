package http

import (
	"context"
	"testing"
	"time"

	"report-writer/internal/handler/http/middleware"
)

func TestStartRateLimitCleanup_StopsOnCancel(t *testing.T) {
	limiter := middleware.NewRateLimiter(10, 50*time.Millisecond, &middleware.RemoteAddrExtractor{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartRateLimitCleanup(ctx, limiter, 10*time.Millisecond)
		close(done)
	}()

	// Let at least one tick fire before cancelling
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop after context cancellation")
	}
}

func TestLoadCleanupConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     time.Duration
	}{
		{
			name:     "default when unset",
			envValue: "",
			want:     DefaultCleanupInterval,
		},
		{
			name:     "custom interval",
			envValue: "10m",
			want:     10 * time.Minute,
		},
		{
			name:     "invalid value falls back to default",
			envValue: "not-a-duration",
			want:     DefaultCleanupInterval,
		},
		{
			name:     "interval below range falls back to default",
			envValue: "1s",
			want:     DefaultCleanupInterval,
		},
		{
			name:     "interval above range falls back to default",
			envValue: "24h",
			want:     DefaultCleanupInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RATELIMIT_CLEANUP_INTERVAL", tt.envValue)

			cfg := LoadCleanupConfigFromEnv()
			if cfg.Interval != tt.want {
				t.Errorf("Interval = %v, want %v", cfg.Interval, tt.want)
			}
		})
	}
}
