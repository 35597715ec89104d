package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(1, 2)

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("burst of 2 should allow the first two requests")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third immediate request should be rejected")
	}

	// A different client has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("separate client should not share the exhausted bucket")
	}
}

func TestRateLimiter_StaleCleanup(t *testing.T) {
	rl := newRateLimiter(1, 1)

	rl.allow("10.0.0.1")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-visitorTTL - time.Minute)
	rl.lastCleanup = time.Now().Add(-cleanupInterval - time.Second)

	rl.allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("stale visitor survived cleanup")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor was cleaned up")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		trustProxy bool
		want       string
	}{
		{"direct", "203.0.113.7:52100", "", false, "203.0.113.7"},
		{"xff ignored without proxy trust", "203.0.113.7:52100", "198.51.100.1", false, "203.0.113.7"},
		{"xff honoured behind proxy", "127.0.0.1:9000", "198.51.100.1", true, "198.51.100.1"},
		{"xff first hop wins", "127.0.0.1:9000", "198.51.100.1, 10.0.0.1", true, "198.51.100.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
