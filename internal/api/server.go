package api

import (
	"log/slog"
	"net/http"

	"github.com/labsmc/wikigpt/internal/config"
)

// Per-IP rate limiting defaults. The burst size is configurable, the
// sustained rate is not.
const (
	defaultRatePerSecond = 2.0
	defaultRateBurst     = 60
)

// Deps carries the collaborators the HTTP server needs.
type Deps struct {
	Query  QueryService
	Ready  Readiness
	Logger *slog.Logger
}

// NewServer assembles the HTTP handler with the full middleware stack.
// Health probes are mounted outside the stack so orchestrators are not
// rate limited or logged per poll.
func NewServer(cfg config.Config, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := http.NewServeMux()
	api.Handle("POST /api/v1/query", handleQuery(deps.Query, cfg.MaxQuestionLen, logger))

	burst := cfg.Server.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}
	rl := newRateLimiter(defaultRatePerSecond, burst)

	var handler http.Handler = api
	handler = rateLimitMiddleware(rl, cfg.Server.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.Server.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	root := http.NewServeMux()
	root.Handle("GET /health", handleHealth(logger))
	root.Handle("GET /ready", handleReady(deps.Ready, logger))
	root.Handle("/", handler)

	return securityHeadersMiddleware()(root)
}
