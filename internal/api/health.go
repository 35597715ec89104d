package api

import (
	"log/slog"
	"net/http"
)

// Readiness reports whether the answering pipeline can serve traffic.
// It is satisfied by the document store: a store with zero chunks means
// no snapshot was loaded.
type Readiness interface {
	Len() int
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleHealth serves the liveness probe.
func handleHealth(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"}, logger)
	}
}

// handleReady serves the readiness probe. A load balancer should only
// route queries once the knowledge base is populated.
func handleReady(ready Readiness, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready == nil || ready.Len() == 0 {
			WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"}, logger)
			return
		}
		WriteJSON(w, http.StatusOK, healthResponse{Status: "ready"}, logger)
	}
}
