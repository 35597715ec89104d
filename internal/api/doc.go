// Package api implements the JSON HTTP serving boundary.
//
// One operation: POST /api/v1/query answers a question from the knowledge
// base. Input validation (non-empty, length-bounded question) lives here,
// before any retrieval work; pipeline failures surface as a generic
// try-again-later response with the underlying detail logged, never exposed.
//
// The middleware stack, outermost first:
//
//	SecurityHeaders → Recovery → RequestID → Logging → CORS → RateLimit → Routes
//
// Health probes (/health, /ready) bypass everything but the security
// headers so orchestrators are not rate limited.
package api
