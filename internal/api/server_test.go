package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labsmc/wikigpt/internal/config"
	"github.com/labsmc/wikigpt/internal/knowledge"
	"github.com/labsmc/wikigpt/internal/log"
	"github.com/labsmc/wikigpt/internal/rag"
)

type fakeQuery struct {
	answer rag.Answer
	err    error
	gotQ   string
}

func (f *fakeQuery) Run(_ context.Context, question string) (rag.Answer, error) {
	f.gotQ = question
	if f.err != nil {
		return rag.Answer{}, f.err
	}
	return f.answer, nil
}

type fakeReady int

func (f fakeReady) Len() int { return int(f) }

func testConfig() config.Config {
	return config.Config{
		MaxQuestionLen: 100,
		Server: config.Server{
			RateBurst: 1000, // headroom so only the rate limit test trips it
		},
	}
}

func postQuery(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestQuery_Success(t *testing.T) {
	svc := &fakeQuery{answer: rag.Answer{
		Text: "Collect tokens to rank up.",
		Context: []knowledge.Chunk{
			{Title: "Rank-up FAQ", Content: "Collect tokens.", Source: knowledge.SourceHelpQA, Date: "2026-06-01"},
			{Title: "Ranks", Content: "rank-up happens at spawn", Source: knowledge.SourceWiki},
		},
	}}
	handler := NewServer(testConfig(), Deps{Query: svc, Ready: fakeReady(1), Logger: log.NewNop()})

	rec := postQuery(t, handler, `{"question": "how do I rank up?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.gotQ != "how do I rank up?" {
		t.Errorf("pipeline received question %q", svc.gotQ)
	}

	var resp struct {
		Answer  string `json:"answer"`
		Context []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Source  string `json:"source"`
			Date    string `json:"date"`
		} `json:"context"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Answer != "Collect tokens to rank up." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Context) != 2 {
		t.Fatalf("context = %+v, want 2 chunks", resp.Context)
	}
	first := resp.Context[0]
	if first.Title != "Rank-up FAQ" || first.Content != "Collect tokens." ||
		first.Source != "helpqa" || first.Date != "2026-06-01" {
		t.Errorf("context[0] = %+v", first)
	}
	if resp.Context[1].Content != "rank-up happens at spawn" {
		t.Errorf("context[1] = %+v, want the chunk text carried through", resp.Context[1])
	}

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestQuery_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"invalid JSON", `{"question": `, "invalid_request"},
		{"empty question", `{"question": ""}`, "missing_question"},
		{"whitespace question", `{"question": "   "}`, "missing_question"},
		{"too long", `{"question": "` + strings.Repeat("x", 101) + `"}`, "question_too_long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})
			rec := postQuery(t, handler, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error, tt.wantCode)
			}
		})
	}
}

func TestQuery_QuestionLengthCountsRunes(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	// 100 multi-byte runes exceed 100 bytes but stay within the limit.
	rec := postQuery(t, handler, `{"question": "`+strings.Repeat("礦", 100)+`"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d for 100-rune question, want 200", rec.Code)
	}
}

func TestQuery_PipelineFailure(t *testing.T) {
	svc := &fakeQuery{err: errors.New("model overloaded: internal details")}
	handler := NewServer(testConfig(), Deps{Query: svc, Ready: fakeReady(1), Logger: log.NewNop()})

	rec := postQuery(t, handler, `{"question": "anything"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "internal details") {
		t.Errorf("response leaks internal error: %s", rec.Body.String())
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error != "unavailable" {
		t.Errorf("error code = %q, want unavailable", body.Error)
	}
}

func TestQuery_MethodNotAllowed(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestQuery_OversizedBody(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	body := `{"question": "` + strings.Repeat("x", maxRequestBody+1) + `"}`
	rec := postQuery(t, handler, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for oversized body, want 400", rec.Code)
	}
	var eb errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &eb); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if eb.Error != "invalid_request" {
		t.Errorf("error code = %q, want invalid_request", eb.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(3), Logger: log.NewNop()})

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("GET %s X-Content-Type-Options = %q, want nosniff", path, got)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	rec := postQuery(t, handler, `{"question": "q"}`)

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestReady_EmptyKnowledgeBase(t *testing.T) {
	handler := NewServer(testConfig(), Deps{Query: &fakeQuery{}, Ready: fakeReady(0), Logger: log.NewNop()})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d with empty store, want 503", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://labs-mc.com"}
	handler := NewServer(cfg, Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	req.Header.Set("Origin", "https://labs-mc.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://labs-mc.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	// Unknown origins get no CORS headers.
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want empty", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateBurst = 2
	handler := NewServer(cfg, Deps{Query: &fakeQuery{}, Ready: fakeReady(1), Logger: log.NewNop()})

	var last *httptest.ResponseRecorder
	for range 3 {
		last = postQuery(t, handler, `{"question": "q"}`)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After")
	}
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := recoveryMiddleware(log.NewNop())(panicking)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status after panic = %d, want 500", rec.Code)
	}
}
