package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labsmc/wikigpt/internal/rag"
)

// QueryService answers wiki questions. *rag.Pipeline satisfies it.
type QueryService interface {
	Run(ctx context.Context, question string) (rag.Answer, error)
}

// maxRequestBody caps the request body size. Questions are bounded far
// below this; anything larger is rejected before being read in full.
const maxRequestBody = 1 << 20

type queryRequest struct {
	Question string `json:"question"`
}

type contextChunk struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
}

type queryResponse struct {
	Answer  string         `json:"answer"`
	Context []contextChunk `json:"context"`
}

// handleQuery serves POST /api/v1/query.
func handleQuery(svc QueryService, maxQuestionLen int, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON object", logger)
			return
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			WriteError(w, http.StatusBadRequest, "missing_question", "question must not be empty", logger)
			return
		}
		if utf8.RuneCountInString(question) > maxQuestionLen {
			WriteError(w, http.StatusBadRequest, "question_too_long", "question exceeds the maximum length", logger)
			return
		}

		answer, err := svc.Run(r.Context(), question)
		if err != nil {
			logger.Error("query failed",
				"error", err,
				"request_id", requestIDFromContext(r.Context()),
			)
			WriteError(w, http.StatusServiceUnavailable, "unavailable", "unable to answer right now, please try again later", logger)
			return
		}

		resp := queryResponse{
			Answer:  answer.Text,
			Context: make([]contextChunk, 0, len(answer.Context)),
		}
		for _, c := range answer.Context {
			resp.Context = append(resp.Context, contextChunk{
				Title:   c.Title,
				Content: c.Content,
				Source:  string(c.Source),
				Date:    c.Date,
			})
		}

		WriteJSON(w, http.StatusOK, resp, logger)
	}
}
