package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labsmc/wikigpt/internal/config"
	"github.com/labsmc/wikigpt/internal/knowledge"
)

// ErrInvalidTopK indicates a non-positive topK request.
var ErrInvalidTopK = errors.New("topK must be positive")

// QueryEmbedder embeds a live question for matching against stored passages.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// SearchIndex is the k-NN search contract the retriever needs from the
// vector index. Scores and rows are parallel, ordered best-first.
type SearchIndex interface {
	Search(query []float32, k int) (scores []float32, rows []int, err error)
}

// ChunkSource resolves index rows to chunks.
type ChunkSource interface {
	Get(row int) (knowledge.Chunk, error)
}

// Retriever turns a question into the top-K most relevant chunks by
// combining semantic similarity with source and recency boosts.
//
// All collaborators are explicit constructor dependencies so multiple
// independent retrievers can coexist (and tests can use fakes).
type Retriever struct {
	embedder QueryEmbedder
	index    SearchIndex
	docs     ChunkSource
	policy   config.Retrieval
	now      func() time.Time
	logger   *slog.Logger
}

// RetrieverOption configures optional retriever behavior.
type RetrieverOption func(*Retriever)

// WithClock replaces the wall clock used for recency scoring. Tests inject a
// fixed clock to make age computation deterministic.
func WithClock(now func() time.Time) RetrieverOption {
	return func(r *Retriever) {
		r.now = now
	}
}

// NewRetriever creates a retriever over the given index and document store.
func NewRetriever(embedder QueryEmbedder, index SearchIndex, docs ChunkSource,
	policy config.Retrieval, logger *slog.Logger, opts ...RetrieverOption) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Retriever{
		embedder: embedder,
		index:    index,
		docs:     docs,
		policy:   policy,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns at most topK chunks for the question, ordered by
// non-increasing adjusted score.
//
// The index is queried for topK × OverfetchMultiplier candidates so that
// re-ranking can promote items beyond the naive similarity cut-off. A small
// index simply yields fewer candidates; that is not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]knowledge.Chunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}

	vec, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	knowledge.Normalize(vec)

	scores, rows, err := r.index.Search(vec, topK*r.policy.OverfetchMultiplier)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	today := r.now()
	cands := make([]candidate, 0, len(rows))
	for i, row := range rows {
		chunk, err := r.docs.Get(row)
		if err != nil {
			// The index returned a row the store does not have: the two
			// containers are out of lockstep and nothing served from them
			// can be trusted.
			return nil, fmt.Errorf("resolving row %d: %w", row, err)
		}
		cands = append(cands, candidate{
			chunk: chunk,
			score: r.adjustScore(float64(scores[i]), chunk, today),
		})
	}

	sortCandidates(cands)

	if topK < len(cands) {
		cands = cands[:topK]
	}
	chunks := make([]knowledge.Chunk, len(cands))
	for i, c := range cands {
		chunks[i] = c.chunk
	}

	r.logger.Debug("retrieved context",
		"candidates", len(rows),
		"returned", len(chunks),
	)
	return chunks, nil
}
