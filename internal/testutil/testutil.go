// Package testutil provides shared test doubles: a deterministic fake
// embedder and generator so retrieval and pipeline tests run without an
// API key or network access.
package testutil

import (
	"context"
	"hash/fnv"
	"io"
	"log/slog"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

// Logger returns a quiet logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FakeEmbedder produces deterministic unit vectors derived from the
// text's FNV hash. Identical texts always map to identical vectors, and
// an optional Fixed map pins chosen texts to hand-built vectors so a
// test can control similarity ordering exactly.
//
// It satisfies both the retriever's query embedder and the ingest
// builder's document embedder.
type FakeEmbedder struct {
	Dimension int
	Fixed     map[string][]float32
	Err       error

	// Calls records every embedded text in order.
	Calls []string
}

func (f *FakeEmbedder) embed(text string) []float32 {
	if v, ok := f.Fixed[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		knowledge.Normalize(out)
		return out
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	v := make([]float32, f.Dimension)
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(seed>>33))/float32(1<<31) + 0.001
	}
	knowledge.Normalize(v)
	return v
}

func (f *FakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		f.Calls = append(f.Calls, t)
		out = append(out, f.embed(t))
	}
	return out, nil
}

func (f *FakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.Calls = append(f.Calls, text)
	return f.embed(text), nil
}

// FakeGenerator returns a scripted answer and records the prompts it saw.
type FakeGenerator struct {
	Answer  string
	Err     error
	Prompts []string
}

func (f *FakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Answer, nil
}
