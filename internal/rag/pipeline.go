package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labsmc/wikigpt/internal/knowledge"
)

// ContextRetriever supplies the ranked context chunks for a question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, question string, topK int) ([]knowledge.Chunk, error)
}

// Generator synthesizes a free-text answer from a rendered prompt. Failures
// propagate to the caller; retry policy, if any, belongs to the layer above.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answer is the pipeline result: the synthesized text plus the chunks it was
// conditioned on, in retrieval order.
type Answer struct {
	Text    string
	Context []knowledge.Chunk
}

// Pipeline orchestrates embed → retrieve → generate. It adds no error
// handling of its own beyond wrapping; the serving boundary decides how
// failures surface to users.
type Pipeline struct {
	retriever ContextRetriever
	generator Generator
	topK      int
	logger    *slog.Logger
}

// NewPipeline creates a query pipeline returning topK context chunks.
func NewPipeline(retriever ContextRetriever, generator Generator, topK int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Run answers the question from the knowledge base.
func (p *Pipeline) Run(ctx context.Context, question string) (Answer, error) {
	chunks, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieving context: %w", err)
	}

	text, err := p.generator.Generate(ctx, BuildPrompt(question, chunks))
	if err != nil {
		return Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	p.logger.Debug("answered question",
		"context_chunks", len(chunks),
		"answer_length", len(text),
	)
	return Answer{Text: text, Context: chunks}, nil
}
