package ai

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// Embedding task types understood by the Gemini embedding models. Documents
// are embedded for being searched against; queries for searching.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Embedder maps text to fixed-length dense vectors via a Genkit embedder.
type Embedder struct {
	embedder ai.Embedder
}

// NewEmbedder creates an embedder for the given Gemini embedding model.
func NewEmbedder(g *genkit.Genkit, model string) (*Embedder, error) {
	embedder := googlegenai.GoogleAIEmbedder(g, model)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", model)
	}
	return &Embedder{embedder: embedder}, nil
}

// EmbedDocuments embeds a batch of passages in one round trip, returning one
// vector per input in input order. Used by the offline ingestion job.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	docs := make([]*ai.Document, len(texts))
	for i, t := range texts {
		docs[i] = ai.DocumentFromText(t, nil)
	}

	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   docs,
		Options: &googlegenai.EmbedOptions{TaskType: taskDocument},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d documents: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors",
			len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding returned for document %d", i)
		}
		vectors[i] = emb.Embedding
	}
	return vectors, nil
}

// EmbedQuery embeds a single live question with the query task type.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &googlegenai.EmbedOptions{TaskType: taskQuery},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned for query")
	}
	return resp.Embeddings[0].Embedding, nil
}
