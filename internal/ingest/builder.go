package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labsmc/wikigpt/internal/knowledge"
	"github.com/labsmc/wikigpt/internal/wiki"
)

// PageSource paginates and fetches wiki pages as plain text.
type PageSource interface {
	ListPages(ctx context.Context, after string, limit int) (titles []string, next string, err error)
	PageText(ctx context.Context, title string) (string, error)
}

// DocumentEmbedder embeds passage batches with the document task type.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds the ingestion parameters.
type Config struct {
	// Dimension is the embedding vector dimension of the new index.
	Dimension int
	// BatchSize is the page-title pagination size per wiki API call.
	BatchSize int
	// ChunkWords / ChunkOverlap control the word-window chunker.
	// Zero values take the package defaults.
	ChunkWords   int
	ChunkOverlap int
}

// Result summarizes one ingestion run.
type Result struct {
	Pages       int
	PagesFailed int
	Chunks      int
	FAQEntries  int
	Duration    time.Duration
}

// Builder constructs a fresh index and document store from the wiki source
// and an optional FAQ feed. One Builder run produces one snapshot; there is
// no incremental update path, the index is rebuilt wholesale.
type Builder struct {
	source   PageSource
	embedder DocumentEmbedder
	cfg      Config
	logger   *slog.Logger
}

// NewBuilder creates an ingestion builder.
func NewBuilder(source PageSource, embedder DocumentEmbedder, cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkWords <= 0 {
		cfg.ChunkWords = DefaultChunkWords
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Builder{
		source:   source,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Build crawls every wiki page, chunks and embeds the text, and appends the
// FAQ entries, returning the aligned index and document store.
//
// A page that fails to fetch or extract is logged and skipped; losing one
// page should not lose the run. Embedding failures do abort: a partially
// embedded index would serve silently degraded results forever.
func (b *Builder) Build(ctx context.Context, faq []wiki.FAQEntry) (*knowledge.VectorIndex, *knowledge.DocumentStore, *Result, error) {
	start := time.Now()
	result := &Result{}

	ix, err := knowledge.NewVectorIndex(b.cfg.Dimension)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating index: %w", err)
	}
	docs := knowledge.NewDocumentStore()

	after := ""
	for {
		titles, next, err := b.source.ListPages(ctx, after, b.cfg.BatchSize)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("listing pages: %w", err)
		}
		if len(titles) == 0 {
			break
		}

		var chunks []knowledge.Chunk
		for _, title := range titles {
			text, err := b.source.PageText(ctx, title)
			if err != nil {
				b.logger.Warn("skipping page", "title", title, "error", err)
				result.PagesFailed++
				continue
			}
			for _, window := range ChunkWords(text, b.cfg.ChunkWords, b.cfg.ChunkOverlap) {
				chunks = append(chunks, knowledge.Chunk{
					Title:   title,
					Content: window,
					Source:  knowledge.SourceWiki,
				})
			}
			result.Pages++
		}

		if err := b.addBatch(ctx, ix, docs, chunks); err != nil {
			return nil, nil, nil, err
		}
		b.logger.Info("processed page batch",
			"pages", len(titles),
			"indexed_chunks", docs.Len(),
		)

		if next == "" {
			break
		}
		after = next
	}

	faqChunks := make([]knowledge.Chunk, 0, len(faq))
	for _, entry := range faq {
		faqChunks = append(faqChunks, entry.Chunk())
	}
	if err := b.addBatch(ctx, ix, docs, faqChunks); err != nil {
		return nil, nil, nil, err
	}
	result.FAQEntries = len(faqChunks)

	result.Chunks = docs.Len()
	result.Duration = time.Since(start)
	return ix, docs, result, nil
}

// addBatch embeds a chunk batch and grows index and store in lockstep. The
// two appends sit next to each other on purpose: nothing may run between
// them that could fail one side only.
func (b *Builder) addBatch(ctx context.Context, ix *knowledge.VectorIndex, docs *knowledge.DocumentStore, chunks []knowledge.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := b.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	for _, v := range vectors {
		knowledge.Normalize(v)
	}

	if err := ix.Add(vectors); err != nil {
		return fmt.Errorf("indexing chunk batch: %w", err)
	}
	docs.Append(chunks...)
	return nil
}
