// Package app wires the application together: configuration, Genkit,
// the knowledge snapshot, retrieval and generation.
//
// Setup builds the full answering pipeline in dependency order and
// returns an App whose Close releases everything that was initialized,
// even when Setup itself fails halfway.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/labsmc/wikigpt/internal/ai"
	"github.com/labsmc/wikigpt/internal/config"
	"github.com/labsmc/wikigpt/internal/knowledge"
	"github.com/labsmc/wikigpt/internal/observability"
	"github.com/labsmc/wikigpt/internal/rag"
)

// App is the application container.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Genkit    *genkit.Genkit
	Embedder  *ai.Embedder
	Generator *ai.Generator

	Index    *knowledge.VectorIndex
	Docs     *knowledge.DocumentStore
	Pipeline *rag.Pipeline

	otelShutdown func(context.Context) error
}

// Options control which parts of the application Setup initializes.
type Options struct {
	// LoadSnapshot loads the knowledge snapshot and builds the query
	// pipeline. Commands that only ingest do not need it.
	LoadSnapshot bool
}

// Setup initializes the application in dependency order.
func Setup(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing registers on Genkit's TracerProvider, so it must come
	// before genkit.Init.
	shutdown, err := observability.Setup(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	a.otelShutdown = shutdown

	// genkit.Init panics rather than returning an error when a plugin
	// fails to load; the missing-key case is caught earlier in cmd.
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	a.Genkit = g

	embedder, err := ai.NewEmbedder(g, cfg.EmbedderModel)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	a.Embedder = embedder

	a.Generator = ai.NewGenerator(g, cfg.ModelName)

	if opts.LoadSnapshot {
		if err := a.loadPipeline(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// loadPipeline loads the snapshot and assembles retriever and pipeline.
func (a *App) loadPipeline() error {
	ix, docs, err := knowledge.LoadSnapshot(a.Config.SnapshotPath)
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", a.Config.SnapshotPath, err)
	}
	if ix.Dimension() != a.Config.EmbedderDimension {
		return fmt.Errorf("snapshot dimension %d does not match embedder dimension %d",
			ix.Dimension(), a.Config.EmbedderDimension)
	}
	a.Index = ix
	a.Docs = docs

	a.Logger.Info("knowledge snapshot loaded",
		"path", a.Config.SnapshotPath,
		"chunks", docs.Len(),
		"dimension", ix.Dimension(),
	)

	retriever := rag.NewRetriever(a.Embedder, ix, docs, a.Config.Retrieval, a.Logger)
	a.Pipeline = rag.NewPipeline(retriever, a.Generator, a.Config.Retrieval.TopK, a.Logger)
	return nil
}

// Close flushes and releases application resources.
func (a *App) Close() error {
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Logger.Warn("shutting down tracer provider", "error", err)
		}
	}
	return nil
}
