package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/labsmc/wikigpt/internal/app"
	"github.com/labsmc/wikigpt/internal/config"
	"github.com/labsmc/wikigpt/internal/ingest"
	"github.com/labsmc/wikigpt/internal/knowledge"
	"github.com/labsmc/wikigpt/internal/wiki"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Crawl the wiki and rebuild the knowledge snapshot",
	Long: `Fetches every wiki page, splits the text into overlapping chunks,
embeds them together with the FAQ entries, and writes the result as a
snapshot file. Serving processes pick the new snapshot up on restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest() error {
	if err := checkRequiredEnv(); err != nil {
		return err
	}

	logger := newLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, *cfg, logger, app.Options{})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	client, err := wiki.NewClient(cfg.Wiki, logger)
	if err != nil {
		return fmt.Errorf("creating wiki client: %w", err)
	}

	var faq []wiki.FAQEntry
	if cfg.FAQPath != "" {
		faq, err = wiki.LoadFAQ(cfg.FAQPath)
		if err != nil {
			return fmt.Errorf("loading FAQ %s: %w", cfg.FAQPath, err)
		}
		logger.Info("FAQ loaded", "path", cfg.FAQPath, "entries", len(faq))
	}

	builder := ingest.NewBuilder(client, a.Embedder, ingest.Config{
		Dimension: cfg.EmbedderDimension,
		BatchSize: cfg.Wiki.BatchSize,
	}, logger)

	ix, docs, result, err := builder.Build(ctx, faq)
	if err != nil {
		return fmt.Errorf("building knowledge base: %w", err)
	}

	if err := knowledge.SaveSnapshot(cfg.SnapshotPath, ix, docs); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", cfg.SnapshotPath, err)
	}

	logger.Info("snapshot written",
		"path", cfg.SnapshotPath,
		"pages", result.Pages,
		"pages_failed", result.PagesFailed,
		"chunks", result.Chunks,
		"faq_entries", result.FAQEntries,
		"duration", result.Duration,
	)
	return nil
}
