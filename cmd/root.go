// Package cmd defines the wikigpt command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labsmc/wikigpt/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "wikigpt",
	Short: "Question answering for the MCLabs wiki",
	Long: `wikigpt answers questions about the MCLabs Minecraft server using
retrieval-augmented generation over the wiki.

Run "wikigpt ingest" to build the knowledge snapshot, then "wikigpt serve"
to expose the HTTP API, or "wikigpt ask" for a one-off question.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// checkRequiredEnv fails fast when the Gemini API key is missing. The key
// is read by the Genkit googlegenai plugin, not by our config layer, so
// without this check a missing key only surfaces on the first model call.
func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "wikigpt needs a Gemini API key for embeddings and answer generation.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")
		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}

// newLogger builds the process logger from environment variables so
// every subcommand logs the same way without repeating flag plumbing.
func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(os.Getenv("WIKIGPT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return log.New(log.Config{
		Level: level,
		JSON:  os.Getenv("WIKIGPT_LOG_FORMAT") == "json",
	})
}
