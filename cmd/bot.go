package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/labsmc/wikigpt/internal/bot"
	"github.com/labsmc/wikigpt/internal/config"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot",
	Long: `Connects to Discord and registers the /ask slash command. Questions
are forwarded to a running wikigpt serve instance, so the bot process
needs no snapshot or Gemini API key of its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot() error {
	logger := newLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	b, err := bot.New(cfg.Discord, logger)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("running bot: %w", err)
	}

	logger.Info("discord bot shut down")
	return nil
}
