package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labsmc/wikigpt/internal/app"
	"github.com/labsmc/wikigpt/internal/config"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-off question from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print the wiki pages the answer was grounded on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := checkRequiredEnv(); err != nil {
		return err
	}

	logger := newLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	a, err := app.Setup(ctx, *cfg, logger, app.Options{LoadSnapshot: true})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	question := strings.Join(args, " ")

	answer, err := a.Pipeline.Run(ctx, question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Println(answer.Text)

	if askShowSources && len(answer.Context) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, c := range answer.Context {
			if c.Date != "" {
				fmt.Printf("  - %s (%s, %s)\n", c.Title, c.Source, c.Date)
			} else {
				fmt.Printf("  - %s (%s)\n", c.Title, c.Source)
			}
		}
	}

	return nil
}
