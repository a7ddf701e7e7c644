// Package handlers implements the boardbrief CLI commands.
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boardbrief/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boardbrief",
		Short: "Board-level news intelligence for a food company",
		Long: `Boardbrief - News Curation & Board Briefing Tool

Collects food-industry news from multiple providers, curates it for
board relevance, and turns the survivors into executive brief items
with risk and opportunity registers.

Core workflows:
  • Curate: filters → multi-provider fetch → relevance-curated articles
  • Analyze: curated articles → board-ready brief items
  • Serve: HTTP API for the dashboard frontend

Examples:
  # Curate sustainability news about Italy from the last week
  boardbrief curate --category sustainability --region italy

  # Analyze previously curated articles
  boardbrief analyze --input articles.json --length medium

  # Start the API server
  boardbrief serve --port 8080`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .boardbrief.yaml)")

	rootCmd.AddCommand(NewCurateCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewServeCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		// Don't exit - allow running with just environment variables
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
