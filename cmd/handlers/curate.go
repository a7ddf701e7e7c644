package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"boardbrief/internal/core"
	"boardbrief/internal/curate"
	"boardbrief/internal/logger"
	"boardbrief/internal/news"
	"boardbrief/internal/query"
)

// NewCurateCmd creates the curate command
func NewCurateCmd() *cobra.Command {
	var (
		categories []string
		regions    []string
		searchTerm string
		dateRange  string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Fetch and curate news for the board dashboard",
		Long: `Build provider queries from the given filters, fetch from all
configured news providers concurrently, and curate the results down to
a deduplicated, relevance-filtered, date-bounded batch.

Examples:
  # Default curation over the last week
  boardbrief curate

  # Regulatory news about the EU from the last month
  boardbrief curate --category regulations --region eu --range month

  # Free-text search crossed with filters
  boardbrief curate --term "durum wheat" --region italy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := core.FilterState{
				Categories: categories,
				Regions:    regions,
				SearchTerm: searchTerm,
				DateRange:  dateRange,
			}
			return runCurate(cmd.Context(), filters, output)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "category filter (packaging, supply-chain, regulations, competitors, innovation, sustainability)")
	cmd.Flags().StringSliceVar(&regions, "region", nil, "region filter (italy, eu, usa, canada)")
	cmd.Flags().StringVar(&searchTerm, "term", "", "free-text search term")
	cmd.Flags().StringVar(&dateRange, "range", core.DateRangeWeek, "date range (today, week, month, 3months, all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write curated articles to file instead of stdout")

	return cmd
}

func runCurate(ctx context.Context, filters core.FilterState, output string) error {
	log := logger.Get()
	now := time.Now()

	queries := query.Build(filters)
	log.Info("Built provider queries", "count", len(queries))

	var since *time.Time
	if cutoff, bounded := curate.CutoffFor(filters.DateRange, now); bounded {
		since = &cutoff
	}

	fetcher := news.NewDefaultFetcher()
	result := fetcher.FetchAll(ctx, queries, since)
	log.Info("Fetched articles", "total", len(result.Articles), "sources", result.Sources)

	curated := curate.Curate(result.Articles, filters, now)
	if len(curated) == 0 {
		return news.ErrEmptyResults
	}
	log.Info("Curated articles", "kept", len(curated))

	encoded, err := json.MarshalIndent(curated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode curated articles: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, encoded, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		log.Info("Wrote curated articles", "path", output)
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}
