package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boardbrief/internal/brief"
	"boardbrief/internal/config"
	"boardbrief/internal/core"
	"boardbrief/internal/llm"
	"boardbrief/internal/logger"
	"boardbrief/internal/strategy"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var (
		input       string
		length      string
		strategyPDF string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Turn curated articles into board brief items",
		Long: `Run the briefing pipeline over a curated article batch: one primary
model call, tolerant response parsing, register repair, key-data
normalization, and strategic-action calibration.

Reads the article batch produced by 'boardbrief curate'.

Examples:
  # Analyze a curated batch with medium summaries
  boardbrief analyze --input articles.json

  # Long summaries grounded in a strategy document
  boardbrief analyze --input articles.json --length long --strategy-pdf plan.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), input, core.SummaryLength(length), strategyPDF, output)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "curated articles JSON file (required)")
	cmd.Flags().StringVar(&length, "length", string(core.SummaryMedium), "summary length (short, medium, long)")
	cmd.Flags().StringVar(&strategyPDF, "strategy-pdf", "", "strategy document PDF to ground the analysis")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write brief items to file instead of stdout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(ctx context.Context, input string, length core.SummaryLength, strategyPDF, output string) error {
	log := logger.Get()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	var articles []core.RawArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("failed to decode articles from %s: %w", input, err)
	}

	var strategyContext string
	if strategyPDF != "" {
		pdfData, err := os.ReadFile(strategyPDF)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strategyPDF, err)
		}
		strategyContext, err = strategy.ExtractContext(pdfData)
		if err != nil {
			return fmt.Errorf("failed to extract strategy context: %w", err)
		}
		log.Info("Loaded strategy context", "chars", len(strategyContext))
	}

	client, err := llm.NewClient(config.GetGeminiModel())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	analyzer := brief.NewAnalyzer(client)
	result, err := analyzer.Analyze(ctx, articles, core.FilterState{}, length, strategyContext)
	if err != nil {
		var yieldErr *brief.InsufficientYieldError
		if errors.As(err, &yieldErr) {
			log.Warn("Batch fell below acceptance threshold, printing partial items",
				"expected", yieldErr.Expected, "got", yieldErr.Got)
			result = &brief.Result{Items: yieldErr.Items, Shortfall: yieldErr.Expected - yieldErr.Got}
		} else {
			return err
		}
	}

	log.Info("Analysis complete", "items", len(result.Items), "shortfall", result.Shortfall)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode brief items: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, encoded, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		log.Info("Wrote brief items", "path", output)
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}
