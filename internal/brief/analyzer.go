package brief

import (
	"context"
	"fmt"
	"sync"

	"boardbrief/internal/core"
	"boardbrief/internal/llm"
	"boardbrief/internal/logger"
)

// MaxBatch bounds the number of articles sent to the model in one
// analysis call.
const MaxBatch = 8

const (
	repairTemperature  float32 = 0.05
	repairMaxTokens    int32   = 1200
	extractTemperature float32 = 0.05
	extractMaxTokens   int32   = 800
)

// Acceptance threshold for a batch: parsed items must reach at least
// acceptNum/acceptDen of the input articles. 7 of 8 passes, 6 of 8
// does not.
const (
	acceptNum = 4
	acceptDen = 5
)

// Analyzer turns curated articles into board-ready brief items.
type Analyzer struct {
	completer llm.Completer
}

// NewAnalyzer creates an Analyzer backed by the given completer.
func NewAnalyzer(completer llm.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Result is the outcome of one analysis batch. Shortfall counts input
// articles that produced no usable item while the batch still cleared
// the acceptance threshold.
type Result struct {
	Items     []core.BriefItem `json:"items"`
	Shortfall int              `json:"shortfall,omitempty"`
}

// Analyze runs the full brief pipeline over a curated batch: primary
// model call, tolerant parse, register repair, key-data normalization,
// and action calibration. It returns *InsufficientYieldError when fewer
// than 80 percent of the articles yield items; the error carries the
// partial results.
func (a *Analyzer) Analyze(ctx context.Context, articles []core.RawArticle, filters core.FilterState, length core.SummaryLength, strategyContext string) (*Result, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	if len(articles) > MaxBatch {
		articles = articles[:MaxBatch]
	}

	system, user, err := CompilePrompt(articles, filters, length, strategyContext)
	if err != nil {
		return nil, err
	}

	raw, err := a.completer.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: length.Temperature(),
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("brief analysis call failed: %w", err)
	}

	env := Parse(raw)
	items := make([]core.BriefItem, 0, len(env.Items))
	for _, m := range env.Items {
		item := itemFromMap(m)
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}

	a.repairRegisters(ctx, items, strategyContext)
	a.fillKeyData(ctx, items)
	for i := range items {
		CalibrateActions(&items[i])
	}

	if len(items)*acceptDen < len(articles)*acceptNum {
		return nil, &InsufficientYieldError{
			Expected: len(articles),
			Got:      len(items),
			Items:    items,
		}
	}

	shortfall := len(articles) - len(items)
	if shortfall > 0 {
		logger.Warn("analysis batch accepted with shortfall",
			"expected", len(articles), "got", len(items))
	} else {
		shortfall = 0
	}

	return &Result{Items: items, Shortfall: shortfall}, nil
}

// repairRegisters issues one narrow secondary call per item whose risk
// or opportunity register came back empty. Repairs run concurrently;
// a failed repair leaves the item as parsed.
func (a *Analyzer) repairRegisters(ctx context.Context, items []core.BriefItem, strategyContext string) {
	var wg sync.WaitGroup
	for i := range items {
		if len(items[i].RiskRegister) > 0 && len(items[i].OpportunityRegister) > 0 {
			continue
		}
		wg.Add(1)
		go func(item *core.BriefItem) {
			defer wg.Done()

			user, err := compileRepairPrompt(*item, strategyContext)
			if err != nil {
				logger.Error("register repair skipped", err, "title", item.Title)
				return
			}
			raw, err := a.completer.Complete(ctx, llm.Request{
				System:      repairSystemPrompt,
				User:        user,
				Temperature: repairTemperature,
				MaxTokens:   repairMaxTokens,
				JSON:        true,
			})
			if err != nil {
				logger.Error("register repair call failed", err, "title", item.Title)
				return
			}

			parsed := parseObject(raw)
			if parsed == nil {
				logger.Warn("register repair returned no usable object", "title", item.Title)
				return
			}
			// Merge only into empty registers; never overwrite what
			// the primary call produced.
			if len(item.RiskRegister) == 0 {
				item.RiskRegister = riskEntries(parsed["risk_register"])
			}
			if len(item.OpportunityRegister) == 0 {
				item.OpportunityRegister = opportunityEntries(parsed["opportunity_register"])
			}
		}(&items[i])
	}
	wg.Wait()
}

// fillKeyData normalizes each item's key_data and, when nothing
// survives, issues one extraction-only call to recover facts the
// primary response left out. Extraction runs concurrently per item.
func (a *Analyzer) fillKeyData(ctx context.Context, items []core.BriefItem) {
	var wg sync.WaitGroup
	for i := range items {
		items[i].KeyData = NormalizeKeyData(items[i].KeyData)
		if items[i].KeyData != nil {
			continue
		}
		wg.Add(1)
		go func(item *core.BriefItem) {
			defer wg.Done()

			user, err := compileExtractPrompt(*item)
			if err != nil {
				logger.Error("key data extraction skipped", err, "title", item.Title)
				return
			}
			raw, err := a.completer.Complete(ctx, llm.Request{
				System:      extractSystemPrompt,
				User:        user,
				Temperature: extractTemperature,
				MaxTokens:   extractMaxTokens,
				JSON:        true,
			})
			if err != nil {
				logger.Error("key data extraction call failed", err, "title", item.Title)
				return
			}

			parsed := parseObject(raw)
			if parsed == nil {
				return
			}
			if kd, ok := parsed["key_data"].(map[string]any); ok {
				item.KeyData = NormalizeKeyData(kd)
			}
		}(&items[i])
	}
	wg.Wait()
}
