package news

import (
	"context"
	"sync"
	"time"

	"boardbrief/internal/core"
	"boardbrief/internal/logger"
)

// Slot binds one provider to the number of queries it may consume from
// the built query list. The quotas differ per provider to respect each
// API's rate and quota limits.
type Slot struct {
	Provider   Provider
	MaxQueries int
}

// Fetcher fans a query list out across its provider slots and merges
// the settled results. One provider failing never aborts the others.
type Fetcher struct {
	slots      []Slot
	maxResults int
	language   string
}

// NewFetcher creates a fetcher over the given provider slots.
func NewFetcher(slots ...Slot) *Fetcher {
	return &Fetcher{
		slots:      slots,
		maxResults: 5,
		language:   "en",
	}
}

// FetchResult is the merged outcome of one fan-out.
type FetchResult struct {
	Articles []core.RawArticle
	Sources  []string // names of providers that contributed at least one article
}

// FetchAll runs every provider concurrently over its slice of the query
// list and waits for all of them to settle. A provider that errors
// contributes nothing; its failure is logged, never returned.
func (f *Fetcher) FetchAll(ctx context.Context, queries []string, since *time.Time) FetchResult {
	config := Config{
		MaxResults: f.maxResults,
		Since:      since,
		Language:   f.language,
	}

	perSlot := make([][]core.RawArticle, len(f.slots))

	var wg sync.WaitGroup
	for i, slot := range f.slots {
		wg.Add(1)
		go func(i int, slot Slot) {
			defer wg.Done()
			perSlot[i] = f.fetchSlot(ctx, slot, queries, config)
		}(i, slot)
	}
	wg.Wait()

	var result FetchResult
	for i, articles := range perSlot {
		if len(articles) == 0 {
			continue
		}
		result.Articles = append(result.Articles, articles...)
		result.Sources = append(result.Sources, f.slots[i].Provider.GetName())
	}

	logger.Info("News fetch settled",
		"providers", len(f.slots),
		"articles", len(result.Articles),
		"sources", result.Sources,
	)

	return result
}

// fetchSlot runs one provider over its query quota. Any error empties
// the slot: a provider either contributes a clean batch or nothing.
func (f *Fetcher) fetchSlot(ctx context.Context, slot Slot, queries []string, config Config) []core.RawArticle {
	if slot.Provider == nil {
		return nil
	}

	quota := slot.MaxQueries
	if quota > len(queries) {
		quota = len(queries)
	}

	var articles []core.RawArticle
	for _, query := range queries[:quota] {
		results, err := slot.Provider.Search(ctx, query, config)
		if err != nil {
			logger.Warn("News provider failed; continuing without it",
				"provider", slot.Provider.GetName(), "query", query, "error", err.Error())
			return nil
		}
		articles = append(articles, results...)
	}
	return articles
}
