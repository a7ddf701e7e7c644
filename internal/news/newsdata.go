package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"boardbrief/internal/core"
	"boardbrief/internal/logger"
)

// newsDataResultCap bounds how many results one NewsData query may
// contribute; the free tier is quota-limited.
const newsDataResultCap = 5

// NewsDataProvider implements Provider using the newsdata.io API.
// Date filtering is left to the curator: the free tier rejects the
// from_date parameter.
type NewsDataProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsDataProvider creates a new NewsData search provider.
func NewNewsDataProvider(apiKey string) *NewsDataProvider {
	return &NewsDataProvider{
		apiKey:  apiKey,
		baseURL: "https://newsdata.io/api/1/news",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GetName returns the name of this provider.
func (p *NewsDataProvider) GetName() string {
	return "NewsData"
}

// Search performs a search against newsdata.io.
func (p *NewsDataProvider) Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error) {
	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create NewsData request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute NewsData request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NewsData request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Results []struct {
			Title       string `json:"title"`
			SourceName  string `json:"source_name"`
			Link        string `json:"link"`
			PubDate     string `json:"pubDate"`
			Description string `json:"description"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse NewsData response: %w", err)
	}

	items := apiResponse.Results
	if len(items) > newsDataResultCap {
		items = items[:newsDataResultCap]
	}

	var results []core.RawArticle
	for _, a := range items {
		source := a.SourceName
		if source == "" {
			source = "NewsData"
		}
		results = append(results, core.RawArticle{
			Title:       a.Title,
			Source:      source,
			URL:         a.Link,
			PublishedAt: a.PubDate,
			Description: a.Description,
		})
	}

	logger.Debug("NewsData search completed", "query", query, "results_found", len(results))

	return results, nil
}
