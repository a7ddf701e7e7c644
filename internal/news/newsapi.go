package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"boardbrief/internal/core"
	"boardbrief/internal/logger"
)

// NewsAPIProvider implements Provider using the NewsAPI "everything" endpoint.
type NewsAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPIProvider creates a new NewsAPI provider.
func NewNewsAPIProvider(apiKey string) *NewsAPIProvider {
	return &NewsAPIProvider{
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2/everything",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GetName returns the name of this provider.
func (p *NewsAPIProvider) GetName() string {
	return "NewsAPI"
}

// Search performs a search against NewsAPI.
func (p *NewsAPIProvider) Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", languageOrDefault(config.Language))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSizeOrDefault(config.MaxResults)))
	params.Set("apiKey", p.apiKey)
	if config.Since != nil {
		params.Set("from", config.Since.Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create NewsAPI request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute NewsAPI request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NewsAPI request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Status   string `json:"status"`
		Articles []struct {
			Title  string `json:"title"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse NewsAPI response: %w", err)
	}

	var results []core.RawArticle
	for _, a := range apiResponse.Articles {
		results = append(results, core.RawArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
		})
	}

	logger.Debug("NewsAPI search completed", "query", query, "results_found", len(results))

	return results, nil
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return 5
	}
	return n
}
