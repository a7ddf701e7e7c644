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

// guardianResultCap bounds how many results one Guardian query may
// contribute, to keep the provider mix balanced.
const guardianResultCap = 3

// GuardianProvider implements Provider using the Guardian content API.
type GuardianProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGuardianProvider creates a new Guardian content search provider.
func NewGuardianProvider(apiKey string) *GuardianProvider {
	return &GuardianProvider{
		apiKey:  apiKey,
		baseURL: "https://content.guardianapis.com/search",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GetName returns the name of this provider.
func (p *GuardianProvider) GetName() string {
	return "The Guardian"
}

// Search performs a search against the Guardian content API.
func (p *GuardianProvider) Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api-key", p.apiKey)
	params.Set("show-fields", "headline,trailText,shortUrl")
	params.Set("page-size", strconv.Itoa(pageSizeOrDefault(config.MaxResults)))
	if config.Since != nil {
		params.Set("from-date", config.Since.Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Guardian request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute Guardian request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardian request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Response struct {
			Results []struct {
				WebTitle           string `json:"webTitle"`
				WebURL             string `json:"webUrl"`
				WebPublicationDate string `json:"webPublicationDate"`
				Fields             struct {
					TrailText string `json:"trailText"`
				} `json:"fields"`
			} `json:"results"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse Guardian response: %w", err)
	}

	items := apiResponse.Response.Results
	if len(items) > guardianResultCap {
		items = items[:guardianResultCap]
	}

	var results []core.RawArticle
	for _, a := range items {
		results = append(results, core.RawArticle{
			Title:       a.WebTitle,
			Source:      "The Guardian",
			URL:         a.WebURL,
			PublishedAt: a.WebPublicationDate,
			Description: a.Fields.TrailText,
		})
	}

	logger.Debug("Guardian search completed", "query", query, "results_found", len(results))

	return results, nil
}
