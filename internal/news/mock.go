package news

import (
	"context"
	"fmt"

	"boardbrief/internal/core"
)

// MockProvider implements Provider for testing purposes.
type MockProvider struct {
	name     string
	articles []core.RawArticle
	err      error
}

// NewMockProvider creates a new mock news provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name: "Mock",
		articles: []core.RawArticle{
			{
				Title:       "Pasta exports grow across the EU",
				Source:      "Mock",
				URL:         "https://example.com/article1",
				PublishedAt: "2024-01-02T10:00:00Z",
				Description: "Mock article about the pasta market.",
			},
			{
				Title:       "Sustainable packaging rules advance",
				Source:      "Mock",
				URL:         "https://test.org/article2",
				PublishedAt: "2024-01-03T08:30:00Z",
				Description: "Mock article about food packaging regulation.",
			},
		},
	}
}

// GetName returns the name of this provider.
func (m *MockProvider) GetName() string {
	return m.name
}

// Search returns the configured mock articles.
func (m *MockProvider) Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error) {
	if m.err != nil {
		return nil, m.err
	}

	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > len(m.articles) {
		maxResults = len(m.articles)
	}

	results := make([]core.RawArticle, maxResults)
	for i := 0; i < maxResults; i++ {
		article := m.articles[i]
		article.Title = fmt.Sprintf("%s (for query: %s)", article.Title, query)
		results[i] = article
	}

	return results, nil
}

// SetArticles allows customization of mock results for testing.
func (m *MockProvider) SetArticles(articles []core.RawArticle) {
	m.articles = articles
}

// SetError makes every Search call fail, for failure-path tests.
func (m *MockProvider) SetError(err error) {
	m.err = err
}
