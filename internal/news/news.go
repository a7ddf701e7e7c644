// Package news implements the multi-source news fetching layer. Each
// provider wraps one external search API and normalizes its payload to
// the common RawArticle shape.
package news

import (
	"context"
	"time"

	"boardbrief/internal/core"
)

// Provider defines the unified interface for news search providers.
type Provider interface {
	// Search performs a keyword search, returning normalized articles.
	Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error)

	// GetName returns the name of the news provider.
	GetName() string
}

// Config holds configuration for search requests.
type Config struct {
	MaxResults int        // Maximum number of results to return per query
	Since      *time.Time // Only return results published after this date (nil = unbounded)
	Language   string     // Language preference (e.g., "en")
}

// ProviderType represents the type of news provider.
type ProviderType string

const (
	ProviderTypeNewsAPI  ProviderType = "newsapi"
	ProviderTypeGuardian ProviderType = "guardian"
	ProviderTypeNewsData ProviderType = "newsdata"
	ProviderTypeMock     ProviderType = "mock"
)

// ProviderFactory creates news providers based on type and configuration.
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreateProvider creates a news provider of the specified type.
func (f *ProviderFactory) CreateProvider(providerType ProviderType, config map[string]string) (Provider, error) {
	switch providerType {
	case ProviderTypeNewsAPI:
		apiKey, exists := config["api_key"]
		if !exists {
			return nil, ErrMissingAPIKey
		}
		return NewNewsAPIProvider(apiKey), nil
	case ProviderTypeGuardian:
		apiKey, exists := config["api_key"]
		if !exists {
			return nil, ErrMissingAPIKey
		}
		return NewGuardianProvider(apiKey), nil
	case ProviderTypeNewsData:
		apiKey, exists := config["api_key"]
		if !exists {
			return nil, ErrMissingAPIKey
		}
		return NewNewsDataProvider(apiKey), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// GetAvailableProviders returns a list of available provider types.
func (f *ProviderFactory) GetAvailableProviders() []ProviderType {
	return []ProviderType{
		ProviderTypeNewsAPI,
		ProviderTypeGuardian,
		ProviderTypeNewsData,
		ProviderTypeMock,
	}
}
