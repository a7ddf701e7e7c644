package news

import (
	"boardbrief/internal/config"
	"boardbrief/internal/logger"
)

// Per-provider query quotas. NewsAPI gets the widest slice of the
// generated queries; NewsData's free tier is the narrowest.
const (
	newsAPIQueryQuota  = 3
	guardianQueryQuota = 2
	newsDataQueryQuota = 1
)

// NewDefaultFetcher builds a fetcher from the application config,
// skipping providers without a usable API key. When no live provider
// is configured it falls back to the mock provider so the pipeline
// stays demonstrable offline.
func NewDefaultFetcher() *Fetcher {
	factory := NewProviderFactory()
	var slots []Slot

	add := func(providerType ProviderType, quota int) {
		provider, err := factory.CreateProvider(providerType, config.GetNewsProviderConfig(string(providerType)))
		if err != nil {
			logger.Warn("skipping news provider", "provider", providerType, "error", err.Error())
			return
		}
		slots = append(slots, Slot{Provider: provider, MaxQueries: quota})
	}

	if config.HasValidNewsAPI() {
		add(ProviderTypeNewsAPI, newsAPIQueryQuota)
	}
	if config.HasValidGuardian() {
		add(ProviderTypeGuardian, guardianQueryQuota)
	}
	if config.HasValidNewsData() {
		add(ProviderTypeNewsData, newsDataQueryQuota)
	}

	if len(slots) == 0 {
		logger.Warn("no live news providers configured, using mock provider")
		slots = append(slots, Slot{Provider: NewMockProvider(), MaxQueries: newsAPIQueryQuota})
	}

	return NewFetcher(slots...)
}
