package news

import "errors"

var (
	// ErrMissingAPIKey is returned when a required API key is not provided
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrUnsupportedProvider is returned when an unsupported provider type is specified
	ErrUnsupportedProvider = errors.New("unsupported news provider")

	// ErrEmptyResults is returned when all providers settle and curation
	// still has nothing to work with
	ErrEmptyResults = errors.New("no news articles found; configure NEWS_API_KEY, GUARDIAN_API_KEY and NEWSDATA_API_KEY to reach live sources")
)
