package news

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"boardbrief/internal/core"
)

// recordingProvider counts queries and returns one canned article per
// query.
type recordingProvider struct {
	mu      sync.Mutex
	name    string
	queries []string
	err     error
}

func (p *recordingProvider) GetName() string { return p.name }

func (p *recordingProvider) Search(ctx context.Context, query string, config Config) ([]core.RawArticle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.queries = append(p.queries, query)
	return []core.RawArticle{{
		Title: p.name + ": " + query,
		URL:   "https://" + p.name + ".example.com/" + query,
	}}, nil
}

func (p *recordingProvider) queryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queries)
}

func TestFetchAllRespectsQueryQuotas(t *testing.T) {
	wide := &recordingProvider{name: "wide"}
	narrow := &recordingProvider{name: "narrow"}
	fetcher := NewFetcher(
		Slot{Provider: wide, MaxQueries: 3},
		Slot{Provider: narrow, MaxQueries: 1},
	)

	queries := []string{"q1", "q2", "q3", "q4", "q5"}
	result := fetcher.FetchAll(context.Background(), queries, nil)

	if wide.queryCount() != 3 {
		t.Errorf("wide provider should run 3 queries, ran %d", wide.queryCount())
	}
	if narrow.queryCount() != 1 {
		t.Errorf("narrow provider should run 1 query, ran %d", narrow.queryCount())
	}
	if len(result.Articles) != 4 {
		t.Errorf("expected 4 merged articles, got %d", len(result.Articles))
	}
	if len(result.Sources) != 2 {
		t.Errorf("expected 2 contributing sources, got %v", result.Sources)
	}
}

func TestFetchAllQuotaBoundedByQueryList(t *testing.T) {
	p := &recordingProvider{name: "only"}
	fetcher := NewFetcher(Slot{Provider: p, MaxQueries: 5})

	fetcher.FetchAll(context.Background(), []string{"q1", "q2"}, nil)

	if p.queryCount() != 2 {
		t.Errorf("quota above query count should run every query once, ran %d", p.queryCount())
	}
}

func TestFetchAllSettlesAroundFailingProvider(t *testing.T) {
	healthy := &recordingProvider{name: "healthy"}
	broken := &recordingProvider{name: "broken", err: errors.New("upstream 500")}
	fetcher := NewFetcher(
		Slot{Provider: healthy, MaxQueries: 2},
		Slot{Provider: broken, MaxQueries: 2},
	)

	result := fetcher.FetchAll(context.Background(), []string{"q1", "q2"}, nil)

	if len(result.Articles) != 2 {
		t.Errorf("healthy provider results should survive, got %d articles", len(result.Articles))
	}
	for _, source := range result.Sources {
		if source == "broken" {
			t.Error("failed provider must not be listed as a source")
		}
	}
}

func TestFetchAllAllProvidersFail(t *testing.T) {
	broken := &recordingProvider{name: "broken", err: errors.New("down")}
	fetcher := NewFetcher(Slot{Provider: broken, MaxQueries: 1})

	result := fetcher.FetchAll(context.Background(), []string{"q1"}, nil)

	if len(result.Articles) != 0 || len(result.Sources) != 0 {
		t.Errorf("expected empty result, got %d articles from %v", len(result.Articles), result.Sources)
	}
}

func TestMockProviderTagsQueries(t *testing.T) {
	provider := NewMockProvider()

	articles, err := provider.Search(context.Background(), "pasta", Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("mock provider returned no articles")
	}
	for _, a := range articles {
		if want := "(for query: pasta)"; !strings.Contains(a.Title, want) {
			t.Errorf("mock title %q missing query tag %q", a.Title, want)
		}
	}
}

func TestProviderFactoryRequiresAPIKey(t *testing.T) {
	factory := NewProviderFactory()

	_, err := factory.CreateProvider(ProviderTypeNewsAPI, map[string]string{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	provider, err := factory.CreateProvider(ProviderTypeGuardian, map[string]string{"api_key": "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.GetName() != "The Guardian" {
		t.Errorf("unexpected provider name %q", provider.GetName())
	}
}

func TestProviderFactoryUnsupportedType(t *testing.T) {
	factory := NewProviderFactory()

	_, err := factory.CreateProvider(ProviderType("telegraph"), map[string]string{"api_key": "k"})
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}
