package curate

import (
	"fmt"
	"testing"
	"time"

	"boardbrief/internal/core"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func relevantArticle(title, url string, published time.Time) core.RawArticle {
	return core.RawArticle{
		Title:       title,
		Source:      "Test Wire",
		URL:         url,
		PublishedAt: published.Format(time.RFC3339),
		Description: "pasta industry report",
	}
}

func TestDeduplicateByURL(t *testing.T) {
	articles := []core.RawArticle{
		{Title: "First", URL: "https://example.com/a"},
		{Title: "Second", URL: "https://example.com/a"},
		{Title: "Third", URL: "https://example.com/b"},
	}

	unique := Deduplicate(articles)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(unique))
	}
	if unique[0].Title != "First" {
		t.Errorf("expected first occurrence to win, got %q", unique[0].Title)
	}
}

func TestDeduplicateByTitleWhenURLMissing(t *testing.T) {
	articles := []core.RawArticle{
		{Title: "Same headline"},
		{Title: "Same headline"},
		{Title: "Different headline"},
	}

	unique := Deduplicate(articles)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(unique))
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	articles := []core.RawArticle{
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b"},
		{Title: "A again", URL: "https://example.com/a"},
	}

	once := Deduplicate(articles)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Errorf("deduplication not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestFilterByDateWeekBoundary(t *testing.T) {
	articles := []core.RawArticle{
		relevantArticle("Six days old", "https://example.com/keep", testNow.Add(-6*24*time.Hour)),
		relevantArticle("Eight days old", "https://example.com/drop", testNow.Add(-8*24*time.Hour)),
	}

	kept := FilterByDate(articles, core.DateRangeWeek, testNow)

	if len(kept) != 1 {
		t.Fatalf("expected 1 article within the week, got %d", len(kept))
	}
	if kept[0].Title != "Six days old" {
		t.Errorf("wrong article survived the date filter: %q", kept[0].Title)
	}
}

func TestFilterByDateKeepsUnparseable(t *testing.T) {
	articles := []core.RawArticle{
		{Title: "No date at all"},
		{Title: "Garbage date", PublishedAt: "yesterday-ish"},
	}

	kept := FilterByDate(articles, core.DateRangeWeek, testNow)

	if len(kept) != 2 {
		t.Errorf("articles without a parseable date must be kept, got %d of 2", len(kept))
	}
}

func TestFilterByDateAllIsUnbounded(t *testing.T) {
	articles := []core.RawArticle{
		relevantArticle("Ancient", "https://example.com/old", testNow.Add(-400*24*time.Hour)),
	}

	kept := FilterByDate(articles, core.DateRangeAll, testNow)

	if len(kept) != 1 {
		t.Errorf("range all should keep everything, got %d", len(kept))
	}
}

func TestCutoffFor(t *testing.T) {
	tests := []struct {
		dateRange string
		wantBound bool
		wantAge   time.Duration
	}{
		{core.DateRangeToday, true, 24 * time.Hour},
		{core.DateRangeWeek, true, 7 * 24 * time.Hour},
		{core.DateRangeMonth, true, 30 * 24 * time.Hour},
		{core.DateRange3Months, true, 90 * 24 * time.Hour},
		{core.DateRangeAll, false, 0},
		{"unknown", true, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		cutoff, bounded := CutoffFor(tt.dateRange, testNow)
		if bounded != tt.wantBound {
			t.Errorf("%s: bounded = %v, want %v", tt.dateRange, bounded, tt.wantBound)
			continue
		}
		if bounded && !cutoff.Equal(testNow.Add(-tt.wantAge)) {
			t.Errorf("%s: cutoff = %v, want %v", tt.dateRange, cutoff, testNow.Add(-tt.wantAge))
		}
	}
}

func TestCurateDropsOffDomainArticles(t *testing.T) {
	articles := []core.RawArticle{
		{Title: "Celebrity gossip roundup", URL: "https://example.com/1", Description: "red carpet looks"},
		{Title: "Pasta exports grow", URL: "https://example.com/2", Description: "Italian pasta market expands"},
	}

	curated := Curate(articles, core.FilterState{DateRange: core.DateRangeAll}, testNow)

	if len(curated) != 1 {
		t.Fatalf("expected only the on-domain article, got %d", len(curated))
	}
	if curated[0].Title != "Pasta exports grow" {
		t.Errorf("wrong article survived: %q", curated[0].Title)
	}
}

func TestCurateWithoutTermUsesOrAcrossGates(t *testing.T) {
	// Matches the sustainability vocabulary but not the italy one.
	articles := []core.RawArticle{
		{
			Title:       "Carbon footprint of food production",
			URL:         "https://example.com/esg",
			Description: "emission cuts in food manufacturing",
		},
	}
	filters := core.FilterState{
		Categories: []string{"sustainability"},
		Regions:    []string{"italy"},
		DateRange:  core.DateRangeAll,
	}

	curated := Curate(articles, filters, testNow)

	if len(curated) != 1 {
		t.Errorf("without a search term one matching gate should suffice, got %d articles", len(curated))
	}
}

func TestCurateWithTermRequiresAllGates(t *testing.T) {
	// Matches the term and the sustainability vocabulary, but not italy.
	articles := []core.RawArticle{
		{
			Title:       "Carbon footprint of food production",
			URL:         "https://example.com/esg",
			Description: "emission cuts in food manufacturing",
		},
	}
	filters := core.FilterState{
		SearchTerm: "carbon",
		Categories: []string{"sustainability"},
		Regions:    []string{"italy"},
		DateRange:  core.DateRangeAll,
	}

	curated := Curate(articles, filters, testNow)

	if len(curated) != 0 {
		t.Errorf("with a search term every selected gate must match, got %d articles", len(curated))
	}
}

func TestCurateSearchTermKeywordsAreORed(t *testing.T) {
	articles := []core.RawArticle{
		{
			Title:       "Wheat harvest update",
			URL:         "https://example.com/wheat",
			Description: "grain yields across farms",
		},
	}
	filters := core.FilterState{
		SearchTerm: "wheat tariffs",
		DateRange:  core.DateRangeAll,
	}

	curated := Curate(articles, filters, testNow)

	if len(curated) != 1 {
		t.Errorf("any single search keyword should match, got %d articles", len(curated))
	}
}

func TestCurateBoundedOutput(t *testing.T) {
	var articles []core.RawArticle
	for i := 0; i < 20; i++ {
		articles = append(articles, relevantArticle(
			fmt.Sprintf("Pasta market story %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			testNow.Add(-time.Hour),
		))
	}

	curated := Curate(articles, core.FilterState{DateRange: core.DateRangeWeek}, testNow)

	if len(curated) != MaxArticles {
		t.Errorf("expected output bounded to %d, got %d", MaxArticles, len(curated))
	}
	if curated[0].Title != "Pasta market story 0" {
		t.Errorf("input order not preserved, first is %q", curated[0].Title)
	}
}
