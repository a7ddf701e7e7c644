// Package curate filters and ranks raw articles into the bounded
// candidate list handed to the brief pipeline. The stages run in a
// fixed order: dedup, date window, domain-relevance gate, search-term
// gate, category/region gate, truncation.
package curate

import (
	"strings"
	"time"

	"boardbrief/internal/core"
)

// MaxArticles bounds the curated output; eight articles is the batch
// size the analyzer can process reliably in one model call.
const MaxArticles = 8

// domainKeywords is the mandatory relevance vocabulary. An article whose
// title+description matches none of these is dropped regardless of the
// user's filter choices: the platform never serves off-domain news.
var domainKeywords = []string{
	// Core business
	"pasta", "rice", "riso", "legum", "lentil", "chickpea", "bean", "pea",
	// Food industry
	"food", "aliment", "agri-food", "agrifood", "cereal", "grain", "wheat", "flour", "semola",
	// Agriculture and farming
	"agricult", "farm", "crop", "harvest", "cultivation",
	// Food manufacturing and processing
	"food industry", "food manufacturer", "food production", "food processing", "food plant",
	// Packaging
	"food packaging", "sustainable packaging", "biodegradable packaging",
	// Market and competitors
	"barilla", "de cecco", "garofalo", "pasta brand", "pasta market", "pasta industry",
	// Regulations
	"food regulation", "food safety", "food law", "food standard", "food compliance",
	// Sustainability
	"sustainable food", "food sustainability", "organic food", "natural food",
	// Trade and export
	"food export", "food trade", "food import",
	// Innovation
	"food tech", "food innovation", "agtech", "agritech",
	// Nutrition
	"protein", "nutrition", "healthy food", "plant-based",
	// Supply chain
	"food supply", "food chain", "food logistics",
}

// categoryKeywords is the per-category matching vocabulary for the
// category gate.
var categoryKeywords = map[string][]string{
	"packaging":    {"pack", "packaging", "container", "bottle", "wrap", "box", "bag", "plastic", "recyclable", "sustainable", "biodegradable", "eco-friendly", "material"},
	"supply-chain": {"supply", "chain", "logistics", "distribution", "transport", "delivery", "warehouse", "procurement", "sourcing", "freight", "shipping", "supplier"},
	"regulations":  {"regulation", "regulatory", "compliance", "law", "policy", "legislation", "rule", "standard", "directive", "mandate", "legal", "government", "authority", "requirement"},
	"competitors":  {"barilla", "de cecco", "garofalo", "competitor", "competition", "market", "industry", "sector", "brand", "company", "business", "rival", "player", "leader"},
	"innovation":   {"innovation", "technology", "tech", "digital", "ai", "artificial intelligence", "automation", "startup", "research", "development", "new", "advanced", "breakthrough", "patent", "invention"},
	"sustainability": {"sustainab", "esg", "green", "eco", "environment", "climate", "carbon", "renewable", "energy", "organic", "natural", "circular", "emission", "footprint"},
}

// regionKeywords is the per-region matching vocabulary for the region gate.
var regionKeywords = map[string][]string{
	"italy":  {"italy", "italian", "italia", "rome", "milan", "turin", "venice", "florence", "naples", "bologna", "sicily", "piedmont", "tuscany", "lombardy", "genoa", "verona"},
	"eu":     {"eu ", "europe", "european", "brussels", "germany", "german", "france", "french", "spain", "spanish", "netherlands", "dutch", "belgium", "austria", "portugal", "greece", "poland", "polish", "sweden", "denmark", "finland", "ireland", "czech", "hungary", "romania", "uk", "britain", "british", "england"},
	"usa":    {"united states", "america", "american", "u.s.", "usa", "washington", "new york", "california", "texas", "florida", "chicago", "boston", "white house", "wall street", "us market", "us economy", "us food"},
	"canada": {"canada", "canadian", "ottawa", "toronto", "quebec", "montreal", "vancouver", "calgary", "edmonton"},
}

// timeLayouts are the published-date formats seen across providers.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Curate runs the full pipeline against now. The output preserves the
// input order of the survivors and never exceeds MaxArticles.
func Curate(articles []core.RawArticle, filters core.FilterState, now time.Time) []core.RawArticle {
	result := Deduplicate(articles)
	result = FilterByDate(result, filters.DateRange, now)
	result = filterRelevant(result, filters)
	if len(result) > MaxArticles {
		result = result[:MaxArticles]
	}
	return result
}

// Deduplicate drops repeated articles, keyed by URL when present and by
// title otherwise. The first occurrence wins; order is preserved.
func Deduplicate(articles []core.RawArticle) []core.RawArticle {
	seen := make(map[string]bool, len(articles))
	var unique []core.RawArticle
	for _, article := range articles {
		key := article.URL
		if key == "" {
			key = article.Title
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, article)
	}
	return unique
}

// CutoffFor translates a date range value into the matching cutoff
// instant, or false for the unbounded "all" range.
func CutoffFor(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case core.DateRangeAll:
		return time.Time{}, false
	case core.DateRangeToday:
		return now.Add(-24 * time.Hour), true
	case core.DateRangeMonth:
		return now.Add(-30 * 24 * time.Hour), true
	case core.DateRange3Months:
		return now.Add(-90 * 24 * time.Hour), true
	default: // week, also the fallback for unknown values
		return now.Add(-7 * 24 * time.Hour), true
	}
}

// FilterByDate keeps articles published on or after the range cutoff.
// Articles with no parseable publication date are always kept.
func FilterByDate(articles []core.RawArticle, dateRange string, now time.Time) []core.RawArticle {
	cutoff, bounded := CutoffFor(dateRange, now)
	if !bounded {
		return articles
	}

	var kept []core.RawArticle
	for _, article := range articles {
		published, ok := parsePublishedAt(article.PublishedAt)
		if !ok || !published.Before(cutoff) {
			kept = append(kept, article)
		}
	}
	return kept
}

func parsePublishedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// filterRelevant applies the domain-relevance gate, the search-term
// gate, and the category/region gate.
//
// The policy is deliberately asymmetric: with a search term the
// category and region gates are strict AND (a free-text query narrows
// precisely); without one they relax to OR (pure browsing stays
// permissive). Preserve this switching as-is; it is explicit business
// logic, not an accident.
func filterRelevant(articles []core.RawArticle, filters core.FilterState) []core.RawArticle {
	searchTerm := strings.TrimSpace(filters.SearchTerm)
	hasSearchTerm := searchTerm != ""
	hasCategoryFilter := len(filters.Categories) > 0
	hasRegionFilter := len(filters.Regions) > 0

	var searchKeywords []string
	if hasSearchTerm {
		searchKeywords = strings.Fields(strings.ToLower(searchTerm))
	}

	var kept []core.RawArticle
	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Description)

		if !matchesAny(text, domainKeywords) {
			continue
		}

		if hasSearchTerm && !matchesAny(text, searchKeywords) {
			continue
		}

		if hasCategoryFilter || hasRegionFilter {
			categoryMatch := hasCategoryFilter && matchesVocabulary(text, filters.Categories, categoryKeywords)
			regionMatch := hasRegionFilter && matchesVocabulary(text, filters.Regions, regionKeywords)

			if hasSearchTerm {
				if hasCategoryFilter && !categoryMatch {
					continue
				}
				if hasRegionFilter && !regionMatch {
					continue
				}
			} else {
				switch {
				case hasCategoryFilter && hasRegionFilter:
					if !categoryMatch && !regionMatch {
						continue
					}
				case hasCategoryFilter && !categoryMatch:
					continue
				case hasRegionFilter && !regionMatch:
					continue
				}
			}
		}

		kept = append(kept, article)
	}
	return kept
}

func matchesAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func matchesVocabulary(text string, selected []string, vocabulary map[string][]string) bool {
	for _, key := range selected {
		if matchesAny(text, vocabulary[key]) {
			return true
		}
	}
	return false
}
