// Package query turns user filter selections into prioritized search
// queries for the news providers. Building is pure and deterministic;
// no network access happens here.
package query

import (
	"strings"

	"boardbrief/internal/core"
)

// defaultQueries is used when no filter of any kind is set.
var defaultQueries = []string{
	"food industry", "agriculture news", "sustainable packaging",
	"food manufacturing", "agri-food business",
}

// fallbackQueries is the hard fallback when filter combination yields
// nothing usable.
var fallbackQueries = []string{
	"pasta industry 2024", "rice market 2024", "sustainable packaging 2024",
}

// categoryPhrases maps each selectable category to its search phrases.
var categoryPhrases = map[string][]string{
	"packaging": {
		"sustainable packaging regulations 2024",
		"biodegradable packaging food industry",
		"circular economy packaging solutions",
	},
	"supply-chain": {
		"food supply chain disruption 2024",
		"logistics food industry digital transformation",
		"supply chain resilience food sector",
	},
	"regulations": {
		"food regulations 2024 compliance",
		"food safety regulations new requirements",
		"sustainability regulations food industry",
	},
	"competitors": {
		"Barilla De Cecco Garofalo pasta market",
		"pasta industry competition analysis 2024",
		"Italian pasta brands international expansion",
	},
	"innovation": {
		"food technology innovation 2024",
		"agri-food tech startups investment",
		"artificial intelligence food industry",
	},
	"sustainability": {
		"sustainable food production ESG",
		"carbon footprint food industry reduction",
		"renewable energy food manufacturing",
	},
}

// regionPhrases maps each selectable region to its search phrases.
var regionPhrases = map[string][]string{
	"italy": {
		"Italy food industry 2024",
		"Italian pasta rice export market",
		"Made in Italy food sustainability",
	},
	"eu": {
		"EU food regulations 2024",
		"European food market digital transformation",
		"EU Green Deal food industry impact",
	},
	"usa": {
		"US food industry innovation trends",
		"American pasta market growth 2024",
		"US food safety regulations updates",
	},
	"canada": {
		"Canada food market sustainability",
		"Canadian food industry innovation",
		"Canada food regulations 2024",
	},
}

// Build produces the ordered query list for the given filters.
//
// With a search term set, every generated query is prefixed with the
// term and crossed with the selected category and region phrases.
// Without one, category and region phrases are crossed directly
// (Cartesian product when both are present).
func Build(filters core.FilterState) []string {
	term := strings.TrimSpace(filters.SearchTerm)

	if len(filters.Categories) == 0 && len(filters.Regions) == 0 && term == "" {
		return append([]string(nil), defaultQueries...)
	}

	var catQueries []string
	for _, category := range filters.Categories {
		catQueries = append(catQueries, categoryPhrases[category]...)
	}

	var regQueries []string
	for _, region := range filters.Regions {
		regQueries = append(regQueries, regionPhrases[region]...)
	}

	var queries []string
	switch {
	case term != "":
		switch {
		case len(catQueries) > 0 && len(regQueries) > 0:
			for _, cat := range catQueries {
				for _, reg := range regQueries {
					queries = append(queries, term+" "+cat+" "+reg)
				}
			}
		case len(catQueries) > 0:
			for _, cat := range catQueries {
				queries = append(queries, term+" "+cat)
			}
		case len(regQueries) > 0:
			for _, reg := range regQueries {
				queries = append(queries, term+" "+reg)
			}
		default:
			queries = append(queries, term)
		}
	case len(catQueries) > 0 && len(regQueries) > 0:
		for _, cat := range catQueries {
			for _, reg := range regQueries {
				queries = append(queries, cat+" "+reg)
			}
		}
	case len(catQueries) > 0:
		queries = append(queries, catQueries...)
	case len(regQueries) > 0:
		queries = append(queries, regQueries...)
	}

	if len(queries) == 0 {
		return append([]string(nil), fallbackQueries...)
	}
	return queries
}
