// Package core defines the shared data model for the boardbrief pipelines.
package core

// RawArticle is a provider-agnostic news record. It is produced by the
// news fetcher and never mutated afterwards; it lives only for the
// duration of one curation request.
type RawArticle struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`         // identity key when present
	PublishedAt string `json:"publishedAt"` // ISO-8601, may be empty
	Description string `json:"description"`
}

// FilterState captures the user-selected search scope. Empty Categories
// or Regions means "no constraint", not "match nothing".
type FilterState struct {
	Categories []string `json:"categories"`
	Regions    []string `json:"regions"`
	SearchTerm string   `json:"searchTerm"`
	DateRange  string   `json:"dateRange"` // today|week|month|3months|all
}

// Date range values accepted in FilterState.DateRange.
const (
	DateRangeToday   = "today"
	DateRangeWeek    = "week"
	DateRangeMonth   = "month"
	DateRange3Months = "3months"
	DateRangeAll     = "all"
)

// Priority values for a BriefItem.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// RiskEntry is one entry of a BriefItem risk register.
type RiskEntry struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"` // regulatory|supply_chain|market|reputational|financial|technology|ESG
	Drivers    string `json:"drivers,omitempty"`
	Likelihood string `json:"likelihood,omitempty"` // Low|Medium|High
	Impact     string `json:"impact,omitempty"`     // Low|Medium|High
	Timeframe  string `json:"timeframe,omitempty"`  // Immediate|Short-term|Mid-term|Long-term
	Mitigation string `json:"mitigation,omitempty"`
}

// OpportunityEntry is one entry of a BriefItem opportunity register.
type OpportunityEntry struct {
	Name      string `json:"name"`
	Thesis    string `json:"thesis,omitempty"`
	Magnitude string `json:"magnitude,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Actions   string `json:"actions,omitempty"`
}

// BriefItem is one LLM-analyzed article with board-framed metadata.
// Created by the brief pipeline from a RawArticle, repaired and trimmed
// by the normalizer, and later enriched by board-level edits to
// StrategicActions before distribution.
type BriefItem struct {
	Title        string `json:"title"`
	Source       string `json:"source"`
	Link         string `json:"link"`
	Theme        string `json:"theme"`
	Priority     string `json:"priority"`
	WhyItMatters string `json:"why_it_matters"`
	Region       string `json:"region"`
	Category     string `json:"category"`

	ArticleSummary      string              `json:"article_summary,omitempty"`
	KeyData             map[string]any      `json:"key_data,omitempty"`
	RiskRegister        []RiskEntry         `json:"risk_register,omitempty"`
	OpportunityRegister []OpportunityEntry  `json:"opportunity_register,omitempty"`
	RelevantDepartments []string            `json:"relevant_departments,omitempty"`
	StrategicActions    map[string][]string `json:"strategic_actions,omitempty"`
}

// ActionCap returns the maximum number of strategic actions allowed per
// department for the item's priority.
func (i BriefItem) ActionCap() int {
	switch i.Priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// SummaryLength selects the article_summary size and the model
// temperature used when compiling the brief prompt.
type SummaryLength string

const (
	SummaryShort  SummaryLength = "short"
	SummaryMedium SummaryLength = "medium"
	SummaryLong   SummaryLength = "long"
)

// Lines returns the exact number of article_summary lines requested.
func (l SummaryLength) Lines() int {
	switch l {
	case SummaryShort:
		return 2
	case SummaryLong:
		return 10
	default:
		return 5
	}
}

// Temperature returns the sampling temperature tuned for the length.
func (l SummaryLength) Temperature() float32 {
	if l == SummaryLong {
		return 0.05
	}
	return 0.1
}
