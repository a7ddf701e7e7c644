// Package departments holds the static catalog of company departments.
// The registry drives department assignment for analyzed articles and the
// responsibility framing used by the tailoring pipeline.
package departments

import "strings"

// ID identifies one of the eight fixed departments.
type ID string

const (
	Legal          ID = "legal"
	Operations     ID = "operations"
	Marketing      ID = "marketing"
	RD             ID = "rd"
	Sustainability ID = "sustainability"
	Finance        ID = "finance"
	SupplyChain    ID = "supply-chain"
	Quality        ID = "quality"
)

// Department is a static registry record, loaded once at process start.
type Department struct {
	ID               ID       `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Keywords         []string `json:"keywords"`
	Responsibilities []string `json:"responsibilities"`
}

// All is the fixed department registry. Keywords are the default
// relevance fallback when the model assigns no departments;
// responsibilities feed the tailoring prompt (first four are used).
var All = []Department{
	{
		ID:          Legal,
		Name:        "Legal & Compliance",
		Description: "Regulatory monitoring, compliance, contracts and legal affairs",
		Keywords: []string{
			"regulation", "law", "legal", "compliance", "directive", "mandate",
			"lawsuit", "court", "legislation", "policy", "standard", "certification",
			"patent", "trademark", "intellectual property", "contract", "tariff",
		},
		Responsibilities: []string{
			"Monitor new EU and national regulations",
			"Manage food safety and labeling compliance",
			"Protect intellectual property",
			"Manage international commercial contracts",
		},
	},
	{
		ID:          Operations,
		Name:        "Operations & Production",
		Description: "Production plants, operational efficiency, automation",
		Keywords: []string{
			"production", "manufacturing", "plant", "facility", "automation",
			"efficiency", "capacity", "output", "process", "optimization",
			"machinery", "equipment", "productivity", "operational",
		},
		Responsibilities: []string{
			"Optimize production processes",
			"Implement new technologies",
			"Manage capacity planning",
			"Improve operational efficiency",
		},
	},
	{
		ID:          Marketing,
		Name:        "Marketing & Sales",
		Description: "Brand positioning, communication, sales, market expansion",
		Keywords: []string{
			"marketing", "brand", "campaign", "advertising", "consumer",
			"market share", "sales", "distribution", "retail", "e-commerce",
			"promotion", "positioning", "customer", "demand", "trend",
		},
		Responsibilities: []string{
			"Develop brand positioning strategies",
			"Analyze market trends",
			"Expand distribution channels",
			"Manage communication and PR",
		},
	},
	{
		ID:          RD,
		Name:        "R&D & Innovation",
		Description: "New product development, innovation, scientific research",
		Keywords: []string{
			"research", "development", "innovation", "r&d", "technology",
			"new product", "formulation", "ingredient", "patent", "breakthrough",
			"scientific", "study", "experiment", "protein", "nutrition",
		},
		Responsibilities: []string{
			"Develop new plant-based products",
			"Innovate formulas and ingredients",
			"Collaborate with universities and research centers",
			"Patent innovations",
		},
	},
	{
		ID:          Sustainability,
		Name:        "Sustainability & ESG",
		Description: "Environmental sustainability, circular economy, ESG reporting",
		Keywords: []string{
			"sustainability", "sustainable", "esg", "environment", "climate",
			"carbon", "emission", "renewable", "circular economy", "green",
			"eco-friendly", "biodegradable", "recycling", "waste", "energy",
		},
		Responsibilities: []string{
			"Reduce carbon footprint",
			"Implement circular economy",
			"Manage ESG reporting",
			"Develop sustainable packaging",
		},
	},
	{
		ID:          Finance,
		Name:        "Finance & Strategy",
		Description: "Financial planning, investments, M&A, corporate strategy",
		Keywords: []string{
			"finance", "investment", "acquisition", "merger", "funding",
			"revenue", "profit", "cost", "pricing", "budget", "financial",
			"valuation", "stock", "dividend", "earnings", "growth",
		},
		Responsibilities: []string{
			"Plan strategic investments",
			"Evaluate M&A opportunities",
			"Optimize cost structure",
			"Manage investor relations",
		},
	},
	{
		ID:          SupplyChain,
		Name:        "Supply Chain & Logistics",
		Description: "Supplier management, logistics, procurement, distribution",
		Keywords: []string{
			"supply chain", "logistics", "supplier", "procurement", "sourcing",
			"distribution", "warehouse", "transportation", "delivery", "freight",
			"inventory", "stock", "import", "export", "shipping",
		},
		Responsibilities: []string{
			"Optimize the supply chain",
			"Manage strategic suppliers",
			"Improve logistics efficiency",
			"Manage sourcing risks",
		},
	},
	{
		ID:          Quality,
		Name:        "Quality & Food Safety",
		Description: "Quality control, food safety, certifications, standards",
		Keywords: []string{
			"quality", "food safety", "safety", "hygiene", "contamination",
			"recall", "certification", "haccp", "iso", "brc", "ifs",
			"testing", "inspection", "traceability", "audit",
		},
		Responsibilities: []string{
			"Guarantee food safety",
			"Manage certifications (BRC, IFS, etc.)",
			"Implement traceability systems",
			"Manage non-conformities and recalls",
		},
	},
}

// Get returns the department with the given id, or false when unknown.
func Get(id ID) (Department, bool) {
	for _, d := range All {
		if d.ID == id {
			return d, true
		}
	}
	return Department{}, false
}

// Valid reports whether id names a registered department.
func Valid(id ID) bool {
	_, ok := Get(id)
	return ok
}

// Relevant returns the departments whose keyword set matches the text.
// It falls back to operations when nothing matches, so every article has
// at least one destination.
func Relevant(text string) []ID {
	lower := strings.ToLower(text)

	var relevant []ID
	for _, dept := range All {
		for _, keyword := range dept.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				relevant = append(relevant, dept.ID)
				break
			}
		}
	}

	if len(relevant) == 0 {
		return []ID{Operations}
	}
	return relevant
}
