package brief

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"boardbrief/internal/core"
)

// StrategyContextLimit caps how much strategy-document text is embedded
// in the main analysis prompt.
const StrategyContextLimit = 20000

// repairContextLimit caps the strategy text passed to the narrower
// secondary repair calls.
const repairContextLimit = 2000

// precisionNote returns the precision guidance for a summary length.
func precisionNote(length core.SummaryLength) string {
	switch length {
	case core.SummaryShort:
		return "Use very concise wording. Prioritize facts explicitly present in the article title/description. Avoid hedging and avoid invented context."
	case core.SummaryLong:
		return `Provide maximum factual precision. Prefer concrete figures, named entities, dates, and explicit qualifiers like "not specified" rather than guessing. No speculation.`
	default:
		return "Balanced detail and precision. Stick strictly to title/description facts; avoid invention."
	}
}

// CompilePrompt assembles the system instruction and the user message
// for one analysis batch. The instruction encodes the full output
// schema, the priority rubric, the department rubric, and the register
// minimums; the user message carries the raw articles as data.
func CompilePrompt(articles []core.RawArticle, filters core.FilterState, length core.SummaryLength, strategyContext string) (system string, user string, err error) {
	count := len(articles)
	lines := length.Lines()

	var filterContext string
	if len(filters.Categories) > 0 || len(filters.Regions) > 0 {
		filterContext = "\nUser is interested in: " +
			strings.Join(filters.Categories, ", ") + " " +
			strings.Join(filters.Regions, ", ")
	}

	var strategySection string
	if trimmed := strings.TrimSpace(strategyContext); trimmed != "" {
		strategySection = fmt.Sprintf("\nCOMPANY STRATEGY CONTEXT (use to tailor 'why_it_matters'):\n%s\n\n", truncate(trimmed, StrategyContextLimit))
	}

	system = fmt.Sprintf(`You are a strategic analyst creating executive briefings for a food company's board of directors.

YOUR TASK:
- Analyze ALL %[1]d articles provided below
- Create executive summaries for EVERY article (even if not directly food-related)
- Extract business implications and strategic insights
- Be creative in finding relevance to food industry, supply chain, or business strategy

EXECUTIVE BRIEFING FORMAT:
- Focus on strategic implications, not just news summaries
- Provide actionable insights for board-level decision making
- Highlight competitive advantages, risks, and opportunities
- Connect news to the company's business strategy and market position

%[2]s
SUMMARY LENGTH & PRECISION:
- Summary length setting: %[3]s
- Article summary must be EXACTLY %[4]d lines long
- Precision guidance: %[5]s

REQUIRED FIELDS for each item:
- title: Keep EXACT original article title
- source: Keep original source
- link: Keep original article URL
- theme: Strategic theme (Agri & Commodity; Policy & Trade; ESG/Energy/Packaging; Competitors/Finance/Governance; Geopolitics & Risks; Tech/Data/Automation; Food Safety/Public Health; Territory/Brand Italy; Communication/Attention Economy)
- priority: Assign based on these STRICT CRITERIA:

  HIGH Priority (immediate board action required):
  - Direct competitor moves (M&A, pricing, new products)
  - Regulatory changes affecting operations/compliance
  - Major supply chain disruptions
  - Food safety incidents/recalls
  - Tariffs/trade policy changes affecting exports
  - Market opportunities >EUR 10M potential

  MEDIUM Priority (monitor and plan):
  - Industry trends and market research
  - Technology/innovation developments
  - Sustainability/ESG initiatives
  - Consumer behavior shifts
  - Regional market changes

  LOW Priority (awareness only):
  - General industry news
  - Distant geographic markets
  - Tangential topics
  - Opinion pieces without actionable data

- why_it_matters: 2-line PRECISE strategic analysis focusing on SPECIFIC business implications for the company; make explicit, concrete links to the COMPANY STRATEGY CONTEXT when supported by it
- region: Italy, EU, USA, Canada
- category: packaging, supply-chain, regulations, competitors, innovation, sustainability
- article_summary: %[4]d-line FAITHFUL summary of article content (NO invention, based ONLY on title/description). Lines must be separated by "\n" and strictly equal to %[4]d lines.
- key_data: Object with key metrics/data strictly extracted from the article (NO invention)
  - Include ONLY facts present in title/description (or explicit figures in content if provided)
  - Prefer exact units and figures: keep symbols (EUR, $, %%, tons, mt), dates (YYYY-MM), named entities
  - Suggested keys when present: market_size, growth_rate, prices, volumes, companies (array), regions (array), key_figures (array of strings), policies (array), dates (array)
  - Use arrays for multi-values; for numbers include units in the string if part of the article
  - Omit keys that are not present; do NOT write placeholders like "unknown"
- relevant_departments: Array of department IDs from [legal, operations, marketing, rd, sustainability, finance, supply-chain, quality] that should receive this article
- strategic_actions: Object mapping department IDs to specific actionable strategies
  - Actions MUST be department-specific, concrete and SMART-like (verb-first, outcome, metric or deliverable, timeframe)
  - Calibrate by priority: if High -> 3 urgent actions max; Medium -> 2 focused actions max; Low -> 1 light action max
  - Avoid overload: never exceed the cap above for any department
  - Only include departments truly impacted (align with department responsibilities)

RISK MANAGEMENT AUGMENTATION (be concise, board-grade):
- risk_register: array of risks with fields {name, type, drivers, likelihood, impact, timeframe, mitigation}
  - MUST include at least 2 concrete, article-grounded risks
  - type in {regulatory, supply_chain, market, reputational, financial, technology, ESG}
  - likelihood in {Low, Medium, High}
  - impact in {Low, Medium, High}
  - timeframe in {Immediate, Short-term, Mid-term, Long-term}
  - mitigation: 1-2 concrete actions aligned with the company strategy context
  - Be faithful to article facts; if data not present, use explicit "Not specified" rather than invent
- opportunity_register: array of opportunities with fields {name, thesis, magnitude, timeframe, actions}
  - MUST include at least 2 concrete, article-grounded opportunities
  - Tie each to the company's strategy context when relevant
  - Prefer quantified/qualified statements; avoid generic wording; if data missing, use "Not specified"

DEPARTMENT ASSIGNMENT RULES:
- legal: regulations, compliance, laws, tariffs, intellectual property, contracts
- operations: production, manufacturing, efficiency, capacity, automation
- marketing: brand, market share, consumer trends, campaigns, positioning
- rd: innovation, research, new products, technology, formulations
- sustainability: ESG, environment, carbon, renewable energy, circular economy
- finance: investment, M&A, costs, revenue, financial performance
- supply-chain: logistics, suppliers, distribution, procurement
- quality: food safety, certifications, quality control, standards

CATEGORIZATION RULES:
- Each article must be assigned to EXACTLY ONE category
- Choose the most relevant category based on primary content focus
- Avoid duplicate categorization - each article belongs to only one category
%[6]s

CRITICAL REQUIREMENT:
You MUST generate EXACTLY %[1]d summaries - one for EACH article below.
DO NOT skip any article. DO NOT filter articles. Analyze ALL %[1]d articles.

OUTPUT: {"items": [%[1]d complete summaries]}
`, count, strategySection, string(length), lines, precisionNote(length), filterContext)

	payload, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode articles for prompt: %w", err)
	}

	user = fmt.Sprintf(`Analyze these %d news articles and create executive summaries.

INPUT_ARTICLES:
%s

IMPORTANT:
- Analyze ONLY the articles above
- Your title should match the original article title
- Do NOT invent articles about topics not in the input

Return ONLY JSON format: {"items":[...]}`, count, payload)

	return system, user, nil
}

// repairSystemPrompt is the instruction for the narrowly-scoped
// register-repair call.
const repairSystemPrompt = `You will augment an analyzed article with precise, faithful RISK and OPPORTUNITY registers.
Constraints:
- Use ONLY information from the provided fields (title, why_it_matters, article_summary, key_data, strategy_context)
- If a specific field value is not present in the article, write "Not specified" (do not invent)
- Keep it concise, board-grade, business-focused, aligned with the company strategy
- Output STRICT JSON with fields {risk_register: [...], opportunity_register: [...]} and at least 2 entries per list`

// compileRepairPrompt builds the user message for one register repair.
func compileRepairPrompt(item core.BriefItem, strategyContext string) (string, error) {
	payload := map[string]any{
		"title":            item.Title,
		"why_it_matters":   item.WhyItMatters,
		"article_summary":  item.ArticleSummary,
		"key_data":         item.KeyData,
		"strategy_context": truncate(strategyContext, repairContextLimit),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode repair payload: %w", err)
	}
	return fmt.Sprintf("Fill missing registers for this article (keep faithful):\n%s", encoded), nil
}

// extractSystemPrompt is the instruction for the extraction-only
// key_data call.
const extractSystemPrompt = `Extract KEY DATA strictly from the provided fields. Do NOT invent. Omit any field not present.
Return STRICT JSON {key_data:{...}} using concise, precise values (units preserved).`

// compileExtractPrompt builds the user message for one key_data
// extraction.
func compileExtractPrompt(item core.BriefItem) (string, error) {
	payload := map[string]any{
		"title":           item.Title,
		"source":          item.Source,
		"why_it_matters":  item.WhyItMatters,
		"article_summary": item.ArticleSummary,
		"key_data":        item.KeyData,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode extraction payload: %w", err)
	}
	return fmt.Sprintf("From this content, extract only factual key_data (omit anything not present):\n%s", encoded), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never leaves a partial
	// UTF-8 sequence in the prompt.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
