package tailor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"boardbrief/internal/llm"
	"boardbrief/internal/logger"
)

const (
	reviewListCap     = 10
	reviewSummaryCap  = 1200
	reviewProposalCap = 25000
	reviewStrategyCap = 2000
	reviewTemp        = 0.1
	reviewMaxTokens   = 1800
)

// ProposalInput carries everything the board screening needs about a
// department proposal.
type ProposalInput struct {
	DepartmentID    string
	ArticleTitle    string
	ArticleLink     string
	ArticleWhy      string
	ArticleSummary  string
	ActionText      string
	StrategyContext string
	ProposalText    string
}

// Review is the structured board screening of one proposal.
type Review struct {
	Summary                string   `json:"summary"`
	Strengths              []string `json:"strengths"`
	Gaps                   []string `json:"gaps"`
	Risks                  []string `json:"risks"`
	Feasibility            []string `json:"feasibility"`
	RecommendedAdjustments []string `json:"recommended_adjustments"`
	NextSteps              []string `json:"next_steps"`
}

const reviewSystemPrompt = `You are the Board's AI assistant at a food company. Review a department proposal against:
- Article content (facts only), Board-requested action, and company strategy context.
Constraints:
- Be precise, board-grade; DO NOT invent beyond the proposal / provided fields
- Tie every point to article facts or strategy context, avoid generic phrasing
- Output STRICT JSON with keys:
  {summary, strengths[], gaps[], risks[], feasibility[], recommended_adjustments[], next_steps[]}`

// ReviewProposal screens a department proposal with one model call and
// normalizes the result. A response that fails to decode yields an
// empty Review rather than an error; the caller decides how to present
// a blank screening.
func (t *Tailorer) ReviewProposal(ctx context.Context, in ProposalInput) (Review, error) {
	payload := map[string]any{
		"department": in.DepartmentID,
		"article": map[string]string{
			"title":          in.ArticleTitle,
			"link":           in.ArticleLink,
			"why_it_matters": in.ArticleWhy,
			"summary":        in.ArticleSummary,
		},
		"action_requested": in.ActionText,
		"strategy_context": clamp(in.StrategyContext, reviewStrategyCap),
		"proposal_text":    clamp(in.ProposalText, reviewProposalCap),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Review{}, fmt.Errorf("failed to encode proposal payload: %w", err)
	}

	raw, err := t.completer.Complete(ctx, llm.Request{
		System:      reviewSystemPrompt,
		User:        fmt.Sprintf("Analyze the proposal strictly based on text. Return JSON only.\n%s", encoded),
		Temperature: reviewTemp,
		MaxTokens:   reviewMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return Review{}, fmt.Errorf("proposal screening call failed: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		logger.Warn("proposal screening response did not decode", "department", in.DepartmentID)
		parsed = map[string]any{}
	}

	return Review{
		Summary:                clamp(stringField(parsed["summary"]), reviewSummaryCap),
		Strengths:              normList(parsed["strengths"]),
		Gaps:                   normList(parsed["gaps"]),
		Risks:                  normList(parsed["risks"]),
		Feasibility:            normList(parsed["feasibility"]),
		RecommendedAdjustments: normList(parsed["recommended_adjustments"]),
		NextSteps:              normList(parsed["next_steps"]),
	}, nil
}

func normList(value any) []string {
	raw, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		s, ok := el.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) >= reviewListCap {
			break
		}
	}
	return out
}

func stringField(value any) string {
	s, _ := value.(string)
	return s
}

func clamp(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
