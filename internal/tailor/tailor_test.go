package tailor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"boardbrief/internal/core"
	"boardbrief/internal/departments"
	"boardbrief/internal/llm"
)

type fakeCompleter struct {
	mu        sync.Mutex
	response  string
	err       error
	systems   []string
	failFor   string // substring of the system prompt that triggers err
	responses map[string]string
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systems = append(f.systems, req.System)
	if f.err != nil && (f.failFor == "" || strings.Contains(req.System, f.failFor)) {
		return "", f.err
	}
	for marker, resp := range f.responses {
		if strings.Contains(req.System, marker) {
			return resp, nil
		}
	}
	return f.response, nil
}

func testItem() core.BriefItem {
	return core.BriefItem{
		Title:               "EU packaging directive tightens",
		Source:              "Food Wire",
		Link:                "https://example.com/directive",
		Priority:            core.PriorityHigh,
		WhyItMatters:        "Raises compliance costs for exports.",
		ArticleSummary:      "line one\nline two",
		RelevantDepartments: []string{"legal", "operations"},
		StrategicActions: map[string][]string{
			"legal":      {"Map the new requirements"},
			"operations": {"Audit packaging lines"},
		},
	}
}

func TestTailorClampsToFourLines(t *testing.T) {
	completer := &fakeCompleter{response: "one\ntwo\n\nthree\nfour\nfive\nsix"}
	tailorer := NewTailorer(completer)

	summary, err := tailorer.Tailor(context.Background(), testItem(), departments.Legal, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(summary, "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d: %q", len(lines), summary)
	}
	if lines[0] != "one" || lines[3] != "four" {
		t.Errorf("blank lines should be dropped before clamping: %q", summary)
	}
}

func TestTailorUnknownDepartment(t *testing.T) {
	tailorer := NewTailorer(&fakeCompleter{response: "x"})

	_, err := tailorer.Tailor(context.Background(), testItem(), departments.ID("astrology"), nil, "")
	if !errors.Is(err, ErrUnknownDepartment) {
		t.Errorf("expected ErrUnknownDepartment, got %v", err)
	}
}

func TestTailorPromptCarriesActionsAndContext(t *testing.T) {
	completer := &fakeCompleter{response: "tailored"}
	tailorer := NewTailorer(completer)

	actions := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"}
	longContext := strings.Repeat("c", strategyCtxCap+100)

	if _, err := tailorer.Tailor(context.Background(), testItem(), departments.Operations, actions, longContext); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system := completer.systems[0]
	if !strings.Contains(system, "a6") {
		t.Error("sixth action missing from prompt")
	}
	if strings.Contains(system, "a7") {
		t.Error("actions beyond six should be dropped")
	}
	if strings.Contains(system, strings.Repeat("c", strategyCtxCap+1)) {
		t.Error("strategy context not capped")
	}
	if !strings.Contains(system, "EU packaging directive tightens") {
		t.Error("article title missing from prompt")
	}
}

func TestDistributeFansOutToRelevantDepartments(t *testing.T) {
	completer := &fakeCompleter{response: "dept summary"}
	tailorer := NewTailorer(completer)

	dispatches := tailorer.Distribute(context.Background(), testItem(), "")

	if len(dispatches) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(dispatches))
	}
	seen := map[departments.ID]bool{}
	for _, d := range dispatches {
		seen[d.DepartmentID] = true
		if !d.Tailored {
			t.Errorf("dispatch for %s should be tailored", d.DepartmentID)
		}
		if d.TailoredSummary != "dept summary" {
			t.Errorf("unexpected summary for %s: %q", d.DepartmentID, d.TailoredSummary)
		}
	}
	if !seen[departments.Legal] || !seen[departments.Operations] {
		t.Errorf("missing departments in dispatches: %v", seen)
	}
}

func TestDistributeFallsBackOnTailorError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model down")}
	tailorer := NewTailorer(completer)
	item := testItem()

	dispatches := tailorer.Distribute(context.Background(), item, "")

	if len(dispatches) != 2 {
		t.Fatalf("failed tailoring must still dispatch, got %d", len(dispatches))
	}
	for _, d := range dispatches {
		if d.Tailored {
			t.Errorf("dispatch for %s should not be marked tailored", d.DepartmentID)
		}
		if d.TailoredSummary != item.ArticleSummary {
			t.Errorf("expected board summary fallback for %s, got %q", d.DepartmentID, d.TailoredSummary)
		}
	}
}

func TestDistributeNoDepartments(t *testing.T) {
	tailorer := NewTailorer(&fakeCompleter{response: "x"})
	item := testItem()
	item.RelevantDepartments = nil

	if dispatches := tailorer.Distribute(context.Background(), item, ""); dispatches != nil {
		t.Errorf("expected no dispatches, got %v", dispatches)
	}
}

func TestReviewProposalNormalizes(t *testing.T) {
	strengths := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		strengths = append(strengths, "strength")
	}
	response := `{
		"summary": "` + strings.Repeat("s", 1300) + `",
		"strengths": ["  first  ", "", "second"],
		"gaps": "not a list",
		"risks": ` + jsonStrings(strengths) + `
	}`
	completer := &fakeCompleter{response: response}
	tailorer := NewTailorer(completer)

	review, err := tailorer.ReviewProposal(context.Background(), ProposalInput{DepartmentID: "legal", ProposalText: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(review.Summary) != reviewSummaryCap {
		t.Errorf("summary not capped: %d", len(review.Summary))
	}
	if len(review.Strengths) != 2 || review.Strengths[0] != "first" {
		t.Errorf("strengths not trimmed and filtered: %v", review.Strengths)
	}
	if len(review.Gaps) != 0 {
		t.Errorf("wrong-typed list should be empty, got %v", review.Gaps)
	}
	if len(review.Risks) != reviewListCap {
		t.Errorf("risks not capped at %d, got %d", reviewListCap, len(review.Risks))
	}
}

func TestReviewProposalUndecodableYieldsEmptyReview(t *testing.T) {
	completer := &fakeCompleter{response: "not json at all"}
	tailorer := NewTailorer(completer)

	review, err := tailorer.ReviewProposal(context.Background(), ProposalInput{DepartmentID: "legal"})
	if err != nil {
		t.Fatalf("undecodable screening should not error: %v", err)
	}
	if review.Summary != "" || len(review.Strengths) != 0 {
		t.Errorf("expected empty review, got %+v", review)
	}
}

func TestClampKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("à", 5)

	out := clamp(s, 5)

	if !utf8.ValidString(out) {
		t.Errorf("clamp split a rune: %q", out)
	}
	if out != strings.Repeat("à", 2) {
		t.Errorf("expected two runes, got %q", out)
	}
	if got := clamp("short", 10); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
}

func jsonStrings(list []string) string {
	var b strings.Builder
	b.WriteString("[")
	for i, s := range list {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + s + `"`)
	}
	b.WriteString("]")
	return b.String()
}
