package mailbox

import (
	"testing"
	"time"

	"boardbrief/internal/core"
	"boardbrief/internal/departments"
	"boardbrief/internal/tailor"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDispatch(dept departments.ID, approvedAt time.Time) tailor.Dispatch {
	return tailor.Dispatch{
		DepartmentID: dept,
		Item: core.BriefItem{
			Title:          "EU packaging directive tightens recycled content targets",
			Priority:       core.PriorityHigh,
			ArticleSummary: "Board summary.",
			KeyData:        map[string]any{"effective": "2026"},
		},
		TailoredSummary: "Tailored for " + string(dept),
		Tailored:        true,
		ApprovedAt:      approvedAt,
	}
}

func TestAppendDispatchesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	stored, err := store.AppendDispatches([]tailor.Dispatch{
		testDispatch(departments.Legal, now.Add(-time.Hour)),
		testDispatch(departments.Legal, now),
		testDispatch(departments.Operations, now),
	})
	if err != nil {
		t.Fatalf("AppendDispatches failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored dispatches, got %d", len(stored))
	}
	for _, rec := range stored {
		if rec.ID == "" {
			t.Error("stored dispatch missing ID")
		}
	}

	inbox, err := store.ListByDepartment(string(departments.Legal))
	if err != nil {
		t.Fatalf("ListByDepartment failed: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("expected 2 legal dispatches, got %d", len(inbox))
	}
	if !inbox[0].ApprovedAt.After(inbox[1].ApprovedAt) {
		t.Error("expected newest dispatch first")
	}

	got := inbox[0].Item
	if got.Title != "EU packaging directive tightens recycled content targets" {
		t.Errorf("item title lost in round trip: %q", got.Title)
	}
	if got.Priority != core.PriorityHigh {
		t.Errorf("item priority lost in round trip: %q", got.Priority)
	}
	if got.KeyData["effective"] != "2026" {
		t.Errorf("key data lost in round trip: %v", got.KeyData)
	}
	if inbox[0].TailoredSummary != "Tailored for legal" {
		t.Errorf("unexpected tailored summary: %q", inbox[0].TailoredSummary)
	}
	if !inbox[0].Tailored {
		t.Error("tailored flag lost in round trip")
	}
}

func TestListByDepartmentEmpty(t *testing.T) {
	store := newTestStore(t)

	inbox, err := store.ListByDepartment(string(departments.Finance))
	if err != nil {
		t.Fatalf("ListByDepartment failed: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("expected empty inbox, got %d entries", len(inbox))
	}
}

func TestAppendProposalRoundTrip(t *testing.T) {
	store := newTestStore(t)

	review := tailor.Review{
		Summary:     "Solid plan with realistic timelines.",
		Strengths:   []string{"clear owner", "costed"},
		Gaps:        []string{"no supplier fallback"},
		Feasibility: []string{"high within current budget"},
	}

	rec, err := store.AppendProposal(string(departments.Legal), "EU packaging directive", "Map exposure across product lines", review)
	if err != nil {
		t.Fatalf("AppendProposal failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("stored proposal missing ID")
	}

	all, err := store.ListProposals("")
	if err != nil {
		t.Fatalf("ListProposals failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(all))
	}
	got := all[0]
	if got.ArticleTitle != "EU packaging directive" {
		t.Errorf("unexpected article title: %q", got.ArticleTitle)
	}
	if got.Review.Summary != review.Summary {
		t.Errorf("review summary lost in round trip: %q", got.Review.Summary)
	}
	if len(got.Review.Strengths) != 2 || got.Review.Strengths[0] != "clear owner" {
		t.Errorf("review strengths lost in round trip: %v", got.Review.Strengths)
	}
}

func TestListProposalsFiltersByDepartment(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.AppendProposal(string(departments.Legal), "a", "act", tailor.Review{}); err != nil {
		t.Fatalf("AppendProposal failed: %v", err)
	}
	if _, err := store.AppendProposal(string(departments.Operations), "b", "act", tailor.Review{}); err != nil {
		t.Fatalf("AppendProposal failed: %v", err)
	}

	legal, err := store.ListProposals(string(departments.Legal))
	if err != nil {
		t.Fatalf("ListProposals failed: %v", err)
	}
	if len(legal) != 1 || legal[0].DepartmentID != string(departments.Legal) {
		t.Errorf("expected only legal proposals, got %v", legal)
	}

	all, err := store.ListProposals("")
	if err != nil {
		t.Fatalf("ListProposals failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 proposals, got %d", len(all))
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.AppendDispatches([]tailor.Dispatch{testDispatch(departments.Quality, time.Now().UTC())}); err != nil {
		t.Fatalf("AppendDispatches failed: %v", err)
	}
	store.Close()

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	inbox, err := reopened.ListByDepartment(string(departments.Quality))
	if err != nil {
		t.Fatalf("ListByDepartment failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Errorf("expected 1 dispatch after reopen, got %d", len(inbox))
	}
}
