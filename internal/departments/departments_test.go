package departments

import "testing"

func TestRegistryHasEightDepartments(t *testing.T) {
	if len(All) != 8 {
		t.Fatalf("expected 8 departments, got %d", len(All))
	}

	seen := map[ID]bool{}
	for _, d := range All {
		if seen[d.ID] {
			t.Errorf("duplicate department id %q", d.ID)
		}
		seen[d.ID] = true
		if len(d.Keywords) == 0 {
			t.Errorf("department %q has no keywords", d.ID)
		}
		if len(d.Responsibilities) == 0 {
			t.Errorf("department %q has no responsibilities", d.ID)
		}
	}
}

func TestGet(t *testing.T) {
	dept, ok := Get(SupplyChain)
	if !ok {
		t.Fatal("supply-chain department missing")
	}
	if dept.ID != "supply-chain" {
		t.Errorf("unexpected id %q", dept.ID)
	}

	if _, ok := Get(ID("astrology")); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestValid(t *testing.T) {
	if !Valid(Legal) {
		t.Error("legal should be valid")
	}
	if Valid(ID("")) {
		t.Error("empty id should be invalid")
	}
}

func TestRelevantMatchesKeywords(t *testing.T) {
	ids := Relevant("New EU regulation raises compliance requirements for tariffs")

	found := false
	for _, id := range ids {
		if id == Legal {
			found = true
		}
	}
	if !found {
		t.Errorf("expected legal in %v", ids)
	}
}

func TestRelevantCaseInsensitive(t *testing.T) {
	lower := Relevant("new sustainability push cuts carbon emissions")
	upper := Relevant("NEW SUSTAINABILITY PUSH CUTS CARBON EMISSIONS")

	if len(lower) != len(upper) {
		t.Errorf("matching should be case-insensitive: %v vs %v", lower, upper)
	}
}

func TestRelevantFallsBackToOperations(t *testing.T) {
	ids := Relevant("completely unrelated text about astronomy")

	if len(ids) != 1 || ids[0] != Operations {
		t.Errorf("expected operations fallback, got %v", ids)
	}
}
