package core

import "testing"

func TestActionCap(t *testing.T) {
	tests := []struct {
		priority string
		want     int
	}{
		{PriorityHigh, 3},
		{PriorityMedium, 2},
		{PriorityLow, 1},
		{"", 1},
		{"Urgent", 1},
	}

	for _, tt := range tests {
		item := BriefItem{Priority: tt.priority}
		if got := item.ActionCap(); got != tt.want {
			t.Errorf("ActionCap(%q) = %d, want %d", tt.priority, got, tt.want)
		}
	}
}

func TestSummaryLengthLines(t *testing.T) {
	tests := []struct {
		length SummaryLength
		want   int
	}{
		{SummaryShort, 2},
		{SummaryMedium, 5},
		{SummaryLong, 10},
		{"", 5},
		{"extended", 5},
	}

	for _, tt := range tests {
		if got := tt.length.Lines(); got != tt.want {
			t.Errorf("Lines(%q) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestSummaryLengthTemperature(t *testing.T) {
	if got := SummaryLong.Temperature(); got != 0.05 {
		t.Errorf("long temperature = %v, want 0.05", got)
	}
	if got := SummaryShort.Temperature(); got != 0.1 {
		t.Errorf("short temperature = %v, want 0.1", got)
	}
	if got := SummaryMedium.Temperature(); got != 0.1 {
		t.Errorf("medium temperature = %v, want 0.1", got)
	}
}
