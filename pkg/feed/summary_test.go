package feed

import (
	"testing"
	"time"

	"bvgview/pkg/transit"
)

func TestSummarizeByRoute(t *testing.T) {
	now := time.Now().UTC()

	stops := []transit.Stop{{ID: "a", Name: "Alexanderplatz"}}
	byStop := map[string][]transit.Departure{
		"a": {
			{Line: "Bus 200", Direction: "Zoo", When: at(now, 5)},
			{Line: "Bus 200", Direction: "Zoo", When: at(now, 15)},
			{Line: "M4", Direction: "Hackescher Markt", When: at(now, 2)},
			{Line: "Bus 200", Direction: "Zoo", When: at(now, 25)},
			{Line: "M4", Direction: "Hackescher Markt", When: at(now, 12)},
		},
	}

	// Summarize up to 2 departures per route
	summary := SummarizeByRoute(Merge(stops, byStop), 2)

	if len(summary) != 2 {
		t.Fatalf("expected 2 unique routes, got %d", len(summary))
	}

	// First route should be M4 because its first departure is sooner (2 min)
	if summary[0].LineName != "M4" {
		t.Errorf("expected first route to be M4 because it's departing sooner, got %s", summary[0].LineName)
	}
	if summary[0].StationName != "Alexanderplatz" {
		t.Errorf("expected station name to be carried over, got %s", summary[0].StationName)
	}

	if len(summary[1].Entries) != 2 {
		t.Errorf("expected exactly 2 departures for Bus 200 (clipping the 3rd), got %d", len(summary[1].Entries))
	}

	if summary[1].Entries[0].When.After(*summary[1].Entries[1].When) {
		t.Errorf("departures within route are not sorted chronologically")
	}
}

func TestSummarizeByRoute_SameLineAtTwoStops(t *testing.T) {
	now := time.Now()
	stops := []transit.Stop{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	byStop := map[string][]transit.Departure{
		"a": {{Line: "U2", Direction: "Pankow", When: at(now, 1)}},
		"b": {{Line: "U2", Direction: "Pankow", When: at(now, 3)}},
	}

	summary := SummarizeByRoute(Merge(stops, byStop), 3)
	if len(summary) != 2 {
		t.Fatalf("expected the line to be listed once per stop, got %d routes", len(summary))
	}
}

func TestSummarizeByRoute_Empty(t *testing.T) {
	summary := SummarizeByRoute([]Entry{}, 5)
	if len(summary) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(summary))
	}
}
