package feed

import (
	"sort"
	"time"

	"bvgview/pkg/transit"
)

// Entry is a departure tagged with the stop it leaves from
type Entry struct {
	transit.Departure
	StopID      string `json:"stopId"`
	StationName string `json:"stationName"`
}

// Merge combines the departures of all selected stops into one feed,
// ordered by departure time. Departures without a time go last. Entries with
// equal times keep selection order, then upstream order.
//
// Map entries for stops that are not selected are ignored. Merge does not
// modify its inputs.
func Merge(selected []transit.Stop, byStop map[string][]transit.Departure) []Entry {
	total := 0
	for _, s := range selected {
		total += len(byStop[s.ID])
	}

	entries := make([]Entry, 0, total)
	for _, s := range selected {
		for _, d := range byStop[s.ID] {
			entries = append(entries, Entry{Departure: d, StopID: s.ID, StationName: s.Name})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return before(entries[i].When, entries[j].When)
	})

	return entries
}

// before orders defined times ascending and places nil after all of them
func before(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
