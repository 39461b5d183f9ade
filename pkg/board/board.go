// Package board holds the stop selection and the latest departures per stop.
package board

import (
	"sync"

	"bvgview/pkg/feed"
	"bvgview/pkg/transit"
)

// Board owns the selected stops and the most recently fetched departures for each.
// Every mutation swaps in fresh values so a reader never sees a half-applied update.
type Board struct {
	mu       sync.RWMutex
	selected []transit.Stop
	byStop   map[string][]transit.Departure
}

func New() *Board {
	return &Board{byStop: make(map[string][]transit.Departure)}
}

// Select appends a stop to the selection. It reports false if the stop was already selected.
func (b *Board) Select(stop transit.Stop) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(stop.ID) >= 0 {
		return false
	}

	next := make([]transit.Stop, len(b.selected), len(b.selected)+1)
	copy(next, b.selected)
	b.selected = append(next, stop)
	return true
}

// Deselect removes a stop and its departures. It reports false if the stop was not selected.
func (b *Board) Deselect(stopID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(stopID)
	if i < 0 {
		return false
	}

	next := make([]transit.Stop, 0, len(b.selected)-1)
	next = append(next, b.selected[:i]...)
	next = append(next, b.selected[i+1:]...)
	b.selected = next

	byStop := make(map[string][]transit.Departure, len(b.byStop))
	for id, deps := range b.byStop {
		if id != stopID {
			byStop[id] = deps
		}
	}
	b.byStop = byStop
	return true
}

// Apply replaces the departures of a stop wholesale. Writes for stops that are no
// longer selected are dropped, so a late response cannot resurrect a removed stop.
func (b *Board) Apply(stopID string, deps []transit.Departure) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(stopID) < 0 {
		return false
	}

	stored := make([]transit.Departure, len(deps))
	copy(stored, deps)

	byStop := make(map[string][]transit.Departure, len(b.byStop)+1)
	for id, d := range b.byStop {
		byStop[id] = d
	}
	byStop[stopID] = stored
	b.byStop = byStop
	return true
}

// Selected returns a copy of the selection in selection order.
func (b *Board) Selected() []transit.Stop {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]transit.Stop, len(b.selected))
	copy(out, b.selected)
	return out
}

// StopIDs returns the ids of the selected stops in selection order.
func (b *Board) StopIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, len(b.selected))
	for i, s := range b.selected {
		ids[i] = s.ID
	}
	return ids
}

// Departures returns the last known departures of a stop.
func (b *Board) Departures(stopID string) ([]transit.Departure, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	deps, ok := b.byStop[stopID]
	return deps, ok
}

// Feed merges the departures of all selected stops.
func (b *Board) Feed() []feed.Entry {
	b.mu.RLock()
	selected, byStop := b.selected, b.byStop
	b.mu.RUnlock()

	// both values are only ever replaced, never mutated in place
	return feed.Merge(selected, byStop)
}

func (b *Board) indexOf(stopID string) int {
	for i, s := range b.selected {
		if s.ID == stopID {
			return i
		}
	}
	return -1
}
