// Package recent keeps a small most-recently-used list of selected stops.
package recent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bvgview/internal/logging"
	"bvgview/pkg/kvstore"
	"bvgview/pkg/transit"
)

const (
	// MaxStations is the capacity of the list
	MaxStations = 5
	// StorageKey is the key the list is persisted under
	StorageKey = "recentStations"
)

// Station is a previously selected stop. Timestamp is serialised as Unix milliseconds.
type Station struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"-"`
}

type stationJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

func (s Station) MarshalJSON() ([]byte, error) {
	return json.Marshal(stationJSON{ID: s.ID, Name: s.Name, Timestamp: s.Timestamp.UnixMilli()})
}

func (s *Station) UnmarshalJSON(data []byte) error {
	var raw stationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Station{ID: raw.ID, Name: raw.Name, Timestamp: time.UnixMilli(raw.Timestamp)}
	return nil
}

// Store is the persisted recent stations list, most recent first
type Store struct {
	kv  kvstore.KV
	now func() time.Time

	mu       sync.Mutex
	stations []Station
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New loads the list from kv. A missing or unreadable value yields an empty list.
func New(ctx context.Context, kv kvstore.KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.stations = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Station {
	data, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		logging.Debugf("could not read recent stations: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var stations []Station
	if err := json.Unmarshal(data, &stations); err != nil {
		logging.Debugf("ignoring corrupt recent stations record: %v", err)
		return nil
	}

	// drop duplicates and overflow a hand-edited record may contain
	seen := make(map[string]bool, len(stations))
	clean := make([]Station, 0, MaxStations)
	for _, st := range stations {
		if st.ID == "" || seen[st.ID] || len(clean) == MaxStations {
			continue
		}
		seen[st.ID] = true
		clean = append(clean, st)
	}
	return clean
}

// Add moves stop to the front with a fresh timestamp and persists the list.
// The in-memory list is updated even if persisting fails.
func (s *Store) Add(ctx context.Context, stop transit.Stop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]Station, 0, MaxStations)
	updated = append(updated, Station{ID: stop.ID, Name: stop.Name, Timestamp: s.now()})
	for _, st := range s.stations {
		if st.ID != stop.ID {
			updated = append(updated, st)
		}
	}
	if len(updated) > MaxStations {
		updated = updated[:MaxStations]
	}
	s.stations = updated

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to serialize recent stations: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist recent stations: %w", err)
	}
	return nil
}

// Clear empties the list and removes the persisted record
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stations = nil
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear recent stations: %w", err)
	}
	return nil
}

// List returns a copy of the list, most recent first
func (s *Store) List() []Station {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Station, len(s.stations))
	copy(out, s.stations)
	return out
}
