// Package live ties the stop selection, the refresh scheduler and the recent
// stations list together.
package live

import (
	"context"
	"log"

	"bvgview/pkg/board"
	"bvgview/pkg/feed"
	"bvgview/pkg/poller"
	"bvgview/pkg/recent"
	"bvgview/pkg/transit"
)

// Session is one live departure board. Every selection change restarts
// polling for the full selection.
type Session struct {
	board     *board.Board
	recents   *recent.Store
	scheduler *poller.Scheduler
}

// NewSession creates an idle session. recents may be nil.
func NewSession(fetcher poller.DepartureFetcher, recents *recent.Store, opts ...poller.Option) *Session {
	b := board.New()
	return &Session{
		board:     b,
		recents:   recents,
		scheduler: poller.New(fetcher, b, opts...),
	}
}

// Select adds a stop to the board, records it as recent and fetches its
// departures right away. Selecting a stop twice is a no-op.
func (s *Session) Select(ctx context.Context, stop transit.Stop) bool {
	return s.SelectAll(ctx, []transit.Stop{stop}) == 1
}

// SelectAll adds several stops at once and restarts polling a single time.
// Newly added stops are recorded as recent so that the first of them ends up
// in front. It returns how many stops were new.
func (s *Session) SelectAll(ctx context.Context, stops []transit.Stop) int {
	var added []transit.Stop
	for _, stop := range stops {
		if s.board.Select(stop) {
			added = append(added, stop)
		}
	}
	if len(added) == 0 {
		return 0
	}

	if s.recents != nil {
		for i := len(added) - 1; i >= 0; i-- {
			if err := s.recents.Add(ctx, added[i]); err != nil {
				log.Printf("Error saving recent station %s: %v", added[i].ID, err)
			}
		}
	}

	s.scheduler.Start(s.board.StopIDs())
	return len(added)
}

// SelectRecent selects stations from the recent stations list
func (s *Session) SelectRecent(ctx context.Context, stations ...recent.Station) int {
	stops := make([]transit.Stop, 0, len(stations))
	for _, st := range stations {
		stops = append(stops, transit.Stop{ID: st.ID, Name: st.Name})
	}
	return s.SelectAll(ctx, stops)
}

// Deselect removes a stop. Removing the last stop stops polling.
func (s *Session) Deselect(stopID string) bool {
	if !s.board.Deselect(stopID) {
		return false
	}
	s.scheduler.Start(s.board.StopIDs())
	return true
}

// Selected returns the selected stops in selection order
func (s *Session) Selected() []transit.Stop {
	return s.board.Selected()
}

// Feed returns the merged departures of the selected stops
func (s *Session) Feed() []feed.Entry {
	return s.board.Feed()
}

// State reports the scheduler state
func (s *Session) State() poller.State {
	return s.scheduler.State()
}

// Close stops polling for good
func (s *Session) Close() {
	s.scheduler.Close()
}
