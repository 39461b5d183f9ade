// Package poller keeps the departures of the selected stops fresh.
package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"bvgview/pkg/transit"
)

// DefaultInterval is the refresh period of the live board
const DefaultInterval = 10 * time.Second

// DepartureFetcher loads the upcoming departures of one stop
type DepartureFetcher interface {
	FetchDepartures(ctx context.Context, stopID string) ([]transit.Departure, error)
}

// Sink receives the departures of a stop after a successful fetch.
// It reports whether the write was accepted.
type Sink interface {
	Apply(stopID string, deps []transit.Departure) bool
}

// State is the lifecycle state of a Scheduler
type State int

const (
	// Idle means no stops are selected and no timer is armed
	Idle State = iota
	// Active means at least one stop is selected and the timer is armed
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Scheduler fetches departures for the current selection immediately on every
// selection change and then on a fixed period. Fetch rounds are not serialised:
// a new round starts without waiting for the previous one.
type Scheduler struct {
	fetcher  DepartureFetcher
	sink     Sink
	interval time.Duration
	onUpdate func(stopID string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	stopIDs    []string
	generation int
	disarm     context.CancelFunc
	tickerDone chan struct{}
	closed     bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval overrides the refresh period
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOnUpdate registers a callback fired after a stop's departures were replaced
func WithOnUpdate(fn func(stopID string)) Option {
	return func(s *Scheduler) {
		s.onUpdate = fn
	}
}

func New(fetcher DepartureFetcher, sink Sink, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		fetcher:  fetcher,
		sink:     sink,
		interval: DefaultInterval,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start replaces the polled selection and runs a fetch round for all of it.
// The timer is armed if it was not running already. An empty selection
// behaves like Stop.
func (s *Scheduler) Start(stopIDs []string) {
	if len(stopIDs) == 0 {
		s.Stop()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	ids := make([]string, len(stopIDs))
	copy(ids, stopIDs)
	s.stopIDs = ids

	if s.state == Idle {
		s.armLocked()
		s.state = Active
	}

	s.fetchRound(ids)
}

// Stop disarms the timer and returns to Idle. No new rounds start once it returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	done := s.disarmLocked()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close disarms the timer, cancels in-flight fetches and waits for them to return.
// The scheduler ignores Start afterwards.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	done := s.disarmLocked()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	s.cancel()
	s.wg.Wait()
}

// State reports whether the timer is armed
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) armLocked() {
	s.generation++
	ctx, disarm := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.disarm = disarm
	s.tickerDone = done

	go s.tick(ctx, s.generation, done)
}

func (s *Scheduler) disarmLocked() chan struct{} {
	s.state = Idle
	s.stopIDs = nil
	if s.disarm == nil {
		return nil
	}

	s.disarm()
	done := s.tickerDone
	s.disarm = nil
	s.tickerDone = nil
	return done
}

func (s *Scheduler) tick(ctx context.Context, generation int, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if ctx.Err() == nil && s.generation == generation && s.state == Active {
				s.fetchRound(s.stopIDs)
			}
			s.mu.Unlock()
		}
	}
}

// fetchRound issues one independent fetch per stop
func (s *Scheduler) fetchRound(stopIDs []string) {
	for _, id := range stopIDs {
		s.wg.Add(1)
		go func(stopID string) {
			defer s.wg.Done()
			s.refresh(stopID)
		}(id)
	}
}

func (s *Scheduler) refresh(stopID string) {
	deps, err := s.fetcher.FetchDepartures(s.ctx, stopID)
	if err != nil {
		// keep showing the last known departures
		log.Printf("Error fetching departures for stop %s: %v", stopID, err)
		return
	}

	if s.sink.Apply(stopID, deps) && s.onUpdate != nil {
		s.onUpdate(stopID)
	}
}
