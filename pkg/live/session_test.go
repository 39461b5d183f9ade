package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"bvgview/pkg/kvstore"
	"bvgview/pkg/poller"
	"bvgview/pkg/recent"
	"bvgview/pkg/transit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	deps  map[string][]transit.Departure
	fail  map[string]bool
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		calls: map[string]int{},
		deps:  map[string][]transit.Departure{},
		fail:  map[string]bool{},
	}
}

func (f *countingFetcher) FetchDepartures(ctx context.Context, stopID string) ([]transit.Departure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[stopID]++
	if f.fail[stopID] {
		return nil, &transit.UpstreamError{StatusCode: 500}
	}
	return f.deps[stopID], nil
}

func (f *countingFetcher) count(stopID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[stopID]
}

func (f *countingFetcher) script(stopID string, deps []transit.Departure, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deps[stopID] = deps
	f.fail[stopID] = fail
}

func minutesFrom(base time.Time, m int) *time.Time {
	t := base.Add(time.Duration(m) * time.Minute)
	return &t
}

func TestSession_SelectFetchesAndRecordsRecent(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()
	recents := recent.New(ctx, kvstore.NewMemoryStore())

	s := NewSession(fetcher, recents, poller.WithInterval(time.Hour))
	defer s.Close()

	stop := transit.Stop{ID: "900100003", Name: "S+U Alexanderplatz"}
	assert.True(t, s.Select(ctx, stop))
	assert.False(t, s.Select(ctx, stop))

	assert.Equal(t, poller.Active, s.State())
	require.Eventually(t, func() bool { return fetcher.count("900100003") >= 1 }, time.Second, 5*time.Millisecond)

	require.Len(t, recents.List(), 1)
	assert.Equal(t, "S+U Alexanderplatz", recents.List()[0].Name)
}

func TestSession_MergedFeedAcrossStops(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(time.Minute)
	fetcher := newCountingFetcher()
	fetcher.script("a", []transit.Departure{
		{Line: "a1", When: minutesFrom(base, 3)},
		{Line: "a2", When: nil},
		{Line: "a3", When: minutesFrom(base, 1)},
	}, false)
	fetcher.script("b", []transit.Departure{
		{Line: "b1", When: minutesFrom(base, 2)},
		{Line: "b2", When: nil},
		{Line: "b3", When: minutesFrom(base, 4)},
	}, false)

	s := NewSession(fetcher, nil, poller.WithInterval(time.Hour))
	defer s.Close()

	s.Select(ctx, transit.Stop{ID: "a", Name: "A"})
	s.Select(ctx, transit.Stop{ID: "b", Name: "B"})

	require.Eventually(t, func() bool { return len(s.Feed()) == 6 }, time.Second, 5*time.Millisecond)

	var lines []string
	for _, e := range s.Feed() {
		lines = append(lines, e.Line)
	}
	assert.Equal(t, []string{"a3", "b1", "a1", "b3", "a2", "b2"}, lines)
}

func TestSession_FailedStopKeepsPreviousDepartures(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(time.Minute)
	fetcher := newCountingFetcher()
	fetcher.script("a", []transit.Departure{{Line: "a-old", When: minutesFrom(base, 1)}}, false)
	fetcher.script("b", []transit.Departure{{Line: "b-old", When: minutesFrom(base, 2)}}, false)

	s := NewSession(fetcher, nil, poller.WithInterval(20*time.Millisecond))
	defer s.Close()

	s.Select(ctx, transit.Stop{ID: "a", Name: "A"})
	s.Select(ctx, transit.Stop{ID: "b", Name: "B"})
	require.Eventually(t, func() bool { return len(s.Feed()) == 2 }, time.Second, 5*time.Millisecond)

	fetcher.script("a", nil, true)
	fetcher.script("b", []transit.Departure{{Line: "b-new", When: minutesFrom(base, 2)}}, false)

	require.Eventually(t, func() bool {
		feed := s.Feed()
		return len(feed) == 2 && feed[1].Line == "b-new"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "a-old", s.Feed()[0].Line)
}

func TestSession_RemovingLastStopStopsPolling(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()

	s := NewSession(fetcher, nil, poller.WithInterval(10*time.Millisecond))
	defer s.Close()

	s.Select(ctx, transit.Stop{ID: "a"})
	require.Eventually(t, func() bool { return fetcher.count("a") >= 2 }, time.Second, 5*time.Millisecond)

	assert.True(t, s.Deselect("a"))
	assert.False(t, s.Deselect("a"))
	assert.Equal(t, poller.Idle, s.State())
	assert.Empty(t, s.Feed())

	time.Sleep(20 * time.Millisecond)
	settled := fetcher.count("a")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fetcher.count("a"))
}

func TestSession_SelectRecentMovesItToFront(t *testing.T) {
	ctx := context.Background()
	recents := recent.New(ctx, kvstore.NewMemoryStore())
	require.NoError(t, recents.Add(ctx, transit.Stop{ID: "1", Name: "One"}))
	require.NoError(t, recents.Add(ctx, transit.Stop{ID: "2", Name: "Two"}))

	s := NewSession(newCountingFetcher(), recents, poller.WithInterval(time.Hour))
	defer s.Close()

	oldest := recents.List()[1]
	assert.Equal(t, 1, s.SelectRecent(ctx, oldest))

	list := recents.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "One", s.Selected()[0].Name)
}

func TestSession_SelectAllFetchesEachStopOnce(t *testing.T) {
	ctx := context.Background()
	fetcher := newCountingFetcher()

	s := NewSession(fetcher, nil, poller.WithInterval(time.Hour))
	defer s.Close()

	stops := []transit.Stop{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "b"}}
	assert.Equal(t, 3, s.SelectAll(ctx, stops))
	assert.Equal(t, 0, s.SelectAll(ctx, stops))

	require.Eventually(t, func() bool {
		return fetcher.count("a") == 1 && fetcher.count("b") == 1 && fetcher.count("c") == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, fetcher.count("a"))
	assert.Equal(t, 1, fetcher.count("c"))
}

func TestSession_SelectRecentKeepsRecentOrder(t *testing.T) {
	ctx := context.Background()
	recents := recent.New(ctx, kvstore.NewMemoryStore())
	for _, id := range []string{"c", "b", "a"} {
		require.NoError(t, recents.Add(ctx, transit.Stop{ID: id, Name: id}))
	}

	s := NewSession(newCountingFetcher(), recents, poller.WithInterval(time.Hour))
	defer s.Close()

	assert.Equal(t, 3, s.SelectRecent(ctx, recents.List()...))

	var ids []string
	for _, st := range recents.List() {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	var selected []string
	for _, st := range s.Selected() {
		selected = append(selected, st.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, selected)
}
