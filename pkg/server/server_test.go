package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bvgview/pkg/config"
	"bvgview/pkg/transit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu             sync.Mutex
	stopCalls      int
	departureCalls int
	stops          []transit.Stop
	departures     []transit.Departure
	err            error
}

func (f *fakeAPI) SearchStops(ctx context.Context, query string) ([]transit.Stop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stops, f.err
}

func (f *fakeAPI) FetchDepartures(ctx context.Context, stopID string) ([]transit.Departure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.departureCalls++
	return f.departures, f.err
}

func noCache() config.ServerConfig {
	cfg := config.DefaultServerConfig()
	cfg.StopCacheSeconds = 0
	cfg.DepartureCacheSeconds = 0
	return cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func TestStops_MissingQuery(t *testing.T) {
	api := &fakeAPI{}
	h := New(api, noCache()).Handler()

	for _, target := range []string{"/api/stops", "/api/stops?query=", "/api/stops?query=%20%20"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "Query parameter is required", body["error"])
	}
	assert.Zero(t, api.stopCalls)
}

func TestStops_Success(t *testing.T) {
	api := &fakeAPI{stops: []transit.Stop{
		{ID: "900100003", Name: "S+U Alexanderplatz", Location: transit.Location{Latitude: 52.52, Longitude: 13.41}},
	}}
	rec := get(t, New(api, noCache()).Handler(), "/api/stops?query=Alexanderplatz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"900100003","name":"S+U Alexanderplatz","location":{"latitude":52.52,"longitude":13.41}}]`, rec.Body.String())
}

func TestStops_EmptyResultIsArray(t *testing.T) {
	rec := get(t, New(&fakeAPI{}, noCache()).Handler(), "/api/stops?query=nowhere")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStops_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{err: &transit.UpstreamError{StatusCode: 503}}
	rec := get(t, New(api, noCache()).Handler(), "/api/stops?query=Zoo")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Failed to fetch stops", body["error"])
	assert.Equal(t, "API responded with status: 503", body["details"])
}

func TestStops_Cached(t *testing.T) {
	api := &fakeAPI{stops: []transit.Stop{{ID: "1", Name: "Zoo"}}}
	h := New(api, config.DefaultServerConfig()).Handler()

	get(t, h, "/api/stops?query=Zoo")
	rec := get(t, h, "/api/stops?query=zoo")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, api.stopCalls)
}

func TestDepartures_MissingStopID(t *testing.T) {
	api := &fakeAPI{}
	rec := get(t, New(api, noCache()).Handler(), "/api/departures")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Stop ID parameter is required", body["error"])
	assert.Zero(t, api.departureCalls)
}

func TestDepartures_Success(t *testing.T) {
	when := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)
	api := &fakeAPI{departures: []transit.Departure{
		{Line: "S5", Direction: "Spandau", When: &when, Platform: "2", Type: "suburban"},
		{Line: "N/A", Direction: "Unknown", When: nil, Platform: "N/A", Type: "Unknown"},
	}}
	rec := get(t, New(api, noCache()).Handler(), "/api/departures?stopId=900100003")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"line":"S5","direction":"Spandau","when":"2026-02-25T08:00:00Z","platform":"2","type":"suburban"},
		{"line":"N/A","direction":"Unknown","when":null,"platform":"N/A","type":"Unknown"}
	]`, rec.Body.String())
}

func TestDepartures_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{err: &transit.UpstreamError{Detail: "dial tcp: connection refused"}}
	rec := get(t, New(api, noCache()).Handler(), "/api/departures?stopId=1")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Failed to fetch departures", body["error"])
	assert.Equal(t, "dial tcp: connection refused", body["details"])
}

func TestDepartures_ShortLivedCache(t *testing.T) {
	api := &fakeAPI{departures: []transit.Departure{{Line: "U2"}}}
	h := New(api, config.DefaultServerConfig()).Handler()

	get(t, h, "/api/departures?stopId=1")
	get(t, h, "/api/departures?stopId=1")
	get(t, h, "/api/departures?stopId=2")

	assert.Equal(t, 2, api.departureCalls)
}

func TestDepartures_FailuresAreNotCached(t *testing.T) {
	api := &fakeAPI{err: &transit.UpstreamError{StatusCode: 500}}
	h := New(api, config.DefaultServerConfig()).Handler()

	get(t, h, "/api/departures?stopId=1")
	get(t, h, "/api/departures?stopId=1")

	assert.Equal(t, 2, api.departureCalls)
}

func TestMiddleware_RequestID(t *testing.T) {
	h := New(&fakeAPI{}, noCache()).Handler()

	rec := get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMiddleware_RecoversFromPanic(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	cfg := noCache()
	cfg.AllowedOrigins = []string{"http://localhost:3000"}
	h := New(&fakeAPI{}, cfg).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/departures?stopId=1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
