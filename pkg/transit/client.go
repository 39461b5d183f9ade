package transit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bvgview/internal/logging"

	"github.com/cenkalti/backoff/v4"
)

// DefaultBaseURL is the public VBB transport.rest endpoint
const DefaultBaseURL = "https://v6.vbb.transport.rest"

const (
	userAgent = "bvgview/1.0 (+https://github.com/bvgview/bvgview)"

	// MaxStops caps the number of stops returned by SearchStops
	MaxStops = 5
	// MaxDepartures caps the number of departures returned per stop
	MaxDepartures = 10
	// DepartureWindow is how far ahead departures are requested
	DepartureWindow = 30 * time.Minute

	maxAttempts = 3
)

// Client interacts with the HAFAS transport.rest API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	retryInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API host
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryInterval sets the pause before the first retry; later retries back off exponentially
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       DefaultBaseURL,
		retryInterval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isTransient(status int) bool {
	return status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.RandomizationFactor = 0
	b.Multiplier = 2
	return backoff.WithContext(backoff.WithMaxRetries(b, maxAttempts-1), ctx)
}

// getWithRetries attempts an HTTP GET request up to 3 times for 502/503/504 and transport errors
func (c *Client) getWithRetries(ctx context.Context, reqURL string) (*http.Response, error) {
	attempt := 0
	operation := func() (*http.Response, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		// Public APIs often block default Go user agents
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if isTransient(resp.StatusCode) {
			resp.Body.Close()
			return nil, &UpstreamError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	}

	notify := func(err error, wait time.Duration) {
		logging.Debugf("[Transit API] attempt %d/%d failed (%v), retrying in %s", attempt, maxAttempts, err, wait)
	}

	resp, err := backoff.RetryNotifyWithData(operation, c.newBackOff(ctx), notify)
	if err != nil {
		return nil, fmt.Errorf("failed after %d attempts: %w", attempt, err)
	}
	return resp, nil
}

// getJSON performs the GET and returns the body of a 2xx response.
// Every failure is reported as an *UpstreamError.
func (c *Client) getJSON(ctx context.Context, reqURL string) ([]byte, error) {
	resp, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return nil, asUpstream(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Detail: fmt.Sprintf("failed to read response body: %v", err), Err: err}
	}
	return body, nil
}

func asUpstream(err error) error {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr
	}
	return &UpstreamError{Detail: err.Error(), Err: err}
}

// SearchStops searches for transit stops matching a free-text query.
// A blank query returns no result and performs no request.
func (c *Client) SearchStops(ctx context.Context, query string) ([]Stop, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("results", fmt.Sprint(MaxStops))
	params.Set("fuzzy", "true")
	params.Set("stops", "true")
	params.Set("addresses", "false")
	params.Set("poi", "false")
	reqURL := fmt.Sprintf("%s/locations?%s", c.baseURL, params.Encode())

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	records, ok := decodeRecords(body)
	if !ok {
		logging.Debugf("[Transit API] locations payload for %q is not an array, treating as empty", query)
		return []Stop{}, nil
	}

	return normalizeStops(records, MaxStops), nil
}

// FetchDepartures gets the departures of the next 30 minutes for a stop, at most 10
func (c *Client) FetchDepartures(ctx context.Context, stopID string) ([]Departure, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, fmt.Errorf("stop id: %w", ErrMissingParameter)
	}

	params := url.Values{}
	params.Set("duration", fmt.Sprint(int(DepartureWindow/time.Minute)))
	params.Set("results", fmt.Sprint(MaxDepartures))
	reqURL := fmt.Sprintf("%s/stops/%s/departures?%s", c.baseURL, url.PathEscape(stopID), params.Encode())

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	records, ok := decodeDepartureRecords(body)
	if !ok {
		logging.Debugf("[Transit API] departures payload for stop %s has unexpected shape, treating as empty", stopID)
		return []Departure{}, nil
	}

	return normalizeDepartures(records, MaxDepartures), nil
}
