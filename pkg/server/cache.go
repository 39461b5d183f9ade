package server

import (
	"strings"
	"time"

	"bvgview/internal/logging"
	"bvgview/pkg/config"
	"bvgview/pkg/transit"

	"github.com/bluele/gcache"
	"github.com/patrickmn/go-cache"
)

// caches keeps stop searches for minutes and departures for a few seconds,
// so many polling clients share one upstream call per refresh.
// A zero TTL disables the respective cache.
type caches struct {
	stopCache      *cache.Cache
	departureCache gcache.Cache
}

func newCaches(cfg config.ServerConfig) *caches {
	c := &caches{}

	if cfg.StopCacheSeconds > 0 {
		ttl := time.Duration(cfg.StopCacheSeconds) * time.Second
		c.stopCache = cache.New(ttl, 2*ttl)
	}

	if cfg.DepartureCacheSeconds > 0 {
		size := cfg.DepartureCacheSize
		if size <= 0 {
			size = 512
		}
		c.departureCache = gcache.New(size).
			LRU().
			Expiration(time.Duration(cfg.DepartureCacheSeconds) * time.Second).
			Build()
	}

	return c
}

func stopKey(query string) string {
	return "stops:" + strings.ToLower(query)
}

func (c *caches) stops(query string) ([]transit.Stop, bool) {
	if c.stopCache == nil {
		return nil, false
	}
	v, ok := c.stopCache.Get(stopKey(query))
	if !ok {
		return nil, false
	}
	return v.([]transit.Stop), true
}

func (c *caches) putStops(query string, stops []transit.Stop) {
	if c.stopCache == nil {
		return
	}
	c.stopCache.SetDefault(stopKey(query), stops)
}

func (c *caches) departures(stopID string) ([]transit.Departure, bool) {
	if c.departureCache == nil {
		return nil, false
	}
	v, err := c.departureCache.Get(stopID)
	if err != nil {
		return nil, false
	}
	return v.([]transit.Departure), true
}

func (c *caches) putDepartures(stopID string, deps []transit.Departure) {
	if c.departureCache == nil {
		return
	}
	if err := c.departureCache.Set(stopID, deps); err != nil {
		logging.Debugf("could not cache departures for stop %s: %v", stopID, err)
	}
}
