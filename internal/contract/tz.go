package contract

import (
	"sync"
	"time"
)

// DayKeyLayout is the canonical YYYY-MM-DD day key format. Keys built with
// it sort lexicographically in chronological order.
const DayKeyLayout = "2006-01-02"

// LocationCache memoizes timezone lookups and owns the invalid-timezone
// fallback policy: a bad zone name never fails, it resolves to the
// configured fallback. Construct one explicitly and pass it in; there is
// no package-global instance.
type LocationCache struct {
	mu       sync.Mutex
	locs     map[string]*time.Location
	fallback *time.Location
}

// NewLocationCache creates a cache that falls back to the given zone name.
// An unloadable fallback degrades to UTC.
func NewLocationCache(fallback string) *LocationCache {
	loc, err := time.LoadLocation(fallback)
	if err != nil {
		loc = time.UTC
	}
	return &LocationCache{
		locs:     make(map[string]*time.Location),
		fallback: loc,
	}
}

// Load resolves a timezone name, memoizing the result. Empty or invalid
// names resolve to the fallback zone.
func (c *LocationCache) Load(name string) *time.Location {
	if name == "" {
		return c.fallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if loc, ok := c.locs[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = c.fallback
	}
	c.locs[name] = loc
	return loc
}

// Fallback returns the cache's fallback location.
func (c *LocationCache) Fallback() *time.Location {
	return c.fallback
}

// DayKey formats an instant as the local calendar day key in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// IsValidTimeZone reports whether name loads as an IANA zone.
func IsValidTimeZone(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
