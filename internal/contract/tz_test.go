package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationCacheLoad(t *testing.T) {
	cache := NewLocationCache("UTC")

	// A real zone loads and memoizes
	la := cache.Load("America/Los_Angeles")
	assert.Equal(t, "America/Los_Angeles", la.String())
	assert.Same(t, la, cache.Load("America/Los_Angeles"))

	// Empty and invalid names resolve to the fallback
	assert.Equal(t, cache.Fallback(), cache.Load(""))
	assert.Equal(t, cache.Fallback(), cache.Load("Mars/Olympus_Mons"))
}

func TestLocationCacheBadFallback(t *testing.T) {
	cache := NewLocationCache("Not/A_Zone")
	assert.Equal(t, time.UTC, cache.Fallback())
}

func TestDayKey(t *testing.T) {
	la := time.FixedZone("PST", -8*3600)

	// 2024-01-02 04:30 UTC is still 2024-01-01 in PST
	instant := time.Date(2024, time.January, 2, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", DayKey(instant, time.UTC))
	assert.Equal(t, "2024-01-01", DayKey(instant, la))
}

func TestIsValidTimeZone(t *testing.T) {
	assert.True(t, IsValidTimeZone("UTC"))
	assert.True(t, IsValidTimeZone("America/New_York"))
	assert.False(t, IsValidTimeZone(""))
	assert.False(t, IsValidTimeZone("Mars/Olympus_Mons"))
}
