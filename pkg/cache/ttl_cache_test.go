package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (f *fakeClock) now() time.Time {
	return f.current
}

func (f *fakeClock) advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newTestCache(defaultTTL time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCache(defaultTTL)
	c.now = clock.now
	return c, clock
}

func Test_GetOrCompute_ReturnsCachedValueWithoutRecomputing(t *testing.T) {
	c, _ := newTestCache(100 * time.Millisecond)

	first, err := c.GetOrCompute("agg:today", func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, first)

	secondComputed := false
	second, err := c.GetOrCompute("agg:today", func() (interface{}, error) {
		secondComputed = true
		return 99, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, second)
	assert.False(t, secondComputed)
}

func Test_GetOrCompute_RecomputesExactlyOnceAfterExpiry(t *testing.T) {
	c, clock := newTestCache(100 * time.Millisecond)

	_, err := c.GetOrCompute("agg:today", func() (interface{}, error) {
		return "first", nil
	})
	require.NoError(t, err)

	clock.advance(150 * time.Millisecond)

	calls := 0
	value, err := c.GetOrCompute("agg:today", func() (interface{}, error) {
		calls++
		return "second", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", value)
	assert.Equal(t, 1, calls)

	// Fresh again, so a further read must not recompute.
	value, err = c.GetOrCompute("agg:today", func() (interface{}, error) {
		calls++
		return "third", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", value)
	assert.Equal(t, 1, calls)
}

func Test_GetOrCompute_PropagatesComputeErrorUncached(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	computeErr := errors.New("aggregate query failed")
	_, err := c.GetOrCompute("agg:broken", func() (interface{}, error) {
		return nil, computeErr
	})
	assert.ErrorIs(t, err, computeErr)

	// The failed compute must not have left an entry behind.
	value, err := c.GetOrCompute("agg:broken", func() (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
}

func Test_ComputeAndCache_ForcesRefresh(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, err := c.GetOrCompute("agg:today", func() (interface{}, error) {
		return "stale", nil
	})
	require.NoError(t, err)

	value, err := c.ComputeAndCache("agg:today", func() (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)

	value, err = c.GetOrCompute("agg:today", func() (interface{}, error) {
		return "never", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
}

func Test_EvictPattern_PrefixAndExactMatch(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	seed := func(key string) {
		_, err := c.ComputeAndCache(key, func() (interface{}, error) { return key, nil })
		require.NoError(t, err)
	}
	seed("dashboard:counts")
	seed("dashboard:provider:v1")
	seed("report:weekly")

	c.EvictPattern("dashboard:*")
	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)

	c.EvictPattern("report:weekly")
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func Test_Stats_CountsExpiredButPresentEntries(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	_, err := c.ComputeAndCache("short", func() (interface{}, error) { return 1, nil }, 10*time.Second)
	require.NoError(t, err)
	_, err = c.ComputeAndCache("long", func() (interface{}, error) { return 2, nil }, 10*time.Minute)
	require.NoError(t, err)

	clock.advance(30 * time.Second)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)
}

func Test_SweepExpired_ReclaimsOnlyExpiredEntries(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	_, err := c.ComputeAndCache("short", func() (interface{}, error) { return 1, nil }, 10*time.Second)
	require.NoError(t, err)
	_, err = c.ComputeAndCache("long", func() (interface{}, error) { return 2, nil }, 10*time.Minute)
	require.NoError(t, err)

	clock.advance(30 * time.Second)

	removed := c.SweepExpired()
	assert.Equal(t, 1, removed)

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
}

func Test_Clear_RemovesEverything(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, err := c.ComputeAndCache("a", func() (interface{}, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.ComputeAndCache("b", func() (interface{}, error) { return 2, nil })
	require.NoError(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Stats().TotalEntries)
}
