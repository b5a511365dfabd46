package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTTL_GetSet(t *testing.T) {
	c := New[string, int](10, time.Minute)
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTL_Expiry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, string](10, 5*time.Minute, WithClock(clk.Now))

	c.Set("k", "v")
	clk.Advance(4 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should be live before ttl")

	clk.Advance(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire at ttl")
	assert.Equal(t, 0, c.Len())
}

func TestTTL_EvictsOldestInserted(t *testing.T) {
	c := New[string, int](3, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Reads do not change eviction order.
	c.Get("a")
	c.Set("d", 4)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestTTL_ResetRefreshesPosition(t *testing.T) {
	c := New[string, int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestTTL_Delete(t *testing.T) {
	c := New[int, int](2, time.Hour)
	c.Set(1, 1)
	c.Delete(1)
	c.Delete(42)
	assert.Equal(t, 0, c.Len())
}

func TestTTL_DeleteFunc(t *testing.T) {
	c := New[string, int](10, time.Hour)
	c.Set("a/1", 1)
	c.Set("b/1", 2)
	c.Set("a/2", 3)

	c.DeleteFunc(func(k string) bool { return k[0] == 'a' })
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("a/2")
	assert.False(t, ok)
	v, ok := c.Get("b/1")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// Order bookkeeping survives: filling up evicts "b/1" first.
	for i := range 10 {
		c.Set(fmt.Sprintf("c/%d", i), i)
	}
	_, ok = c.Get("b/1")
	assert.False(t, ok)
	assert.Equal(t, 10, c.Len())
}

func TestTTL_Defaults(t *testing.T) {
	c := New[int, int](0, 0)
	assert.Equal(t, 100, c.capacity)
	assert.Equal(t, 5*time.Minute, c.ttl)
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := New[string, int](50, time.Hour)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				key := fmt.Sprintf("%d-%d", i, j%60)
				c.Set(key, j)
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
