package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestMemoryCache_SetGet(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(10, clock.Now)

	require.NoError(t, c.Set("stats", map[string]int{"students": 42}, time.Minute))

	var got map[string]int
	found, err := c.Get("stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, got["students"])
}

func TestMemoryCache_ExpiryOnRead(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(10, clock.Now)

	require.NoError(t, c.Set("stats", 1, time.Minute))

	clock.Advance(time.Minute + time.Second)

	var got int
	found, err := c.Get("stats", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Повторное чтение после удаления просроченной записи.
	found, err = c.Get("stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_CapacityBound(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(2, clock.Now)

	require.NoError(t, c.Set("a", 1, time.Minute))
	require.NoError(t, c.Set("b", 2, time.Hour))
	require.NoError(t, c.Set("c", 3, time.Hour))

	// "a" истекает раньше всех и вытесняется при переполнении.
	var got int
	found, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get("b", &got)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.Get("c", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_CapacityFloor(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(0, clock.Now)

	// Нулевая вместимость приводится к единице: одна запись живет.
	require.NoError(t, c.Set("a", 1, time.Minute))

	var got int
	found, err := c.Get("a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got)

	require.NoError(t, c.Set("b", 2, time.Minute))

	found, err = c.Get("a", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get("b", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(2, clock.Now)

	require.NoError(t, c.Set("a", 1, time.Minute))
	require.NoError(t, c.Set("b", 2, time.Minute))
	require.NoError(t, c.Set("a", 10, time.Minute))

	var got int
	found, err := c.Get("b", &got)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.Get("a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10, got)
}

func TestMemoryCache_Invalidate(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(10, clock.Now)

	require.NoError(t, c.Set("stats", 1, time.Minute))
	require.NoError(t, c.Invalidate("stats"))

	var got int
	found, err := c.Get("stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
