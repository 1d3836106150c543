package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestGetLoadsOnce(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL[int](5*time.Minute, clock)

	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.Get(load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.Get(load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetReloadsAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL[int](5*time.Minute, clock)

	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, _ := c.Get(load)
	assert.Equal(t, 1, v)

	clock.advance(4 * time.Minute)
	v, _ = c.Get(load)
	assert.Equal(t, 1, v)

	clock.advance(2 * time.Minute)
	v, _ = c.Get(load)
	assert.Equal(t, 2, v)
}

func TestInvalidateForcesReload(t *testing.T) {
	c := NewTTL[string](time.Hour, nil)

	calls := 0
	load := func() (string, error) {
		calls++
		return "value", nil
	}

	_, _ = c.Get(load)
	c.Invalidate()
	_, _ = c.Get(load)
	assert.Equal(t, 2, calls)
}

func TestGetPropagatesFirstLoadError(t *testing.T) {
	c := NewTTL[int](time.Hour, nil)
	_, err := c.Get(func() (int, error) { return 0, errors.New("db down") })
	assert.Error(t, err)
}

func TestGetServesStaleOnReloadError(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL[int](time.Minute, clock)

	_, err := c.Get(func() (int, error) { return 7, nil })
	require.NoError(t, err)

	clock.advance(2 * time.Minute)
	v, err := c.Get(func() (int, error) { return 0, errors.New("db down") })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
