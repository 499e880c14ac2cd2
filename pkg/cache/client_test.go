package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryCache()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheJSON(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	type payload struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	require.NoError(t, SetJSON(ctx, m, "badge", payload{Name: "First Step", Points: 10}, time.Minute))

	var out payload
	require.NoError(t, GetJSON(ctx, m, "badge", &out))
	assert.Equal(t, payload{Name: "First Step", Points: 10}, out)

	require.NoError(t, m.Delete(ctx, "badge"))
	assert.ErrorIs(t, GetJSON(ctx, m, "badge", &out), ErrMiss)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "shared", "x", time.Minute)
			_, _ = m.Get(ctx, "shared")
			_ = m.Delete(ctx, "shared")
		}()
	}
	wg.Wait()
}
