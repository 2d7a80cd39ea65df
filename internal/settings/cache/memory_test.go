package cache

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemory(time.Minute, clk)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "settings.general.store_name", "Telesim", 0))

	value, ok, err := store.Get(ctx, "settings.general.store_name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Telesim", value)

	_, ok, err = store.Get(ctx, "settings.missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemory(time.Minute, clk)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", 0))

	clk.Advance(59 * time.Second)
	ok, err := store.Has(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)

	clk.Advance(2 * time.Second)
	ok, err = store.Has(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemory(0, clk)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", 0))
	clk.Advance(1000 * time.Hour)

	value, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", value)
}

func TestMemoryExplicitTTLOverridesDefault(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemory(time.Minute, clk)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", "value", time.Hour))
	clk.Advance(30 * time.Minute)

	ok, err := store.Has(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryDeleteAndClear(t *testing.T) {
	store := NewMemory(0, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", 0))
	require.NoError(t, store.Set(ctx, "b", "2", 0))

	require.NoError(t, store.Delete(ctx, "a"))
	ok, err := store.Has(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Clear(ctx))
	ok, err = store.Has(ctx, "b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryBatchOperations(t *testing.T) {
	store := NewMemory(0, nil)
	ctx := context.Background()

	require.NoError(t, store.SetMultiple(ctx, map[string]string{
		"a": "1",
		"b": "2",
	}, 0))

	values, err := store.GetMultiple(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, values)
}
