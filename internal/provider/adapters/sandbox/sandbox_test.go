package sandbox

import (
	"context"
	"testing"

	"github.com/smallbiznis/telesim/internal/provider/domain"
	"github.com/stretchr/testify/require"
)

func TestFetchPackagesPagination(t *testing.T) {
	adapter := New(15.0)
	ctx := context.Background()

	count, err := adapter.GetPackageCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, count)

	all, err := adapter.FetchPackages(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	page, err := adapter.FetchPackages(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, all[3].ID, page[0].ID)

	empty, err := adapter.FetchPackages(ctx, 5, 3)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPurchaseAndGetProfile(t *testing.T) {
	adapter := New(15.0)
	ctx := context.Background()

	result, err := adapter.PurchaseEsim(ctx, "sbx-eu-1gb")
	require.NoError(t, err)
	require.Equal(t, "completed", result.Status)
	require.NotEmpty(t, result.ProviderOrderID)
	require.NotEmpty(t, result.ICCID)

	profile, err := adapter.GetEsimProfile(ctx, result.ProviderOrderID)
	require.NoError(t, err)
	require.Equal(t, result.ICCID, profile.ICCID)
	require.Equal(t, int64(1<<30), profile.DataTotalBytes)
	require.Zero(t, profile.DataUsedBytes)
	require.False(t, profile.IsActivated)

	adapter.SetUsage(result.ProviderOrderID, 1<<20, true)
	profile, err = adapter.GetEsimProfile(ctx, result.ProviderOrderID)
	require.NoError(t, err)
	require.Equal(t, int64(1<<20), profile.DataUsedBytes)
	require.True(t, profile.IsActivated)

	_, err = adapter.PurchaseEsim(ctx, "sbx-unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = adapter.GetEsimProfile(ctx, "no-such-order")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckStock(t *testing.T) {
	adapter := New(15.0)
	ctx := context.Background()

	inStock, err := adapter.CheckStock(ctx, "sbx-us-3gb")
	require.NoError(t, err)
	require.True(t, inStock)

	inStock, err = adapter.CheckStock(ctx, "sbx-unknown")
	require.NoError(t, err)
	require.False(t, inStock)
}

func TestCalculateRetailPrice(t *testing.T) {
	adapter := New(15.0)
	require.InDelta(t, 11.50, adapter.CalculateRetailPrice(10.0), 0.0001)

	noMarkup := New(0)
	require.InDelta(t, 10.0, noMarkup.CalculateRetailPrice(10.0), 0.0001)
}

func TestConnectionAndRateLimit(t *testing.T) {
	adapter := New(15.0)
	require.NoError(t, adapter.TestConnection(context.Background()))
	require.Positive(t, adapter.RateLimit())
}
