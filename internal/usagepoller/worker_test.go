package usagepoller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/config"
	esimdomain "github.com/smallbiznis/telesim/internal/esim/domain"
	esimrepo "github.com/smallbiznis/telesim/internal/esim/repository"
	esimservice "github.com/smallbiznis/telesim/internal/esim/service"
	"github.com/smallbiznis/telesim/internal/event"
	"github.com/smallbiznis/telesim/internal/provider"
	"github.com/smallbiznis/telesim/internal/provider/adapters/sandbox"
	providerdomain "github.com/smallbiznis/telesim/internal/provider/domain"
	providerrepo "github.com/smallbiznis/telesim/internal/provider/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	worker  *Worker
	db      *gorm.DB
	clk     *clock.FakeClock
	adapter *sandbox.Adapter
	esimSvc esimdomain.Service
	node    *snowflake.Node
}

func setupWorker(t *testing.T, providerCode string, providerActive bool) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&providerdomain.Provider{},
		&esimdomain.EsimProfile{},
		&event.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	providers := providerrepo.Provide()
	require.NoError(t, providers.Create(context.Background(), db, &providerdomain.Provider{
		ID:     node.Generate(),
		Code:   providerCode,
		Name:   "Sandbox Provider",
		Active: providerActive,
	}))

	esimSvc := esimservice.New(esimservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  esimrepo.Provide(),
	})

	adapter := sandbox.New(15.0)
	resolver := provider.NewResolver()
	resolver.Register("sandbox", adapter)

	worker := NewWorker(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clk,
		Config: config.Config{
			Poller: config.PollerConfig{
				Enabled:      true,
				PollInterval: time.Minute,
				BatchSize:    10,
			},
		},
		EsimSvc:      esimSvc,
		EsimRepo:     esimrepo.Provide(),
		ProviderRepo: providers,
		Resolver:     resolver,
	})

	return &fixture{
		worker:  worker,
		db:      db,
		clk:     clk,
		adapter: adapter,
		esimSvc: esimSvc,
		node:    node,
	}
}

func (f *fixture) purchaseProfile(t *testing.T) *esimdomain.EsimProfile {
	t.Helper()
	ctx := context.Background()

	var providerRow providerdomain.Provider
	require.NoError(t, f.db.First(&providerRow).Error)

	purchase, err := f.adapter.PurchaseEsim(ctx, "sbx-eu-1gb")
	require.NoError(t, err)
	data, err := f.adapter.GetEsimProfile(ctx, purchase.ProviderOrderID)
	require.NoError(t, err)

	profile, err := f.esimSvc.Create(ctx, esimdomain.CreateRequest{
		OrderID:         f.node.Generate(),
		ProviderID:      providerRow.ID,
		ProviderOrderID: purchase.ProviderOrderID,
		ICCID:           data.ICCID,
		ActivationCode:  data.ActivationCode,
		DataTotalBytes:  data.DataTotalBytes,
	})
	require.NoError(t, err)
	return profile
}

func TestRunOncePollsDueProfiles(t *testing.T) {
	f := setupWorker(t, "sandbox", true)
	ctx := context.Background()
	profile := f.purchaseProfile(t)

	f.adapter.SetUsage(profile.ProviderOrderID, 1<<20, true)

	updated, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	refreshed, err := f.esimSvc.FindWithSecrets(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, esimdomain.StatusActivated, refreshed.Status)
	require.Equal(t, int64(1<<20), refreshed.DataUsedBytes)
	require.NotNil(t, refreshed.LastUsageCheckAt)
}

func TestRunOnceSkipsRecentlyChecked(t *testing.T) {
	f := setupWorker(t, "sandbox", true)
	ctx := context.Background()
	f.purchaseProfile(t)

	updated, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	// The just-stamped check time is inside the poll interval.
	updated, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, updated)

	// Once the interval elapses the profile is due again.
	f.clk.Advance(2 * time.Minute)
	updated, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)
}

func TestRunOnceStopsPollingConsumedProfiles(t *testing.T) {
	f := setupWorker(t, "sandbox", true)
	ctx := context.Background()
	profile := f.purchaseProfile(t)

	f.adapter.SetUsage(profile.ProviderOrderID, 1<<30, true)
	updated, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	refreshed, err := f.esimSvc.FindWithSecrets(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, esimdomain.StatusConsumed, refreshed.Status)

	f.clk.Advance(2 * time.Minute)
	updated, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, updated)
}

func TestRunOnceSkipsInactiveProvider(t *testing.T) {
	f := setupWorker(t, "sandbox", false)
	ctx := context.Background()
	f.purchaseProfile(t)

	updated, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, updated)
}

func TestRunOnceSkipsUnknownProviderCode(t *testing.T) {
	f := setupWorker(t, "legacy", true)
	ctx := context.Background()
	f.purchaseProfile(t)

	updated, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, updated)
}
