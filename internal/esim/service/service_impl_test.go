package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/esim/domain"
	"github.com/smallbiznis/telesim/internal/esim/repository"
	"github.com/smallbiznis/telesim/internal/event"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.EsimProfile{}, &event.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	service := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clk,
		Repo:    repository.Provide(),
		Journal: event.NewJournal(db),
	})
	return service, db, clk
}

func createProfile(t *testing.T, service domain.Service, totalBytes int64) *domain.EsimProfile {
	t.Helper()
	profile, err := service.Create(context.Background(), domain.CreateRequest{
		OrderID:         snowflake.ID(1001),
		ProviderID:      snowflake.ID(2002),
		ProviderOrderID: "sbx-order-1",
		ICCID:           "8988303000000000001",
		ActivationCode:  "LPA:1$smdp.example.com$CODE",
		DataTotalBytes:  totalBytes,
		SmdpAddress:     strPtr("smdp.example.com"),
		Pin:             strPtr("1234"),
		Puk:             strPtr("87654321"),
	})
	require.NoError(t, err)
	return profile
}

func TestCreateValidation(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, domain.CreateRequest{
		ICCID:          "8988303000000000001",
		DataTotalBytes: 1024,
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = service.Create(ctx, domain.CreateRequest{
		OrderID:        snowflake.ID(1001),
		ICCID:          "   ",
		DataTotalBytes: 1024,
	})
	require.ErrorIs(t, err, domain.ErrInvalidICCID)

	_, err = service.Create(ctx, domain.CreateRequest{
		OrderID: snowflake.ID(1001),
		ICCID:   "8988303000000000001",
	})
	require.ErrorIs(t, err, domain.ErrInvalidBudget)
}

func TestCreateStartsActive(t *testing.T) {
	service, _, _ := setupService(t)
	profile := createProfile(t, service, 1<<30)

	require.NotZero(t, profile.ID)
	require.Equal(t, domain.StatusActive, profile.Status)
	require.False(t, profile.IsActivated)
	require.Nil(t, profile.ActivatedAt)
}

func TestUsageActivatesProfile(t *testing.T) {
	service, _, clk := setupService(t)
	profile := createProfile(t, service, 1<<30)
	ctx := context.Background()

	clk.Advance(time.Hour)
	updated, err := service.UpdateUsage(ctx, domain.UsageRequest{
		ID:            profile.ID,
		DataUsedBytes: 1 << 20,
		IsActivated:   true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActivated, updated.Status)
	require.NotNil(t, updated.ActivatedAt)
	require.Equal(t, clk.Now(), updated.ActivatedAt.UTC())
	require.Equal(t, int64(1<<20), updated.DataUsedBytes)
}

func TestUsageExhaustionWinsOverActivation(t *testing.T) {
	service, _, _ := setupService(t)
	profile := createProfile(t, service, 1<<30)
	ctx := context.Background()

	// A single snapshot that both activates and exhausts the budget lands
	// straight in consumed.
	updated, err := service.UpdateUsage(ctx, domain.UsageRequest{
		ID:            profile.ID,
		DataUsedBytes: 1 << 30,
		IsActivated:   true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusConsumed, updated.Status)
	require.Nil(t, updated.ActivatedAt)
}

func TestUsageIdempotentSnapshot(t *testing.T) {
	service, _, _ := setupService(t)
	profile := createProfile(t, service, 1<<30)
	ctx := context.Background()

	req := domain.UsageRequest{
		ID:            profile.ID,
		DataUsedBytes: 1 << 20,
		IsActivated:   true,
	}
	first, err := service.UpdateUsage(ctx, req)
	require.NoError(t, err)
	activatedAt := first.ActivatedAt

	// Replaying the same snapshot neither moves status nor re-stamps the
	// activation time.
	second, err := service.UpdateUsage(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActivated, second.Status)
	require.Equal(t, activatedAt.UnixMilli(), second.ActivatedAt.UnixMilli())
}

func TestUsageOnConsumedStaysConsumed(t *testing.T) {
	service, _, _ := setupService(t)
	profile := createProfile(t, service, 1<<20)
	ctx := context.Background()

	_, err := service.UpdateUsage(ctx, domain.UsageRequest{
		ID:            profile.ID,
		DataUsedBytes: 1 << 20,
	})
	require.NoError(t, err)

	updated, err := service.UpdateUsage(ctx, domain.UsageRequest{
		ID:            profile.ID,
		DataUsedBytes: 2 << 20,
		IsActivated:   true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusConsumed, updated.Status)
}

func TestUsageUnknownProfile(t *testing.T) {
	service, _, _ := setupService(t)
	_, err := service.UpdateUsage(context.Background(), domain.UsageRequest{
		ID:            snowflake.ID(4242),
		DataUsedBytes: 1,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindWithholdsSecrets(t *testing.T) {
	service, _, _ := setupService(t)
	profile := createProfile(t, service, 1<<30)
	ctx := context.Background()

	response, err := service.Find(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ICCID, response.ICCID)

	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	require.NotContains(t, string(encoded), "1234")
	require.NotContains(t, string(encoded), "87654321")

	raw, err := service.FindWithSecrets(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, raw.Pin)
	require.Equal(t, "1234", *raw.Pin)
	require.Equal(t, "87654321", *raw.Puk)
}

func TestJournalExcludesSecrets(t *testing.T) {
	service, db, _ := setupService(t)
	profile := createProfile(t, service, 1<<30)

	var record event.Record
	require.NoError(t, db.
		Where("aggregate_type = ? AND aggregate_id = ?", domain.AggregateType, int64(profile.ID)).
		First(&record).Error)
	require.NotContains(t, string(record.Payload), "87654321")
	require.Contains(t, string(record.Payload), profile.ICCID)
}
