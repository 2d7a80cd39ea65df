package usagepoller

import (
	"context"
	"time"

	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/config"
	esimdomain "github.com/smallbiznis/telesim/internal/esim/domain"
	"github.com/smallbiznis/telesim/internal/provider"
	providerdomain "github.com/smallbiznis/telesim/internal/provider/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Config       config.Config
	EsimSvc      esimdomain.Service
	EsimRepo     esimdomain.Repository
	ProviderRepo providerdomain.Repository
	Resolver     *provider.Resolver
}

// Worker periodically pulls usage snapshots from providers and folds them
// into profiles as usage events.
type Worker struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	cfg          config.PollerConfig
	esimSvc      esimdomain.Service
	esimRepo     esimdomain.Repository
	providerRepo providerdomain.Repository
	resolver     *provider.Resolver
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:           p.DB,
		log:          p.Log.Named("usagepoller"),
		clock:        p.Clock,
		cfg:          p.Config.Poller,
		esimSvc:      p.EsimSvc,
		esimRepo:     p.EsimRepo,
		providerRepo: p.ProviderRepo,
		resolver:     p.Resolver,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("usage poll run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce polls one batch of profiles due for a usage check and returns how
// many were updated.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	cutoff := w.clock.Now().Add(-w.cfg.PollInterval)
	profiles, err := w.esimRepo.ListDueForUsageCheck(ctx, w.db, cutoff, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		return 0, nil
	}

	contracts := make(map[int64]providerdomain.Contract)
	updated := 0
	for _, profile := range profiles {
		contract, ok := contracts[int64(profile.ProviderID)]
		if !ok {
			row, err := w.providerRepo.Find(ctx, w.db, profile.ProviderID)
			if err != nil {
				return updated, err
			}
			if row == nil || !row.Active {
				continue
			}
			contract, err = w.resolver.Resolve(row.Code)
			if err != nil {
				w.log.Warn("no contract for provider",
					zap.String("provider", row.Code), zap.Error(err))
				continue
			}
			contracts[int64(profile.ProviderID)] = contract
		}

		usage, err := contract.GetEsimProfile(ctx, profile.ProviderOrderID)
		if err != nil {
			w.log.Warn("usage fetch failed",
				zap.String("iccid", profile.ICCID), zap.Error(err))
			continue
		}

		if _, err := w.esimSvc.UpdateUsage(ctx, esimdomain.UsageRequest{
			ID:             profile.ID,
			DataUsedBytes:  usage.DataUsedBytes,
			IsActivated:    usage.IsActivated,
			TopupAvailable: usage.TopupAvailable,
		}); err != nil {
			w.log.Warn("usage update failed",
				zap.String("iccid", profile.ICCID), zap.Error(err))
			continue
		}
		updated++

		select {
		case <-ctx.Done():
			return updated, ctx.Err()
		case <-time.After(contract.RateLimit()):
		}
	}

	return updated, nil
}
