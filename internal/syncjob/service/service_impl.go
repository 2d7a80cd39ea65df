package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/event"
	obsmetrics "github.com/smallbiznis/telesim/internal/observability/metrics"
	providerdomain "github.com/smallbiznis/telesim/internal/provider/domain"
	"github.com/smallbiznis/telesim/internal/syncjob/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Providers providerdomain.Repository
	Journal   event.Journal `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	pipeline *event.Pipeline[domain.SyncJob, domain.Deps]
}

func New(p Params) domain.Service {
	deps := domain.Deps{
		DB:        p.DB,
		Jobs:      p.Repo,
		Providers: p.Providers,
		Clock:     p.Clock,
		Metrics:   obsmetrics.Default(),
	}
	load := func(ctx context.Context, id snowflake.ID) (*domain.SyncJob, error) {
		if id == 0 {
			return nil, nil
		}
		return p.Repo.Find(ctx, p.DB, id)
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("syncjob.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		pipeline: event.NewPipeline(domain.AggregateType, p.Log, p.GenID, load, p.Journal, deps),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.SyncJob, error) {
	if req.ProviderID == 0 {
		return nil, domain.ErrInvalidProvider
	}
	switch req.Type {
	case domain.TypeCatalogSync, domain.TypePriceSync, domain.TypeStockCheck, domain.TypeUsageSync:
	default:
		return nil, domain.ErrInvalidType
	}

	triggeredBy := req.TriggeredBy
	if triggeredBy == "" {
		triggeredBy = domain.TriggeredBySchedule
	}

	return s.pipeline.Dispatch(ctx, &domain.Created{
		ProviderID:        req.ProviderID,
		Type:              req.Type,
		TriggeredBy:       triggeredBy,
		TriggeredByUserID: req.TriggeredByUserID,
		OccurredAt:        s.clock.Now(),
	})
}

func (s *Service) Start(ctx context.Context, id snowflake.ID, total int) (*domain.SyncJob, error) {
	started := &domain.Started{
		ID:         id,
		OccurredAt: s.clock.Now(),
	}
	if total > 0 {
		started.Total = &total
	}
	return s.pipeline.Dispatch(ctx, started)
}

func (s *Service) Progress(ctx context.Context, req domain.ProgressRequest) (*domain.SyncJob, error) {
	return s.pipeline.Dispatch(ctx, &domain.ProgressUpdated{
		ID:             req.ID,
		Progress:       req.Progress,
		Total:          req.Total,
		ProcessedItems: req.ProcessedItems,
		FailedItems:    req.FailedItems,
		OccurredAt:     s.clock.Now(),
	})
}

func (s *Service) Complete(ctx context.Context, id snowflake.ID, result domain.Result) (*domain.SyncJob, error) {
	return s.pipeline.Dispatch(ctx, &domain.Completed{
		ID:         id,
		Result:     result,
		OccurredAt: s.clock.Now(),
	})
}

func (s *Service) Fail(ctx context.Context, id snowflake.ID, errorMessage string) (*domain.SyncJob, error) {
	return s.pipeline.Dispatch(ctx, &domain.Failed{
		ID:           id,
		ErrorMessage: errorMessage,
		OccurredAt:   s.clock.Now(),
	})
}

func (s *Service) Find(ctx context.Context, id snowflake.ID) (*domain.SyncJob, error) {
	job, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}
