package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/esim/domain"
	"github.com/smallbiznis/telesim/internal/event"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Journal event.Journal `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	pipeline *event.Pipeline[domain.EsimProfile, domain.Deps]
}

func New(p Params) domain.Service {
	deps := domain.Deps{
		DB:       p.DB,
		Profiles: p.Repo,
		Clock:    p.Clock,
	}
	load := func(ctx context.Context, id snowflake.ID) (*domain.EsimProfile, error) {
		if id == 0 {
			return nil, nil
		}
		return p.Repo.Find(ctx, p.DB, id)
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("esim.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		pipeline: event.NewPipeline(domain.AggregateType, p.Log, p.GenID, load, p.Journal, deps),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.EsimProfile, error) {
	if req.OrderID == 0 {
		return nil, domain.ErrInvalidOrder
	}
	if strings.TrimSpace(req.ICCID) == "" {
		return nil, domain.ErrInvalidICCID
	}
	if req.DataTotalBytes <= 0 {
		return nil, domain.ErrInvalidBudget
	}

	return s.pipeline.Dispatch(ctx, &domain.Created{
		OrderID:         req.OrderID,
		ProviderID:      req.ProviderID,
		ProviderOrderID: req.ProviderOrderID,
		ICCID:           strings.TrimSpace(req.ICCID),
		ActivationCode:  req.ActivationCode,
		DataTotalBytes:  req.DataTotalBytes,
		SmdpAddress:     req.SmdpAddress,
		QrCodeData:      req.QrCodeData,
		LpaString:       req.LpaString,
		Pin:             req.Pin,
		Puk:             req.Puk,
		Apn:             req.Apn,
		ProviderData:    req.ProviderData,
		OccurredAt:      s.clock.Now(),
	})
}

func (s *Service) UpdateUsage(ctx context.Context, req domain.UsageRequest) (*domain.EsimProfile, error) {
	return s.pipeline.Dispatch(ctx, &domain.UsageUpdated{
		ID:             req.ID,
		DataUsedBytes:  req.DataUsedBytes,
		IsActivated:    req.IsActivated,
		TopupAvailable: req.TopupAvailable,
		OccurredAt:     s.clock.Now(),
	})
}

func (s *Service) Find(ctx context.Context, id snowflake.ID) (*domain.Response, error) {
	profile, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(profile), nil
}

// FindWithSecrets returns the raw row including pin and puk. Privileged
// callers only.
func (s *Service) FindWithSecrets(ctx context.Context, id snowflake.ID) (*domain.EsimProfile, error) {
	profile, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func toResponse(p *domain.EsimProfile) *domain.Response {
	return &domain.Response{
		ID:               p.ID.String(),
		OrderID:          p.OrderID.String(),
		ICCID:            p.ICCID,
		ActivationCode:   p.ActivationCode,
		SmdpAddress:      p.SmdpAddress,
		LpaString:        p.LpaString,
		QrCodeData:       p.QrCodeData,
		Apn:              p.Apn,
		Status:           p.Status,
		DataTotalBytes:   p.DataTotalBytes,
		DataUsedBytes:    p.DataUsedBytes,
		IsActivated:      p.IsActivated,
		TopupAvailable:   p.TopupAvailable,
		ActivatedAt:      p.ActivatedAt,
		LastUsageCheckAt: p.LastUsageCheckAt,
	}
}
