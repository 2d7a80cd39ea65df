package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/config"
	obsmetrics "github.com/smallbiznis/telesim/internal/observability/metrics"
	"github.com/smallbiznis/telesim/internal/settings/cache"
	"github.com/smallbiznis/telesim/internal/settings/domain"
	"github.com/smallbiznis/telesim/internal/settings/registry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Registry *registry.Registry
	Cache    cache.Store `optional:"true"`
	Config   config.Config
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	registry  *registry.Registry
	cache     cache.Store
	namespace string
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Manager {
	namespace := strings.TrimSpace(p.Config.Settings.CacheNamespace)
	if namespace == "" {
		namespace = "settings"
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("settings.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		registry:  p.Registry,
		cache:     p.Cache,
		namespace: namespace,
		metrics:   obsmetrics.Default(),
	}
}

func (s *Service) cacheKey(key string) string {
	return s.namespace + "." + key
}

func (s *Service) Get(ctx context.Context, key string, fallback ...any) (any, error) {
	def, registered := s.registry.Get(key)
	if !registered && len(fallback) == 0 {
		return nil, domain.ErrUnknownKey
	}

	if s.cache != nil && registered {
		raw, ok, err := s.cache.Get(ctx, s.cacheKey(key))
		if err != nil {
			s.log.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			value, err := def.Type.FromStorage(raw)
			if err == nil {
				s.metrics.CacheHit()
				return value, nil
			}
			s.log.Warn("settings cache entry corrupt", zap.String("key", key), zap.Error(err))
		}
		s.metrics.CacheMiss()
	}

	row, err := s.repo.Find(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if row != nil {
		value, err := row.Type.FromStorage(row.Value)
		if err == nil {
			s.cachePut(ctx, key, row.Value)
			return value, nil
		}
		s.log.Warn("stored setting value corrupt, falling back to default",
			zap.String("key", key), zap.Error(err))
	}

	if registered {
		value, err := def.Type.Cast(def.Default)
		if err != nil {
			return nil, domain.ErrInvalidValue
		}
		if raw, err := def.Type.ToStorage(def.Default); err == nil {
			s.cachePut(ctx, key, raw)
		}
		return value, nil
	}

	return fallback[0], nil
}

func (s *Service) Set(ctx context.Context, key string, value any) bool {
	def, ok := s.registry.Get(key)
	if !ok {
		s.log.Warn("set rejected: unknown setting key", zap.String("key", key))
		return false
	}
	if def.ReadOnly {
		s.log.Warn("set rejected: read-only setting", zap.String("key", key))
		return false
	}
	if !def.Type.Validate(value) {
		s.log.Warn("set rejected: value failed type validation",
			zap.String("key", key), zap.String("type", string(def.Type)))
		return false
	}

	raw, err := def.Type.ToStorage(value)
	if err != nil {
		return false
	}

	if err := s.repo.Upsert(ctx, s.db, s.buildRow(def, raw)); err != nil {
		s.log.Error("settings write failed", zap.String("key", key), zap.Error(err))
		return false
	}

	s.cachePut(ctx, key, raw)
	return true
}

// SetMultiple validates every entry before persisting any. A single invalid
// entry aborts the whole transaction and nothing is written.
func (s *Service) SetMultiple(ctx context.Context, values map[string]any) bool {
	if len(values) == 0 {
		return true
	}

	serialized := make(map[string]string, len(values))
	rows := make([]*domain.Setting, 0, len(values))
	for key, value := range values {
		def, ok := s.registry.Get(key)
		if !ok || def.ReadOnly || !def.Type.Validate(value) {
			s.log.Warn("set multiple rejected", zap.String("key", key))
			return false
		}
		raw, err := def.Type.ToStorage(value)
		if err != nil {
			return false
		}
		serialized[key] = raw
		rows = append(rows, s.buildRow(def, raw))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := s.repo.Upsert(ctx, tx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("settings batch write failed", zap.Error(err))
		return false
	}

	if s.cache != nil {
		namespaced := make(map[string]string, len(serialized))
		for key, raw := range serialized {
			namespaced[s.cacheKey(key)] = raw
		}
		if err := s.cache.SetMultiple(ctx, namespaced, 0); err != nil {
			s.log.Warn("settings cache batch write failed", zap.Error(err))
		}
	}
	return true
}

func (s *Service) Reset(ctx context.Context, key string) (any, error) {
	def, ok := s.registry.Get(key)
	if !ok {
		return nil, domain.ErrUnknownKey
	}
	s.Set(ctx, key, def.Default)
	return s.Get(ctx, key)
}

func (s *Service) Enabled(ctx context.Context, key string, fallback ...bool) bool {
	def := false
	if len(fallback) > 0 {
		def = fallback[0]
	}
	value, err := s.Get(ctx, key, def)
	if err != nil {
		return def
	}
	enabled, ok := value.(bool)
	if !ok {
		return def
	}
	return enabled
}

func (s *Service) All(ctx context.Context) (map[string]any, error) {
	resolved, err := s.resolveAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(resolved))
	for key, data := range resolved {
		out[key] = data.Value
	}
	return out, nil
}

func (s *Service) Grouped(ctx context.Context) (map[string]map[string]domain.Data, error) {
	resolved, err := s.resolveAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]domain.Data)
	for _, def := range s.registry.All() {
		data := resolved[def.Key]
		if def.Encrypted {
			data.Value = "********"
		}
		group := def.Group
		if group == "" {
			group = "general"
		}
		if out[group] == nil {
			out[group] = make(map[string]domain.Data)
		}
		out[group][def.Key] = data
	}
	return out, nil
}

func (s *Service) WarmCache(ctx context.Context) bool {
	if s.cache == nil {
		return false
	}

	rows, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		s.log.Error("settings cache warm failed", zap.Error(err))
		return false
	}
	stored := make(map[string]string, len(rows))
	for _, row := range rows {
		stored[row.Key] = row.Value
	}

	values := make(map[string]string)
	for _, def := range s.registry.All() {
		if raw, ok := stored[def.Key]; ok {
			values[s.cacheKey(def.Key)] = raw
			continue
		}
		if raw, err := def.Type.ToStorage(def.Default); err == nil {
			values[s.cacheKey(def.Key)] = raw
		}
	}

	if err := s.cache.SetMultiple(ctx, values, 0); err != nil {
		s.log.Error("settings cache warm failed", zap.Error(err))
		return false
	}
	return true
}

func (s *Service) resolveAll(ctx context.Context) (map[string]domain.Data, error) {
	rows, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]domain.Setting, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	out := make(map[string]domain.Data)
	for _, def := range s.registry.All() {
		data := domain.Data{
			Key:         def.Key,
			Type:        def.Type,
			Group:       def.Group,
			Label:       def.Label,
			Description: def.Description,
		}
		if row, ok := stored[def.Key]; ok {
			if value, err := row.Type.FromStorage(row.Value); err == nil {
				data.Value = value
				out[def.Key] = data
				continue
			}
		}
		value, err := def.Type.Cast(def.Default)
		if err != nil {
			return nil, domain.ErrInvalidValue
		}
		data.Value = value
		out[def.Key] = data
	}
	return out, nil
}

func (s *Service) cachePut(ctx context.Context, key, raw string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(key), raw, 0); err != nil {
		s.log.Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) buildRow(def domain.Definition, raw string) *domain.Setting {
	now := s.clock.Now()
	row := &domain.Setting{
		ID:        s.genID.Generate(),
		Key:       def.Key,
		Value:     raw,
		Type:      def.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if def.Group != "" {
		group := def.Group
		row.Group = &group
	}
	if def.Label != "" {
		label := def.Label
		row.Label = &label
	}
	if def.Description != "" {
		description := def.Description
		row.Description = &description
	}
	return row
}
