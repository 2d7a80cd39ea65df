package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/provider/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Provider, error) {
	var provider domain.Provider
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, active, markup_percent, credentials, last_synced_at, created_at, updated_at
		 FROM providers WHERE id = ? LIMIT 1`,
		id,
	).Scan(&provider).Error
	if err != nil {
		return nil, err
	}
	if provider.ID == 0 {
		return nil, nil
	}
	return &provider, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Provider, error) {
	var provider domain.Provider
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, active, markup_percent, credentials, last_synced_at, created_at, updated_at
		 FROM providers WHERE code = ? LIMIT 1`,
		code,
	).Scan(&provider).Error
	if err != nil {
		return nil, err
	}
	if provider.ID == 0 {
		return nil, nil
	}
	return &provider, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Provider, error) {
	var providers []domain.Provider
	stmt := db.WithContext(ctx).Model(&domain.Provider{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	if err := stmt.Order("code").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, provider *domain.Provider) error {
	return db.WithContext(ctx).Create(provider).Error
}

// TouchLastSynced is a monotonic last-write-wins update: an older sync
// completion arriving late never rolls the timestamp back.
func (r *repo) TouchLastSynced(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE providers
		 SET last_synced_at = ?, updated_at = ?
		 WHERE id = ? AND (last_synced_at IS NULL OR last_synced_at < ?)`,
		at,
		at,
		id,
		at,
	).Error
}
