package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/esim/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.EsimProfile, error) {
	var profile domain.EsimProfile
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) FindByICCID(ctx context.Context, db *gorm.DB, iccid string) (*domain.EsimProfile, error) {
	var profile domain.EsimProfile
	err := db.WithContext(ctx).
		Where("iccid = ?", iccid).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

// ListDueForUsageCheck returns non-consumed profiles whose last usage check
// is older than the cutoff, oldest first.
func (r *repo) ListDueForUsageCheck(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]domain.EsimProfile, error) {
	var profiles []domain.EsimProfile
	stmt := db.WithContext(ctx).
		Where("status <> ?", domain.StatusConsumed).
		Where("last_usage_check_at IS NULL OR last_usage_check_at < ?", before).
		Order("last_usage_check_at")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, profile *domain.EsimProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

// Update writes the whole projected row keyed by id; idempotent overwrite.
func (r *repo) Update(ctx context.Context, db *gorm.DB, profile *domain.EsimProfile) error {
	return db.WithContext(ctx).
		Model(&domain.EsimProfile{}).
		Where("id = ?", profile.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(profile).Error
}
