package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/syncjob/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SyncJob, error) {
	var job domain.SyncJob
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *repo) ListByProvider(ctx context.Context, db *gorm.DB, providerID snowflake.ID, limit int) ([]domain.SyncJob, error) {
	var jobs []domain.SyncJob
	stmt := db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("id DESC")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) ListByStatus(ctx context.Context, db *gorm.DB, status domain.Status, limit int) ([]domain.SyncJob, error) {
	var jobs []domain.SyncJob
	stmt := db.WithContext(ctx).
		Where("status = ?", status).
		Order("id")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, job *domain.SyncJob) error {
	return db.WithContext(ctx).Create(job).Error
}

// Update writes the whole projected row keyed by id. A full-row overwrite is
// naturally idempotent under at-least-once redelivery.
func (r *repo) Update(ctx context.Context, db *gorm.DB, job *domain.SyncJob) error {
	return db.WithContext(ctx).
		Model(&domain.SyncJob{}).
		Where("id = ?", job.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(job).Error
}
