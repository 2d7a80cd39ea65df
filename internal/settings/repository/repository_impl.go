package repository

import (
	"context"

	"github.com/smallbiznis/telesim/internal/settings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT id, key, value, type, setting_group, label, description, created_at, updated_at
		 FROM settings
		 WHERE key = ?
		 LIMIT 1`,
		key,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Setting, error) {
	var settings []domain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT id, key, value, type, setting_group, label, description, created_at, updated_at
		 FROM settings
		 ORDER BY key`,
	).Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, setting *domain.Setting) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "type", "setting_group", "label", "description", "updated_at",
			}),
		}).
		Create(setting).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM settings WHERE key = ?`,
		key,
	).Error
}
