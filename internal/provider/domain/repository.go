package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Provider, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Provider, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Provider, error)
	Create(ctx context.Context, db *gorm.DB, provider *Provider) error
	TouchLastSynced(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
