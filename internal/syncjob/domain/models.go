package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the sync job lifecycle state. Transitions only move
// Pending -> Running -> {Completed, Failed}; terminal states are retained
// forever for audit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Type is the kind of work a sync job performs against a provider.
type Type string

const (
	TypeCatalogSync Type = "catalog_sync"
	TypePriceSync   Type = "price_sync"
	TypeStockCheck  Type = "stock_check"
	TypeUsageSync   Type = "usage_sync"
)

const (
	TriggeredBySchedule = "schedule"
	TriggeredByWebhook  = "webhook"
	TriggeredByAdmin    = "admin"
)

// SyncJob is both the persisted row and the projection folded by events.
type SyncJob struct {
	ID                snowflake.ID      `gorm:"primaryKey"`
	ProviderID        snowflake.ID      `gorm:"not null;index"`
	Type              Type              `gorm:"type:text;not null"`
	Status            Status            `gorm:"type:text;not null;index"`
	TriggeredBy       string            `gorm:"type:text;not null"`
	TriggeredByUserID *snowflake.ID     `gorm:""`
	StartedAt         *time.Time        `gorm:""`
	CompletedAt       *time.Time        `gorm:""`
	DurationMs        *int64            `gorm:""`
	Progress          int               `gorm:"not null;default:0"`
	Total             int               `gorm:"not null;default:0"`
	ProcessedItems    int               `gorm:"not null;default:0"`
	FailedItems       int               `gorm:"not null;default:0"`
	ErrorMessage      *string           `gorm:"type:text"`
	Result            datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SyncJob) TableName() string { return "sync_jobs" }

// Result is the optional payload carried by a completion event. Non-nil
// counters override the projection's final values.
type Result struct {
	Processed      *int           `json:"processed,omitempty"`
	Total          *int           `json:"total,omitempty"`
	ProcessedItems *int           `json:"processed_items,omitempty"`
	FailedItems    *int           `json:"failed_items,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
}

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SyncJob, error)
	ListByProvider(ctx context.Context, db *gorm.DB, providerID snowflake.ID, limit int) ([]SyncJob, error)
	ListByStatus(ctx context.Context, db *gorm.DB, status Status, limit int) ([]SyncJob, error)
	Create(ctx context.Context, db *gorm.DB, job *SyncJob) error
	Update(ctx context.Context, db *gorm.DB, job *SyncJob) error
}

// Service drives sync job lifecycle events through the event pipeline.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*SyncJob, error)
	Start(ctx context.Context, id snowflake.ID, total int) (*SyncJob, error)
	Progress(ctx context.Context, req ProgressRequest) (*SyncJob, error)
	Complete(ctx context.Context, id snowflake.ID, result Result) (*SyncJob, error)
	Fail(ctx context.Context, id snowflake.ID, errorMessage string) (*SyncJob, error)
	Find(ctx context.Context, id snowflake.ID) (*SyncJob, error)
}

type CreateRequest struct {
	ProviderID        snowflake.ID
	Type              Type
	TriggeredBy       string
	TriggeredByUserID *snowflake.ID
}

type ProgressRequest struct {
	ID             snowflake.ID
	Progress       int
	Total          *int
	ProcessedItems int
	FailedItems    int
}

var (
	ErrNotFound        = errors.New("sync_job_not_found")
	ErrInvalidProvider = errors.New("invalid_provider")
	ErrInvalidType     = errors.New("invalid_sync_type")
)
