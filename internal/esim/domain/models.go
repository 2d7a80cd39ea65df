package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the profile lifecycle state. Usage only moves it forward:
// Active -> Activated -> Consumed, never backward. Consumed is also reachable
// directly from Active when usage jumps straight to exhaustion.
type Status string

const (
	StatusActive    Status = "active"
	StatusActivated Status = "activated"
	StatusConsumed  Status = "consumed"
)

// EsimProfile is both the persisted row and the projection folded by events.
// Pin and puk are write-once secrets; the default read DTO excludes them.
type EsimProfile struct {
	ID               snowflake.ID      `gorm:"primaryKey"`
	OrderID          snowflake.ID      `gorm:"not null;index"`
	ProviderID       snowflake.ID      `gorm:"not null;index"`
	ProviderOrderID  string            `gorm:"type:text;not null"`
	ICCID            string            `gorm:"type:text;not null;index"`
	ActivationCode   string            `gorm:"type:text;not null"`
	SmdpAddress      *string           `gorm:"type:text"`
	LpaString        *string           `gorm:"type:text"`
	QrCodeData       *string           `gorm:"type:text"`
	Pin              *string           `gorm:"type:text"`
	Puk              *string           `gorm:"type:text"`
	Apn              *string           `gorm:"type:text"`
	Status           Status            `gorm:"type:text;not null;index"`
	DataTotalBytes   int64             `gorm:"not null;default:0"`
	DataUsedBytes    int64             `gorm:"not null;default:0"`
	IsActivated      bool              `gorm:"not null;default:false"`
	TopupAvailable   bool              `gorm:"not null;default:false"`
	ActivatedAt      *time.Time        `gorm:""`
	LastUsageCheckAt *time.Time        `gorm:""`
	ProviderData     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EsimProfile) TableName() string { return "esim_profiles" }

// Response is the default read DTO. Secrets are withheld; privileged callers
// use Service.FindWithSecrets.
type Response struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	ICCID            string     `json:"iccid"`
	ActivationCode   string     `json:"activation_code"`
	SmdpAddress      *string    `json:"smdp_address,omitempty"`
	LpaString        *string    `json:"lpa_string,omitempty"`
	QrCodeData       *string    `json:"qr_code_data,omitempty"`
	Apn              *string    `json:"apn,omitempty"`
	Status           Status     `json:"status"`
	DataTotalBytes   int64      `json:"data_total_bytes"`
	DataUsedBytes    int64      `json:"data_used_bytes"`
	IsActivated      bool       `json:"is_activated"`
	TopupAvailable   bool       `json:"topup_available"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	LastUsageCheckAt *time.Time `json:"last_usage_check_at,omitempty"`
}

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EsimProfile, error)
	FindByICCID(ctx context.Context, db *gorm.DB, iccid string) (*EsimProfile, error)
	ListDueForUsageCheck(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]EsimProfile, error)
	Create(ctx context.Context, db *gorm.DB, profile *EsimProfile) error
	Update(ctx context.Context, db *gorm.DB, profile *EsimProfile) error
}

// Service drives profile lifecycle events through the event pipeline.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*EsimProfile, error)
	UpdateUsage(ctx context.Context, req UsageRequest) (*EsimProfile, error)
	Find(ctx context.Context, id snowflake.ID) (*Response, error)
	FindWithSecrets(ctx context.Context, id snowflake.ID) (*EsimProfile, error)
}

type CreateRequest struct {
	OrderID         snowflake.ID
	ProviderID      snowflake.ID
	ProviderOrderID string
	ICCID           string
	ActivationCode  string
	DataTotalBytes  int64
	SmdpAddress     *string
	QrCodeData      *string
	LpaString       *string
	Pin             *string
	Puk             *string
	Apn             *string
	ProviderData    map[string]any
}

type UsageRequest struct {
	ID             snowflake.ID
	DataUsedBytes  int64
	IsActivated    bool
	TopupAvailable bool
}

var (
	ErrNotFound      = errors.New("esim_profile_not_found")
	ErrInvalidOrder  = errors.New("invalid_order")
	ErrInvalidICCID  = errors.New("invalid_iccid")
	ErrInvalidBudget = errors.New("invalid_data_total")
)
