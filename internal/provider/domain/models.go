package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Provider is an upstream telecom source of eSIM packages.
type Provider struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	Code          string            `gorm:"type:text;not null;uniqueIndex:ux_providers_code"`
	Name          string            `gorm:"type:text;not null"`
	Active        bool              `gorm:"not null;default:true"`
	MarkupPercent float64           `gorm:"not null;default:0"`
	Credentials   datatypes.JSONMap `gorm:"type:jsonb"`
	LastSyncedAt  *time.Time        `gorm:""`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Provider) TableName() string { return "providers" }

// PackageData is one sellable data package as reported by a provider.
type PackageData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CountryCode  string  `json:"country_code"`
	Region       string  `json:"region"`
	DataBytes    int64   `json:"data_bytes"`
	ValidityDays int     `json:"validity_days"`
	CostPrice    float64 `json:"cost_price"`
	Currency     string  `json:"currency"`
}

// PurchaseResult is the provider's answer to an eSIM purchase.
type PurchaseResult struct {
	ProviderOrderID string `json:"provider_order_id"`
	ICCID           string `json:"iccid"`
	Status          string `json:"status"`
}

// EsimProfileData is the provisioned profile as reported by a provider,
// including usage counters on subsequent reads.
type EsimProfileData struct {
	ICCID          string         `json:"iccid"`
	ActivationCode string         `json:"activation_code"`
	SmdpAddress    string         `json:"smdp_address"`
	LpaString      string         `json:"lpa_string"`
	QrCodeData     string         `json:"qr_code_data"`
	Pin            string         `json:"pin,omitempty"`
	Puk            string         `json:"puk,omitempty"`
	Apn            string         `json:"apn,omitempty"`
	DataTotalBytes int64          `json:"data_total_bytes"`
	DataUsedBytes  int64          `json:"data_used_bytes"`
	IsActivated    bool           `json:"is_activated"`
	TopupAvailable bool           `json:"topup_available"`
	Raw            map[string]any `json:"raw,omitempty"`
}

var (
	ErrNotFound        = errors.New("provider_not_found")
	ErrUnknownProvider = errors.New("unknown_provider_code")
	ErrOutOfStock      = errors.New("package_out_of_stock")
)
