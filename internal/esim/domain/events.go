package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const AggregateType = "esim_profile"

// Deps are the collaborators profile events use in their Handle phase.
type Deps struct {
	DB       *gorm.DB
	Profiles Repository
	Clock    clock.Clock
}

// Created provisions a new profile in Active and persists the full row,
// secrets included.
type Created struct {
	ID              snowflake.ID   `json:"id"`
	OrderID         snowflake.ID   `json:"order_id"`
	ProviderID      snowflake.ID   `json:"provider_id"`
	ProviderOrderID string         `json:"provider_order_id"`
	ICCID           string         `json:"iccid"`
	ActivationCode  string         `json:"activation_code"`
	DataTotalBytes  int64          `json:"data_total_bytes"`
	SmdpAddress     *string        `json:"smdp_address,omitempty"`
	QrCodeData      *string        `json:"qr_code_data,omitempty"`
	LpaString       *string        `json:"lpa_string,omitempty"`
	Pin             *string        `json:"-"`
	Puk             *string        `json:"-"`
	Apn             *string        `json:"apn,omitempty"`
	ProviderData    map[string]any `json:"provider_data,omitempty"`
	OccurredAt      time.Time      `json:"occurred_at"`
}

func (e *Created) AggregateType() string     { return AggregateType }
func (e *Created) EventType() string         { return "esim_profile_created" }
func (e *Created) AggregateID() snowflake.ID { return e.ID }
func (e *Created) SynthesizeID(n *snowflake.Node) {
	e.ID = n.Generate()
}

func (e *Created) Validate(state *EsimProfile) error {
	_ = state
	return nil
}

func (e *Created) Apply(state *EsimProfile) {
	state.ID = e.ID
	state.OrderID = e.OrderID
	state.ProviderID = e.ProviderID
	state.ProviderOrderID = e.ProviderOrderID
	state.ICCID = e.ICCID
	state.ActivationCode = e.ActivationCode
	state.DataTotalBytes = e.DataTotalBytes
	state.SmdpAddress = e.SmdpAddress
	state.QrCodeData = e.QrCodeData
	state.LpaString = e.LpaString
	state.Pin = e.Pin
	state.Puk = e.Puk
	state.Apn = e.Apn
	state.Status = StatusActive
	if e.ProviderData != nil {
		state.ProviderData = datatypes.JSONMap(e.ProviderData)
	}
	state.CreatedAt = e.OccurredAt
	state.UpdatedAt = e.OccurredAt
}

func (e *Created) Handle(ctx context.Context, state *EsimProfile, deps Deps) error {
	return deps.Profiles.Create(ctx, deps.DB, state)
}

// UsageUpdated folds a usage snapshot into the profile. Status derivation is
// evaluated in fixed priority order: exhaustion wins over activation, and a
// repeated identical snapshot never moves status further.
type UsageUpdated struct {
	ID             snowflake.ID `json:"id"`
	DataUsedBytes  int64        `json:"data_used_bytes"`
	IsActivated    bool         `json:"is_activated"`
	TopupAvailable bool         `json:"topup_available"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

func (e *UsageUpdated) AggregateType() string     { return AggregateType }
func (e *UsageUpdated) EventType() string         { return "esim_usage_updated" }
func (e *UsageUpdated) AggregateID() snowflake.ID { return e.ID }

func (e *UsageUpdated) Validate(state *EsimProfile) error {
	if state.ID == 0 {
		return ErrNotFound
	}
	return nil
}

func (e *UsageUpdated) Apply(state *EsimProfile) {
	state.DataUsedBytes = e.DataUsedBytes
	state.IsActivated = e.IsActivated
	state.TopupAvailable = e.TopupAvailable
	checkedAt := e.OccurredAt
	state.LastUsageCheckAt = &checkedAt

	switch {
	case state.DataTotalBytes > 0 && e.DataUsedBytes >= state.DataTotalBytes:
		state.Status = StatusConsumed
	case e.IsActivated && state.Status == StatusActive:
		state.Status = StatusActivated
		activatedAt := e.OccurredAt
		state.ActivatedAt = &activatedAt
	}
	state.UpdatedAt = e.OccurredAt
}

func (e *UsageUpdated) Handle(ctx context.Context, state *EsimProfile, deps Deps) error {
	return deps.Profiles.Update(ctx, deps.DB, state)
}
