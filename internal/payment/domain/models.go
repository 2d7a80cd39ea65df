package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ValidationStatus is the gateway's view of a payment.
type ValidationStatus string

const (
	StatusCompleted ValidationStatus = "completed"
	StatusPending   ValidationStatus = "pending"
	StatusFailed    ValidationStatus = "failed"
)

// Payment is the marketplace's record of one gateway charge attempt.
type Payment struct {
	ID               snowflake.ID      `json:"id"`
	OrderID          snowflake.ID      `json:"order_id"`
	Gateway          string            `json:"gateway"`
	GatewayPaymentID string            `json:"gateway_payment_id"`
	ReferenceID      string            `json:"reference_id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           ValidationStatus  `json:"status"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty"`
}

type CheckoutRequest struct {
	OrderID    snowflake.ID
	Amount     int64
	Currency   string
	SuccessURL string
	CancelURL  string
	FailURL    string
	Language   string
}

type CheckoutResult struct {
	Success      bool   `json:"success"`
	CheckoutURL  string `json:"checkout_url,omitempty"`
	GatewayID    string `json:"gateway_id,omitempty"`
	ReferenceID  string `json:"reference_id,omitempty"`
	Amount       int64  `json:"amount"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type ValidationResult struct {
	Success       bool             `json:"success"`
	Status        ValidationStatus `json:"status"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Amount        *int64           `json:"amount,omitempty"`
}

type WebhookResult struct {
	Event     string           `json:"event"`
	PaymentID string           `json:"payment_id"`
	Status    ValidationStatus `json:"status"`
	Data      map[string]any   `json:"data,omitempty"`
}

// Gateway is implemented by every payment integration. Real HTTP gateways
// live behind this contract; the in-repo sandbox adapter serves tests and
// local runs.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	ValidatePayment(ctx context.Context, payment Payment) (*ValidationResult, error)
	Refund(ctx context.Context, payment Payment, amount int64, reason string) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}

// GatewayConfig carries per-gateway credentials.
type GatewayConfig struct {
	Config map[string]any
}

// Factory builds a configured Gateway for one gateway code.
type Factory interface {
	Gateway() string
	NewGateway(cfg GatewayConfig) (Gateway, error)
}

var (
	ErrInvalidConfig    = errors.New("invalid_gateway_config")
	ErrInvalidSignature = errors.New("invalid_webhook_signature")
	ErrInvalidPayload   = errors.New("invalid_webhook_payload")
	ErrEventIgnored     = errors.New("webhook_event_ignored")
	ErrUnknownGateway   = errors.New("unknown_gateway")
	ErrRefundRejected   = errors.New("refund_rejected")
)
