package sandbox

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	paymentdomain "github.com/smallbiznis/telesim/internal/payment/domain"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Gateway() string {
	return "sandbox"
}

func (f *Factory) NewGateway(cfg paymentdomain.GatewayConfig) (paymentdomain.Gateway, error) {
	secret, _ := cfg.Config["webhook_secret"].(string)
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, paymentdomain.ErrInvalidConfig
	}

	return &Adapter{
		webhookSecret: secret,
	}, nil
}

// Adapter is a deterministic in-process gateway. Checkouts always succeed,
// validation echoes the payment's stored status, and webhooks are verified
// with an HMAC signature over the raw payload.
type Adapter struct {
	webhookSecret string
}

func (a *Adapter) CreateCheckout(ctx context.Context, req paymentdomain.CheckoutRequest) (*paymentdomain.CheckoutResult, error) {
	_ = ctx
	if req.Amount <= 0 {
		return &paymentdomain.CheckoutResult{
			Success:      false,
			Amount:       req.Amount,
			ErrorMessage: "amount must be positive",
		}, nil
	}

	gatewayID := fmt.Sprintf("sbx_%s", uuid.NewString())
	return &paymentdomain.CheckoutResult{
		Success:     true,
		CheckoutURL: fmt.Sprintf("https://checkout.sandbox.example/%s", gatewayID),
		GatewayID:   gatewayID,
		ReferenceID: uuid.NewString(),
		Amount:      req.Amount,
	}, nil
}

func (a *Adapter) ValidatePayment(ctx context.Context, payment paymentdomain.Payment) (*paymentdomain.ValidationResult, error) {
	_ = ctx
	status := payment.Status
	if status == "" {
		status = paymentdomain.StatusPending
	}
	amount := payment.Amount
	return &paymentdomain.ValidationResult{
		Success:       status == paymentdomain.StatusCompleted,
		Status:        status,
		TransactionID: payment.GatewayPaymentID,
		Amount:        &amount,
	}, nil
}

func (a *Adapter) Refund(ctx context.Context, payment paymentdomain.Payment, amount int64, reason string) error {
	_ = ctx
	_ = reason
	if payment.Status != paymentdomain.StatusCompleted {
		return paymentdomain.ErrRefundRejected
	}
	if amount <= 0 || amount > payment.Amount {
		return paymentdomain.ErrRefundRejected
	}
	return nil
}

type webhookEnvelope struct {
	Event     string         `json:"event"`
	PaymentID string         `json:"payment_id"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
}

func (a *Adapter) HandleWebhook(ctx context.Context, payload []byte, signature string) (*paymentdomain.WebhookResult, error) {
	_ = ctx
	if err := a.verify(payload, signature); err != nil {
		return nil, err
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(envelope.Event) == "" || strings.TrimSpace(envelope.PaymentID) == "" {
		return nil, paymentdomain.ErrInvalidPayload
	}

	var status paymentdomain.ValidationStatus
	switch strings.TrimSpace(envelope.Status) {
	case "completed":
		status = paymentdomain.StatusCompleted
	case "pending":
		status = paymentdomain.StatusPending
	case "failed":
		status = paymentdomain.StatusFailed
	default:
		return nil, paymentdomain.ErrEventIgnored
	}

	return &paymentdomain.WebhookResult{
		Event:     envelope.Event,
		PaymentID: envelope.PaymentID,
		Status:    status,
		Data:      envelope.Data,
	}, nil
}

func (a *Adapter) verify(payload []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return paymentdomain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the webhook signature for a payload. Test hook.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
