package sandbox

import (
	"context"
	"strings"
	"testing"

	paymentdomain "github.com/smallbiznis/telesim/internal/payment/domain"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func newGateway(t *testing.T) paymentdomain.Gateway {
	t.Helper()
	gateway, err := NewFactory().NewGateway(paymentdomain.GatewayConfig{
		Config: map[string]any{"webhook_secret": testSecret},
	})
	require.NoError(t, err)
	return gateway
}

func TestFactoryRequiresWebhookSecret(t *testing.T) {
	factory := NewFactory()
	require.Equal(t, "sandbox", factory.Gateway())

	_, err := factory.NewGateway(paymentdomain.GatewayConfig{Config: map[string]any{}})
	require.ErrorIs(t, err, paymentdomain.ErrInvalidConfig)

	_, err = factory.NewGateway(paymentdomain.GatewayConfig{
		Config: map[string]any{"webhook_secret": "   "},
	})
	require.ErrorIs(t, err, paymentdomain.ErrInvalidConfig)
}

func TestCreateCheckout(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()

	result, err := gateway.CreateCheckout(ctx, paymentdomain.CheckoutRequest{
		OrderID:  1001,
		Amount:   1999,
		Currency: "USD",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, strings.HasPrefix(result.GatewayID, "sbx_"))
	require.Contains(t, result.CheckoutURL, result.GatewayID)
	require.Equal(t, int64(1999), result.Amount)

	// Non-positive amounts fail the checkout without erroring.
	result, err = gateway.CreateCheckout(ctx, paymentdomain.CheckoutRequest{Amount: 0})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.NotEmpty(t, result.ErrorMessage)
}

func TestValidatePaymentEchoesStatus(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()

	result, err := gateway.ValidatePayment(ctx, paymentdomain.Payment{
		GatewayPaymentID: "sbx_abc",
		Amount:           1999,
		Status:           paymentdomain.StatusCompleted,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, paymentdomain.StatusCompleted, result.Status)
	require.Equal(t, "sbx_abc", result.TransactionID)

	result, err = gateway.ValidatePayment(ctx, paymentdomain.Payment{})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, paymentdomain.StatusPending, result.Status)
}

func TestRefund(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()
	completed := paymentdomain.Payment{Amount: 1999, Status: paymentdomain.StatusCompleted}

	require.NoError(t, gateway.Refund(ctx, completed, 1999, "customer request"))
	require.NoError(t, gateway.Refund(ctx, completed, 500, "partial"))

	err := gateway.Refund(ctx, paymentdomain.Payment{Amount: 1999, Status: paymentdomain.StatusPending}, 1999, "")
	require.ErrorIs(t, err, paymentdomain.ErrRefundRejected)

	err = gateway.Refund(ctx, completed, 2000, "over-refund")
	require.ErrorIs(t, err, paymentdomain.ErrRefundRejected)

	err = gateway.Refund(ctx, completed, 0, "zero")
	require.ErrorIs(t, err, paymentdomain.ErrRefundRejected)
}

func TestHandleWebhook(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()
	payload := []byte(`{"event":"payment.updated","payment_id":"sbx_abc","status":"completed","data":{"amount":1999}}`)

	result, err := gateway.HandleWebhook(ctx, payload, Sign(testSecret, payload))
	require.NoError(t, err)
	require.Equal(t, "payment.updated", result.Event)
	require.Equal(t, "sbx_abc", result.PaymentID)
	require.Equal(t, paymentdomain.StatusCompleted, result.Status)
	require.Equal(t, float64(1999), result.Data["amount"])
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()
	payload := []byte(`{"event":"payment.updated","payment_id":"sbx_abc","status":"completed"}`)

	_, err := gateway.HandleWebhook(ctx, payload, "")
	require.ErrorIs(t, err, paymentdomain.ErrInvalidSignature)

	_, err = gateway.HandleWebhook(ctx, payload, Sign("wrong_secret", payload))
	require.ErrorIs(t, err, paymentdomain.ErrInvalidSignature)

	// A tampered payload invalidates a previously valid signature.
	signature := Sign(testSecret, payload)
	tampered := []byte(`{"event":"payment.updated","payment_id":"sbx_abc","status":"failed"}`)
	_, err = gateway.HandleWebhook(ctx, tampered, signature)
	require.ErrorIs(t, err, paymentdomain.ErrInvalidSignature)
}

func TestHandleWebhookRejectsBadPayload(t *testing.T) {
	gateway := newGateway(t)
	ctx := context.Background()

	payload := []byte(`not json`)
	_, err := gateway.HandleWebhook(ctx, payload, Sign(testSecret, payload))
	require.ErrorIs(t, err, paymentdomain.ErrInvalidPayload)

	payload = []byte(`{"event":"","payment_id":"sbx_abc","status":"completed"}`)
	_, err = gateway.HandleWebhook(ctx, payload, Sign(testSecret, payload))
	require.ErrorIs(t, err, paymentdomain.ErrInvalidPayload)

	payload = []byte(`{"event":"payment.updated","payment_id":"sbx_abc","status":"chargeback"}`)
	_, err = gateway.HandleWebhook(ctx, payload, Sign(testSecret, payload))
	require.ErrorIs(t, err, paymentdomain.ErrEventIgnored)
}
