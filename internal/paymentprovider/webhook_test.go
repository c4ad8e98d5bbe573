package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func sign(t *testing.T, secret string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyAndParseEvent_CheckoutCompleted(t *testing.T) {
	body := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"customer": "cus_123",
			"subscription": "sub_456",
			"customer_email": "new@x.com",
			"metadata": {"planTier": "PREMIUM", "firstName": "Amina"}
		}}
	}`)

	event, err := VerifyAndParseEvent(body, sign(t, testSecret, body), testSecret)
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, event.Kind)
	require.NotNil(t, event.Checkout)
	assert.Equal(t, "cus_123", event.Checkout.CustomerID)
	assert.Equal(t, "sub_456", event.Checkout.SubscriptionID)
	assert.Equal(t, "new@x.com", event.Checkout.CustomerEmail)
	assert.Equal(t, "PREMIUM", event.Checkout.Metadata["planTier"])
	assert.Nil(t, event.Subscription)
	assert.Nil(t, event.Invoice)
}

func TestVerifyAndParseEvent_SubscriptionEvents(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		want EventKind
	}{
		{name: "updated", typ: "customer.subscription.updated", want: EventSubscriptionUpdated},
		{name: "deleted", typ: "customer.subscription.deleted", want: EventSubscriptionDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{
				"type": "` + tt.typ + `",
				"data": {"object": {
					"id": "sub_456",
					"customer": "cus_123",
					"status": "past_due",
					"current_period_start": 1704067200,
					"current_period_end": 1706745600
				}}
			}`)

			event, err := VerifyAndParseEvent(body, sign(t, testSecret, body), testSecret)
			require.NoError(t, err)

			assert.Equal(t, tt.want, event.Kind)
			require.NotNil(t, event.Subscription)
			assert.Equal(t, "sub_456", event.Subscription.ID)
			assert.Equal(t, "past_due", event.Subscription.Status)
			require.NotNil(t, event.Subscription.PeriodStart())
			assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *event.Subscription.PeriodStart())
		})
	}
}

func TestVerifyAndParseEvent_InvoicePaymentFailed(t *testing.T) {
	body := []byte(`{
		"type": "invoice.payment_failed",
		"data": {"object": {"subscription": "sub_456"}}
	}`)

	event, err := VerifyAndParseEvent(body, sign(t, testSecret, body), testSecret)
	require.NoError(t, err)

	assert.Equal(t, EventInvoicePaymentFailed, event.Kind)
	require.NotNil(t, event.Invoice)
	assert.Equal(t, "sub_456", event.Invoice.SubscriptionID)
}

func TestVerifyAndParseEvent_InvalidSignature(t *testing.T) {
	body := []byte(`{"type": "checkout.session.completed", "data": {"object": {}}}`)

	tests := []struct {
		name      string
		signature string
	}{
		{name: "tampered signature", signature: sign(t, "wrong_secret", body)},
		{name: "missing signature", signature: ""},
		{name: "garbage signature", signature: "bm90LWEtc2lnbmF0dXJl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := VerifyAndParseEvent(body, tt.signature, testSecret)
			require.ErrorIs(t, err, ErrInvalidSignature)
			assert.Nil(t, event)
		})
	}
}

func TestVerifyAndParseEvent_UnknownEventType(t *testing.T) {
	body := []byte(`{"type": "customer.created", "data": {"object": {"id": "cus_123"}}}`)

	event, err := VerifyAndParseEvent(body, sign(t, testSecret, body), testSecret)
	require.ErrorIs(t, err, ErrUnknownEvent)
	assert.Nil(t, event)
}

func TestVerifyAndParseEvent_MalformedBody(t *testing.T) {
	body := []byte(`not a json`)

	event, err := VerifyAndParseEvent(body, sign(t, testSecret, body), testSecret)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
	assert.Nil(t, event)
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	body := []byte(`{"hello":"world"}`)
	assert.True(t, VerifySignature(testSecret, body, sign(t, testSecret, body)))
	assert.False(t, VerifySignature(testSecret, append(body, ' '), sign(t, testSecret, body)))
}
