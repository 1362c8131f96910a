package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/salmanahmad08/payment-service/internal/config"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)
	return NewProvider(cfg, log)
}

// signPayload produces a Stripe-Signature header value for the given payload,
// signed the way Stripe signs deliveries.
func signPayload(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventJSON(id, eventType string, created time.Time, object string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"created": %d,
		"data": {"object": %s}
	}`, id, eventType, created.Unix(), object))
}

func TestParseWebhookEventRejectsBadSignature(t *testing.T) {
	p := newTestProvider(t)
	payload := eventJSON("evt_bad", "customer.subscription.created", time.Now(), `{"id":"sub_1"}`)

	_, err := p.ParseWebhookEvent(payload, "t=123,v1=deadbeef")
	require.Error(t, err)
	require.True(t, ierr.IsSignature(err))

	// A valid signature over different bytes must fail too.
	sig := signPayload("whsec_dummy", []byte("other payload"), time.Now())
	_, err = p.ParseWebhookEvent(payload, sig)
	require.True(t, ierr.IsSignature(err))
}

func TestParseWebhookEventSubscriptionCreated(t *testing.T) {
	p := newTestProvider(t)
	now := time.Now()
	start := now.Add(-time.Hour).Unix()
	end := now.AddDate(0, 1, 0).Unix()
	object := fmt.Sprintf(`{
		"id": "sub_parse_1",
		"status": "active",
		"cancel_at_period_end": true,
		"current_period_start": %d,
		"current_period_end": %d,
		"latest_invoice": "in_parse_1"
	}`, start, end)
	payload := eventJSON("evt_sub_created", "customer.subscription.created", now, object)

	event, err := p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Equal(t, "evt_sub_created", event.ID)
	require.Equal(t, types.WebhookEventTypeSubscriptionCreated, event.Type)
	require.Equal(t, now.Unix(), event.Timestamp.Unix())

	require.NotNil(t, event.Subscription)
	require.Nil(t, event.Invoice)
	require.Equal(t, "sub_parse_1", event.Subscription.ProviderSubID)
	require.Equal(t, "active", event.Subscription.Status)
	require.True(t, event.Subscription.CancelAtPeriodEnd)
	require.Equal(t, start, event.Subscription.CurrentPeriodStart.Unix())
	require.Equal(t, end, event.Subscription.CurrentPeriodEnd.Unix())
	require.Equal(t, "in_parse_1", event.Subscription.LatestInvoiceID)
}

func TestParseWebhookEventPeriodEndAnchorFallback(t *testing.T) {
	p := newTestProvider(t)
	now := time.Now()
	anchor := now.AddDate(0, 1, 0).Unix()
	object := fmt.Sprintf(`{
		"id": "sub_anchor",
		"status": "active",
		"billing_cycle_anchor": %d
	}`, anchor)
	payload := eventJSON("evt_anchor", "customer.subscription.updated", now, object)

	event, err := p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Equal(t, anchor, event.Subscription.CurrentPeriodEnd.Unix())

	// Neither field present: the period end is unknown, not zero.
	payload = eventJSON("evt_noend", "customer.subscription.updated", now, `{"id":"sub_noend","status":"active"}`)
	event, err = p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Nil(t, event.Subscription.CurrentPeriodEnd)
}

func TestParseWebhookEventInvoicePaymentFailed(t *testing.T) {
	p := newTestProvider(t)
	now := time.Now()
	// Expanded object references decode the same as bare id strings.
	object := `{
		"subscription": {"id": "sub_inv_1"},
		"payment_intent": "pi_inv_1",
		"amount_due": 1500,
		"currency": "usd"
	}`
	payload := eventJSON("evt_inv_failed", "invoice.payment_failed", now, object)

	event, err := p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Equal(t, types.WebhookEventTypeInvoicePaymentFailed, event.Type)
	require.Nil(t, event.Subscription)
	require.NotNil(t, event.Invoice)
	require.Equal(t, "sub_inv_1", event.Invoice.ProviderSubID)
	require.Equal(t, "pi_inv_1", event.Invoice.PaymentIntentID)
	require.Equal(t, int64(1500), event.Invoice.AmountDue)
	require.Equal(t, "usd", event.Invoice.Currency)
}

func TestParseWebhookEventNullReferences(t *testing.T) {
	p := newTestProvider(t)
	now := time.Now()
	object := `{
		"subscription": null,
		"payment_intent": null,
		"amount_due": 900,
		"currency": "usd"
	}`
	payload := eventJSON("evt_inv_null", "invoice.payment_failed", now, object)

	event, err := p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Empty(t, event.Invoice.ProviderSubID)
	require.Empty(t, event.Invoice.PaymentIntentID)
}

func TestParseWebhookEventUnknownType(t *testing.T) {
	p := newTestProvider(t)
	now := time.Now()
	payload := eventJSON("evt_other", "charge.succeeded", now, `{"id":"ch_1"}`)

	event, err := p.ParseWebhookEvent(payload, signPayload("whsec_dummy", payload, now))
	require.NoError(t, err)
	require.Equal(t, types.WebhookEventTypeUnknown, event.Type)
	require.Nil(t, event.Subscription)
	require.Nil(t, event.Invoice)
	require.NotEmpty(t, event.Raw)
}
