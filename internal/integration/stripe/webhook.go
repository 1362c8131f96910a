package stripe

import (
	"time"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ParseWebhookEvent verifies the Stripe signature over the byte-exact payload
// and decodes the event into the closed variant type. Verification happens
// before any payload parsing; a failed signature is terminal.
func (p *Provider) ParseWebhookEvent(payload []byte, signature string) (*integration.WebhookEvent, error) {
	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.cfg.WebhookSecret, options)
	if err != nil {
		p.logger.Errorw("stripe webhook verification failed", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrSignature)
	}

	out := &integration.WebhookEvent{
		ID:        event.ID,
		Timestamp: time.Unix(event.Created, 0).UTC(),
		Raw:       event.Data.Raw,
	}

	switch types.WebhookEventType(event.Type) {
	case types.WebhookEventTypeSubscriptionCreated, types.WebhookEventTypeSubscriptionUpdated:
		var payload subscriptionPayload
		if err := decodeJSON(event.Data.Raw, &payload); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Invalid subscription data in webhook").
				Mark(ierr.ErrValidation)
		}
		out.Type = types.WebhookEventType(event.Type)
		out.Subscription = &integration.SubscriptionEventData{
			ProviderSubID:      payload.ID,
			Status:             payload.Status,
			CancelAtPeriodEnd:  payload.CancelAtPeriodEnd,
			CurrentPeriodStart: payload.periodStart(),
			CurrentPeriodEnd:   payload.periodEnd(),
			LatestInvoiceID:    payload.LatestInvoice.String(),
		}

	case types.WebhookEventTypeInvoicePaymentFailed:
		var payload invoicePayload
		if err := decodeJSON(event.Data.Raw, &payload); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Invalid invoice data in webhook").
				Mark(ierr.ErrValidation)
		}
		out.Type = types.WebhookEventTypeInvoicePaymentFailed
		out.Invoice = &integration.InvoiceEventData{
			ProviderSubID:   payload.Subscription.String(),
			PaymentIntentID: payload.PaymentIntent.String(),
			AmountDue:       payload.AmountDue,
			Currency:        payload.Currency,
		}

	default:
		out.Type = types.WebhookEventTypeUnknown
	}

	return out, nil
}
