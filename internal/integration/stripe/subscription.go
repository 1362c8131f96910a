package stripe

import (
	"context"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// CreateSubscription creates a Stripe subscription for the customer on the
// given price. Billing period fields are read from the raw response body
// because their location varies between provider API versions; the
// period-end/billing-cycle-anchor fallback is applied here so callers always
// see a resolved value or nil.
func (p *Provider) CreateSubscription(ctx context.Context, in integration.SubscriptionParams) (*integration.SubscriptionResult, error) {
	params := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(in.CustomerRef),
		Items: []*stripe.SubscriptionCreateItemParams{
			{Price: stripe.String(in.PlanID)},
		},
	}
	params.IdempotencyKey = stripe.String(in.IdempotencyKey)

	sub, err := p.client.V1Subscriptions.Create(ctx, params)
	if err != nil {
		p.logger.Errorw("stripe subscription creation failed",
			"customer", in.CustomerRef,
			"price", in.PlanID,
			"error", err,
		)
		return nil, ierr.WithError(err).
			WithHintf("Subscription creation failed: %s", errorMessage(err)).
			Mark(ierr.ErrProvider)
	}

	raw := rawResponse(sub.LastResponse)

	var payload subscriptionPayload
	if len(raw) > 0 {
		// Best effort: a payload we cannot decode leaves the period fields
		// unknown, it does not fail the subscription that Stripe already created.
		if err := decodeJSON(raw, &payload); err != nil {
			p.logger.Warnw("failed to decode subscription response body",
				"subscription_id", sub.ID,
				"error", err,
			)
		}
	}

	amount, currency := payload.planAmount()

	return &integration.SubscriptionResult{
		ProviderSubID:      sub.ID,
		Status:             types.ParseSubscriptionStatus(string(sub.Status)),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CurrentPeriodStart: payload.periodStart(),
		CurrentPeriodEnd:   payload.periodEnd(),
		PlanAmount:         amount,
		Currency:           currency,
		Raw:                raw,
	}, nil
}
