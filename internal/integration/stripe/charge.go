package stripe

import (
	"context"
	"fmt"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// CreateCharge creates and confirms an off-session PaymentIntent. The caller's
// idempotency key is passed through to Stripe so a provider-side retry of the
// same key cannot double-charge either.
func (p *Provider) CreateCharge(ctx context.Context, in integration.ChargeParams) (*integration.ChargeResult, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:     stripe.Int64(in.Amount),
		Currency:   stripe.String(in.Currency),
		Customer:   stripe.String(in.CustomerRef),
		Confirm:    stripe.Bool(true),
		OffSession: stripe.Bool(true),
		Metadata:   in.Metadata,
	}
	params.IdempotencyKey = stripe.String(in.IdempotencyKey)

	intent, err := p.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		p.logger.Errorw("stripe payment intent creation failed",
			"customer", in.CustomerRef,
			"error", err,
		)
		return nil, ierr.WithError(err).
			WithHintf("Payment failed: %s", errorMessage(err)).
			Mark(ierr.ErrProvider)
	}

	result := &integration.ChargeResult{
		ProviderTxnID: intent.ID,
		Amount:        intent.Amount,
		Currency:      string(intent.Currency),
		Raw:           rawResponse(intent.LastResponse),
	}

	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		result.Status = types.TransactionStatusSuccess
	} else {
		result.Status = types.TransactionStatusFailed
		result.FailureMessage = fmt.Sprintf("payment not completed: status %s", intent.Status)
	}

	return result, nil
}

// RefundCharge issues a full-amount refund against a confirmed PaymentIntent
func (p *Provider) RefundCharge(ctx context.Context, in integration.RefundParams) (*integration.RefundResult, error) {
	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(in.ProviderTxnID),
		Amount:        stripe.Int64(in.Amount),
	}

	refund, err := p.client.V1Refunds.Create(ctx, params)
	if err != nil {
		p.logger.Errorw("stripe refund creation failed",
			"payment_intent", in.ProviderTxnID,
			"error", err,
		)
		return nil, ierr.WithError(err).
			WithHintf("Refund failed: %s", errorMessage(err)).
			Mark(ierr.ErrProvider)
	}

	return &integration.RefundResult{
		RefundID:  refund.ID,
		Succeeded: refund.Status == stripe.RefundStatusSucceeded,
		Raw:       rawResponse(refund.LastResponse),
	}, nil
}
