package service

import (
	"context"

	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/idempotency"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
)

// WebhookService reconciles provider webhook events into the local
// subscription store and transaction ledger.
//
// Handling is idempotent end to end: a redelivered event converges on the
// same stored state, and a stale event cannot roll a record back. Events we
// cannot act on (unknown type, unknown subscription) are logged and
// acknowledged so the provider stops retrying them.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	ServiceParams
	keygen *idempotency.Generator
}

func NewWebhookService(params ServiceParams) WebhookService {
	return &webhookService{
		ServiceParams: params,
		keygen:        idempotency.NewGenerator(),
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.Provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		// Signature failures are terminal: the payload is not trusted and
		// must not be retried into the ledger.
		return err
	}

	s.Logger.Infow("webhook event received",
		"event_id", event.ID,
		"event_type", event.Type)

	switch event.Type {
	case types.WebhookEventTypeSubscriptionCreated:
		return s.applySubscriptionState(ctx, event)
	case types.WebhookEventTypeSubscriptionUpdated:
		if err := s.applySubscriptionState(ctx, event); err != nil {
			return err
		}
		return s.recordInvoicePlaceholder(ctx, event)
	case types.WebhookEventTypeInvoicePaymentFailed:
		return s.recordFailedInvoice(ctx, event)
	default:
		s.Logger.Warnw("ignoring webhook event of unhandled type",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}
}

// applySubscriptionState upserts the subscription the event describes. The
// store's recency guard on LastSyncedAt makes redelivered and out-of-order
// events converge without regressing newer state.
func (s *webhookService) applySubscriptionState(ctx context.Context, event *integration.WebhookEvent) error {
	data := event.Subscription
	if data == nil || data.ProviderSubID == "" {
		s.Logger.Warnw("subscription event without subscription data", "event_id", event.ID)
		return nil
	}

	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		Provider:           s.Provider.Name(),
		ProviderSubID:      data.ProviderSubID,
		Status:             types.SubscriptionStatusActive,
		CancelAtPeriodEnd:  data.CancelAtPeriodEnd,
		CurrentPeriodStart: data.CurrentPeriodStart,
		CurrentPeriodEnd:   data.CurrentPeriodEnd,
		LastSyncedAt:       event.Timestamp,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	stored, err := s.SubscriptionRepo.Upsert(ctx, sub)
	if err != nil {
		return err
	}

	s.Logger.Infow("subscription state applied",
		"event_id", event.ID,
		"subscription_id", stored.ID,
		"provider_sub_id", stored.ProviderSubID,
		"last_synced_at", stored.LastSyncedAt)
	return nil
}

// recordInvoicePlaceholder writes a pending ledger row for the latest invoice
// carried by a subscription.updated event, if one is not recorded yet.
func (s *webhookService) recordInvoicePlaceholder(ctx context.Context, event *integration.WebhookEvent) error {
	data := event.Subscription
	if data == nil || data.LatestInvoiceID == "" {
		return nil
	}

	if _, err := s.TransactionRepo.GetByProviderRef(ctx, data.LatestInvoiceID); err == nil {
		return nil
	} else if !ierr.IsNotFound(err) {
		return err
	}

	var userID string
	stored, err := s.SubscriptionRepo.GetByProviderSubID(ctx, data.ProviderSubID)
	if err == nil {
		userID = stored.UserID
	} else if !ierr.IsNotFound(err) {
		return err
	}

	key := s.keygen.GenerateKey(idempotency.ScopeInvoicePlaceholder, map[string]interface{}{
		"invoice_id": data.LatestInvoiceID,
	})
	txn := &transaction.Transaction{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey: lo.ToPtr(key),
		UserID:         userID,
		Type:           types.TransactionTypeSubscription,
		Provider:       s.Provider.Name(),
		ProviderTxnID:  lo.ToPtr(data.ProviderSubID),
		ProviderRef:    lo.ToPtr(data.LatestInvoiceID),
		Amount:         0,
		Currency:       "usd",
		Status:         types.TransactionStatusPending,
		Meta: types.Metadata{
			"invoice_id": data.LatestInvoiceID,
			"event_id":   event.ID,
		},
		ProviderResponse: event.Raw,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.TransactionRepo.Create(ctx, txn); err != nil {
		if ierr.IsAlreadyExists(err) {
			// A concurrent delivery recorded the invoice first.
			return nil
		}
		return err
	}

	s.Logger.Infow("invoice placeholder recorded",
		"event_id", event.ID,
		"transaction_id", txn.ID,
		"invoice_id", data.LatestInvoiceID)
	return nil
}

// recordFailedInvoice upserts a failed ledger row for an invoice.payment_failed
// event, keyed by the invoice's payment intent.
func (s *webhookService) recordFailedInvoice(ctx context.Context, event *integration.WebhookEvent) error {
	data := event.Invoice
	if data == nil || data.ProviderSubID == "" {
		s.Logger.Warnw("invoice event without a subscription reference", "event_id", event.ID)
		return nil
	}

	stored, err := s.SubscriptionRepo.GetByProviderSubID(ctx, data.ProviderSubID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("payment failure for unknown subscription",
				"event_id", event.ID,
				"provider_sub_id", data.ProviderSubID)
			return nil
		}
		return err
	}

	if data.PaymentIntentID == "" {
		s.Logger.Warnw("payment failure without a payment intent",
			"event_id", event.ID,
			"provider_sub_id", data.ProviderSubID)
		return nil
	}

	key := s.keygen.GenerateKey(idempotency.ScopeFailedInvoice, map[string]interface{}{
		"payment_intent_id": data.PaymentIntentID,
	})
	txn := &transaction.Transaction{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey: lo.ToPtr(key),
		UserID:         stored.UserID,
		Type:           types.TransactionTypeSubscription,
		Provider:       s.Provider.Name(),
		ProviderTxnID:  lo.ToPtr(data.ProviderSubID),
		ProviderRef:    lo.ToPtr(data.PaymentIntentID),
		Amount:         data.AmountDue,
		Currency:       data.Currency,
		Status:         types.TransactionStatusFailed,
		Meta: types.Metadata{
			"subscription_id": stored.ID,
			"event_id":        event.ID,
		},
		ProviderResponse: event.Raw,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.TransactionRepo.UpsertByProviderRef(ctx, txn); err != nil {
		return err
	}

	s.Logger.Infow("failed invoice recorded",
		"event_id", event.ID,
		"provider_sub_id", data.ProviderSubID,
		"payment_intent_id", data.PaymentIntentID,
		"amount_due", data.AmountDue)
	return nil
}
