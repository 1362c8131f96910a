package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/testutil"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type WebhookServiceSuite struct {
	testutil.BaseServiceTestSuite
	service WebhookService
}

func TestWebhookService(t *testing.T) {
	suite.Run(t, new(WebhookServiceSuite))
}

func (s *WebhookServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewWebhookService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		TransactionRepo:  s.GetStores().TransactionRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		UserRepo:         s.GetStores().UserRepo,
		Provider:         s.GetProvider(),
	})
}

func (s *WebhookServiceSuite) handle(event *integration.WebhookEvent) error {
	s.GetProvider().ParsedEvent = event
	return s.service.HandleEvent(s.GetContext(), []byte(`{}`), "sig")
}

func (s *WebhookServiceSuite) subscriptionEvent(id string, eventType types.WebhookEventType, ts time.Time, data *integration.SubscriptionEventData) *integration.WebhookEvent {
	return &integration.WebhookEvent{
		ID:           id,
		Type:         eventType,
		Timestamp:    ts,
		Subscription: data,
		Raw:          json.RawMessage(`{"id":"` + id + `"}`),
	}
}

func (s *WebhookServiceSuite) TestSignatureFailureIsTerminal() {
	s.GetProvider().ParseErr = ierr.NewError("bad signature").Mark(ierr.ErrSignature)

	err := s.service.HandleEvent(s.GetContext(), []byte(`{}`), "bad")
	s.True(ierr.IsSignature(err))
}

func (s *WebhookServiceSuite) TestSubscriptionCreatedMaterializesRecord() {
	start := s.GetNow().Add(-time.Hour).Truncate(time.Second)
	end := start.AddDate(0, 1, 0)
	err := s.handle(s.subscriptionEvent("evt_1", types.WebhookEventTypeSubscriptionCreated, s.GetNow(), &integration.SubscriptionEventData{
		ProviderSubID:      "sub_prov_hooked",
		Status:             "active",
		CurrentPeriodStart: lo.ToPtr(start),
		CurrentPeriodEnd:   lo.ToPtr(end),
	}))
	s.NoError(err)

	stored, err := s.GetStores().SubscriptionRepo.GetByProviderSubID(s.GetContext(), "sub_prov_hooked")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.Status)
	s.Equal(end, *stored.CurrentPeriodEnd)
	s.Equal(s.GetNow(), stored.LastSyncedAt)
}

func (s *WebhookServiceSuite) TestStaleEventCannotRegressState() {
	now := s.GetNow()
	newEnd := now.AddDate(0, 2, 0)
	err := s.handle(s.subscriptionEvent("evt_new", types.WebhookEventTypeSubscriptionCreated, now, &integration.SubscriptionEventData{
		ProviderSubID:     "sub_prov_stale",
		CancelAtPeriodEnd: true,
		CurrentPeriodEnd:  lo.ToPtr(newEnd),
	}))
	s.NoError(err)

	// A redelivered older event carries state that has since been superseded.
	oldEnd := now.AddDate(0, 1, 0)
	err = s.handle(s.subscriptionEvent("evt_old", types.WebhookEventTypeSubscriptionUpdated, now.Add(-time.Hour), &integration.SubscriptionEventData{
		ProviderSubID:    "sub_prov_stale",
		CurrentPeriodEnd: lo.ToPtr(oldEnd),
	}))
	s.NoError(err)

	stored, err := s.GetStores().SubscriptionRepo.GetByProviderSubID(s.GetContext(), "sub_prov_stale")
	s.NoError(err)
	s.True(stored.CancelAtPeriodEnd)
	s.Equal(newEnd, *stored.CurrentPeriodEnd)
	s.Equal(now, stored.LastSyncedAt)
}

func (s *WebhookServiceSuite) TestSubscriptionUpdatedRecordsInvoicePlaceholder() {
	event := s.subscriptionEvent("evt_upd", types.WebhookEventTypeSubscriptionUpdated, s.GetNow(), &integration.SubscriptionEventData{
		ProviderSubID:   "sub_prov_inv",
		LatestInvoiceID: "in_latest_1",
	})
	s.NoError(s.handle(event))

	txn, err := s.GetStores().TransactionRepo.GetByProviderRef(s.GetContext(), "in_latest_1")
	s.NoError(err)
	s.Equal(types.TransactionStatusPending, txn.Status)
	s.Equal(types.TransactionTypeSubscription, txn.Type)
	s.Equal(int64(0), txn.Amount)
	s.Equal("usd", txn.Currency)
	s.NotNil(txn.IdempotencyKey)

	// Redelivery converges on the single existing row.
	event.ID = "evt_upd_redelivered"
	s.NoError(s.handle(event))
	count, err := s.GetStores().TransactionRepo.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *WebhookServiceSuite) seedSubscription(providerSubID string) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:        types.DefaultUserID,
		Provider:      types.PaymentProviderStripe,
		ProviderSubID: providerSubID,
		PlanID:        "price_gold",
		Status:        types.SubscriptionStatusActive,
		LastSyncedAt:  s.GetNow().Add(-time.Hour),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	stored, err := s.GetStores().SubscriptionRepo.Upsert(s.GetContext(), sub)
	s.NoError(err)
	return stored
}

func (s *WebhookServiceSuite) invoiceFailedEvent(id string, data *integration.InvoiceEventData) *integration.WebhookEvent {
	return &integration.WebhookEvent{
		ID:        id,
		Type:      types.WebhookEventTypeInvoicePaymentFailed,
		Timestamp: s.GetNow(),
		Invoice:   data,
		Raw:       json.RawMessage(`{"id":"` + id + `"}`),
	}
}

func (s *WebhookServiceSuite) TestInvoicePaymentFailedRecordsLedgerRow() {
	sub := s.seedSubscription("sub_prov_fail")

	err := s.handle(s.invoiceFailedEvent("evt_fail", &integration.InvoiceEventData{
		ProviderSubID:   "sub_prov_fail",
		PaymentIntentID: "pi_failed_1",
		AmountDue:       1500,
		Currency:        "usd",
	}))
	s.NoError(err)

	txn, err := s.GetStores().TransactionRepo.GetByProviderRef(s.GetContext(), "pi_failed_1")
	s.NoError(err)
	s.Equal(types.TransactionStatusFailed, txn.Status)
	s.Equal(int64(1500), txn.Amount)
	s.Equal(types.DefaultUserID, txn.UserID)
	s.Equal(sub.ID, txn.Meta["subscription_id"])

	// A redelivery with a corrected amount updates the same row.
	err = s.handle(s.invoiceFailedEvent("evt_fail_2", &integration.InvoiceEventData{
		ProviderSubID:   "sub_prov_fail",
		PaymentIntentID: "pi_failed_1",
		AmountDue:       1800,
		Currency:        "usd",
	}))
	s.NoError(err)

	count, err := s.GetStores().TransactionRepo.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, count)
	txn, err = s.GetStores().TransactionRepo.GetByProviderRef(s.GetContext(), "pi_failed_1")
	s.NoError(err)
	s.Equal(int64(1800), txn.Amount)
}

func (s *WebhookServiceSuite) TestInvoicePaymentFailedUnknownSubscriptionIsAcknowledged() {
	err := s.handle(s.invoiceFailedEvent("evt_orphan", &integration.InvoiceEventData{
		ProviderSubID:   "sub_prov_unknown",
		PaymentIntentID: "pi_orphan",
		AmountDue:       1500,
		Currency:        "usd",
	}))
	s.NoError(err)

	count, err := s.GetStores().TransactionRepo.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, count)
}

func (s *WebhookServiceSuite) TestInvoicePaymentFailedWithoutPaymentIntentIsSkipped() {
	s.seedSubscription("sub_prov_nopi")

	err := s.handle(s.invoiceFailedEvent("evt_nopi", &integration.InvoiceEventData{
		ProviderSubID: "sub_prov_nopi",
		AmountDue:     1500,
		Currency:      "usd",
	}))
	s.NoError(err)

	count, err := s.GetStores().TransactionRepo.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, count)
}

func (s *WebhookServiceSuite) TestUnknownEventTypeIsAcknowledged() {
	err := s.handle(&integration.WebhookEvent{
		ID:        "evt_unknown",
		Type:      types.WebhookEventTypeUnknown,
		Timestamp: s.GetNow(),
		Raw:       json.RawMessage(`{"type":"charge.succeeded"}`),
	})
	s.NoError(err)

	count, err := s.GetStores().TransactionRepo.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, count)
}
