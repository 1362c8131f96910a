package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/salmanahmad08/payment-service/internal/api/dto"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/testutil"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPaymentService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		TransactionRepo:  s.GetStores().TransactionRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		UserRepo:         s.GetStores().UserRepo,
		Provider:         s.GetProvider(),
	})
}

func (s *PaymentServiceSuite) chargeRequest() *dto.CreateChargeRequest {
	return &dto.CreateChargeRequest{
		Amount:     2500,
		Currency:   "USD",
		CustomerID: "cus_test",
	}
}

func (s *PaymentServiceSuite) scriptSuccessfulCharge() {
	s.GetProvider().ChargeResult = &integration.ChargeResult{
		ProviderTxnID: "pi_test_123",
		Status:        types.TransactionStatusSuccess,
		Amount:        2500,
		Currency:      "usd",
		Raw:           json.RawMessage(`{"id":"pi_test_123","status":"succeeded"}`),
	}
}

func (s *PaymentServiceSuite) TestCreateCharge() {
	s.scriptSuccessfulCharge()

	resp, err := s.service.CreateCharge(s.GetContext(), "key-1", s.chargeRequest())
	s.NoError(err)
	s.False(resp.AlreadyExists)
	s.Equal(types.TransactionStatusSuccess, resp.Transaction.Status)
	s.Equal(int64(2500), resp.Transaction.Amount)
	s.Equal("usd", resp.Transaction.Currency)
	s.Equal("pi_test_123", *resp.Transaction.ProviderTxnID)
	s.Equal(1, s.GetProvider().ChargeCalls)

	// The provider call carried the caller's key and a lowercased currency.
	s.Equal("key-1", s.GetProvider().LastChargeParams.IdempotencyKey)
	s.Equal("usd", s.GetProvider().LastChargeParams.Currency)
	s.Equal("cus_test", s.GetProvider().LastChargeParams.CustomerRef)

	stored, err := s.GetStores().TransactionRepo.GetByIdempotencyKey(s.GetContext(), "key-1")
	s.NoError(err)
	s.Equal(resp.Transaction.ID, stored.ID)
	s.Equal(types.TransactionTypeOneTime, stored.Type)
	s.NotEmpty(stored.ProviderResponse)
}

func (s *PaymentServiceSuite) TestCreateChargeReplaysStoredResult() {
	s.scriptSuccessfulCharge()

	first, err := s.service.CreateCharge(s.GetContext(), "key-replay", s.chargeRequest())
	s.NoError(err)

	second, err := s.service.CreateCharge(s.GetContext(), "key-replay", s.chargeRequest())
	s.NoError(err)
	s.True(second.AlreadyExists)
	s.Equal(first.Transaction.ID, second.Transaction.ID)
	s.Equal(1, s.GetProvider().ChargeCalls)
}

func (s *PaymentServiceSuite) TestCreateChargeRecordsDecline() {
	s.GetProvider().ChargeResult = &integration.ChargeResult{
		ProviderTxnID:  "pi_declined",
		Status:         types.TransactionStatusFailed,
		Amount:         2500,
		Currency:       "usd",
		FailureMessage: "card_declined",
	}

	resp, err := s.service.CreateCharge(s.GetContext(), "key-declined", s.chargeRequest())
	s.NoError(err)
	s.Equal(types.TransactionStatusFailed, resp.Transaction.Status)
	s.Equal("card_declined", resp.Transaction.Meta["failure_message"])

	// The decline is part of the key's history: replaying it must not
	// produce a fresh attempt.
	replay, err := s.service.CreateCharge(s.GetContext(), "key-declined", s.chargeRequest())
	s.NoError(err)
	s.True(replay.AlreadyExists)
	s.Equal(types.TransactionStatusFailed, replay.Transaction.Status)
	s.Equal(1, s.GetProvider().ChargeCalls)
}

func (s *PaymentServiceSuite) TestCreateChargeProviderErrorWritesNothing() {
	s.GetProvider().ChargeErr = ierr.NewError("connection reset").Mark(ierr.ErrProvider)

	_, err := s.service.CreateCharge(s.GetContext(), "key-flaky", s.chargeRequest())
	s.Error(err)
	s.True(ierr.IsProvider(err))

	_, err = s.GetStores().TransactionRepo.GetByIdempotencyKey(s.GetContext(), "key-flaky")
	s.True(ierr.IsNotFound(err))

	// A retry with the same key reaches the provider again.
	s.GetProvider().ChargeErr = nil
	s.scriptSuccessfulCharge()
	resp, err := s.service.CreateCharge(s.GetContext(), "key-flaky", s.chargeRequest())
	s.NoError(err)
	s.False(resp.AlreadyExists)
	s.Equal(2, s.GetProvider().ChargeCalls)
}

func (s *PaymentServiceSuite) TestCreateChargeValidation() {
	_, err := s.service.CreateCharge(s.GetContext(), "", s.chargeRequest())
	s.True(ierr.IsValidation(err))

	req := s.chargeRequest()
	req.Amount = 0
	_, err = s.service.CreateCharge(s.GetContext(), "key-bad", req)
	s.True(ierr.IsValidation(err))

	req = s.chargeRequest()
	req.Currency = "usdollar"
	_, err = s.service.CreateCharge(s.GetContext(), "key-bad", req)
	s.True(ierr.IsValidation(err))

	s.Equal(0, s.GetProvider().ChargeCalls)
}

func (s *PaymentServiceSuite) TestCreateChargeLosesInsertRace() {
	s.scriptSuccessfulCharge()

	// While our provider call is in flight, a competing request with the
	// same key persists its record first. Our insert must then collapse
	// onto the winner instead of erroring or duplicating.
	winner := &transaction.Transaction{
		ID:             "txn_winner",
		IdempotencyKey: lo.ToPtr("key-race"),
		UserID:         types.DefaultUserID,
		Type:           types.TransactionTypeOneTime,
		Provider:       types.PaymentProviderStripe,
		ProviderTxnID:  lo.ToPtr("pi_winner"),
		Amount:         2500,
		Currency:       "usd",
		Status:         types.TransactionStatusSuccess,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.GetProvider().OnCharge = func(ctx context.Context) {
		s.NoError(s.GetStores().TransactionRepo.Create(ctx, winner))
	}

	resp, err := s.service.CreateCharge(s.GetContext(), "key-race", s.chargeRequest())
	s.NoError(err)
	s.True(resp.AlreadyExists)
	s.Equal("txn_winner", resp.Transaction.ID)
	s.Equal("pi_winner", *resp.Transaction.ProviderTxnID)
}

func (s *PaymentServiceSuite) seedChargedTransaction(key string, status types.TransactionStatus) *transaction.Transaction {
	txn := &transaction.Transaction{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey: lo.ToPtr(key),
		UserID:         types.DefaultUserID,
		Type:           types.TransactionTypeOneTime,
		Provider:       types.PaymentProviderStripe,
		ProviderTxnID:  lo.ToPtr("pi_seeded"),
		Amount:         2500,
		Currency:       "usd",
		Status:         status,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TransactionRepo.Create(s.GetContext(), txn))
	return txn
}

func (s *PaymentServiceSuite) TestRefundCharge() {
	seeded := s.seedChargedTransaction("key-refund", types.TransactionStatusSuccess)
	s.GetProvider().RefundResult = &integration.RefundResult{
		RefundID:  "re_test_123",
		Succeeded: true,
		Raw:       json.RawMessage(`{"id":"re_test_123","status":"succeeded"}`),
	}

	resp, err := s.service.RefundCharge(s.GetContext(), &dto.RefundChargeRequest{IdempotencyKey: "key-refund"})
	s.NoError(err)
	s.False(resp.AlreadyRefunded)
	s.Equal("re_test_123", resp.RefundID)
	s.Equal(types.TransactionStatusRefunded, resp.Transaction.Status)
	s.Equal("pi_seeded", s.GetProvider().LastRefundParams.ProviderTxnID)
	s.Equal(int64(2500), s.GetProvider().LastRefundParams.Amount)

	stored, err := s.GetStores().TransactionRepo.Get(s.GetContext(), seeded.ID)
	s.NoError(err)
	s.Equal(types.TransactionStatusRefunded, stored.Status)
	s.Equal("re_test_123", *stored.RefundID)
}

func (s *PaymentServiceSuite) TestRefundChargeAlreadyRefunded() {
	txn := s.seedChargedTransaction("key-rerefund", types.TransactionStatusRefunded)
	txn.RefundID = lo.ToPtr("re_prior")
	s.NoError(s.GetStores().TransactionRepo.Update(s.GetContext(), txn))

	resp, err := s.service.RefundCharge(s.GetContext(), &dto.RefundChargeRequest{IdempotencyKey: "key-rerefund"})
	s.NoError(err)
	s.True(resp.AlreadyRefunded)
	s.Equal("re_prior", resp.RefundID)
	s.Equal(0, s.GetProvider().RefundCalls)
}

func (s *PaymentServiceSuite) TestRefundChargeUnknownKey() {
	_, err := s.service.RefundCharge(s.GetContext(), &dto.RefundChargeRequest{IdempotencyKey: "key-nope"})
	s.True(ierr.IsNotFound(err))
	s.Equal(0, s.GetProvider().RefundCalls)
}

func (s *PaymentServiceSuite) TestRefundChargeRequiresSuccessfulCharge() {
	s.seedChargedTransaction("key-failed-charge", types.TransactionStatusFailed)

	_, err := s.service.RefundCharge(s.GetContext(), &dto.RefundChargeRequest{IdempotencyKey: "key-failed-charge"})
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.GetProvider().RefundCalls)
}

func (s *PaymentServiceSuite) TestRefundChargeProviderRejection() {
	seeded := s.seedChargedTransaction("key-rejected", types.TransactionStatusSuccess)
	s.GetProvider().RefundResult = &integration.RefundResult{
		RefundID:  "re_rejected",
		Succeeded: false,
	}

	_, err := s.service.RefundCharge(s.GetContext(), &dto.RefundChargeRequest{IdempotencyKey: "key-rejected"})
	s.True(ierr.IsProvider(err))

	// The ledger record is untouched and a later retry can still refund it.
	stored, err := s.GetStores().TransactionRepo.Get(s.GetContext(), seeded.ID)
	s.NoError(err)
	s.Equal(types.TransactionStatusSuccess, stored.Status)
	s.Nil(stored.RefundID)
}
