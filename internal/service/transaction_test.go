package service

import (
	"testing"
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	"github.com/salmanahmad08/payment-service/internal/domain/user"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/testutil"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TransactionService
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTransactionService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		TransactionRepo:  s.GetStores().TransactionRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		UserRepo:         s.GetStores().UserRepo,
		Provider:         s.GetProvider(),
	})
}

func (s *TransactionServiceSuite) seedUser() *user.User {
	u := &user.User{
		ID:           types.DefaultUserID,
		Email:        "payer@example.com",
		Name:         "Test Payer",
		CustomerRef:  "cus_test",
		PasswordHash: "$2a$10$secret",
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), u))
	return u
}

func (s *TransactionServiceSuite) seedTransaction(key string, status types.TransactionStatus, createdAt time.Time) *transaction.Transaction {
	txn := &transaction.Transaction{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey: lo.ToPtr(key),
		UserID:         types.DefaultUserID,
		Type:           types.TransactionTypeOneTime,
		Provider:       types.PaymentProviderStripe,
		Amount:         2500,
		Currency:       "usd",
		Status:         status,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	txn.CreatedAt = createdAt
	s.NoError(s.GetStores().TransactionRepo.Create(s.GetContext(), txn))
	return txn
}

func (s *TransactionServiceSuite) TestGetTransaction() {
	s.seedUser()
	seeded := s.seedTransaction("key-get", types.TransactionStatusSuccess, s.GetNow())

	resp, err := s.service.GetTransaction(s.GetContext(), seeded.ID)
	s.NoError(err)
	s.Equal(seeded.ID, resp.ID)
	s.NotNil(resp.User)
	s.Equal("payer@example.com", resp.User.Email)

	_, err = s.service.GetTransaction(s.GetContext(), "txn_missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetTransaction(s.GetContext(), "")
	s.True(ierr.IsValidation(err))
}

func (s *TransactionServiceSuite) TestListTransactionsNewestFirst() {
	s.seedUser()
	older := s.seedTransaction("key-old", types.TransactionStatusSuccess, s.GetNow().Add(-2*time.Hour))
	newer := s.seedTransaction("key-new", types.TransactionStatusSuccess, s.GetNow().Add(-time.Hour))

	resp, err := s.service.ListTransactions(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(2, resp.Pagination.Total)
	s.Len(resp.Items, 2)
	s.Equal(newer.ID, resp.Items[0].ID)
	s.Equal(older.ID, resp.Items[1].ID)

	// The attached user projection never carries credentials.
	s.NotNil(resp.Items[0].User)
	s.Equal("Test Payer", resp.Items[0].User.Name)
}

func (s *TransactionServiceSuite) TestListTransactionsFilters() {
	s.seedUser()
	s.seedTransaction("key-ok", types.TransactionStatusSuccess, s.GetNow().Add(-time.Hour))
	s.seedTransaction("key-bad", types.TransactionStatusFailed, s.GetNow())

	failed := "failed"
	resp, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		Status:      &failed,
	})
	s.NoError(err)
	s.Equal(1, resp.Pagination.Total)
	s.Equal(types.TransactionStatusFailed, resp.Items[0].Status)

	otherUser := "user_other"
	resp, err = s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		UserID:      &otherUser,
	})
	s.NoError(err)
	s.Equal(0, resp.Pagination.Total)
	s.Len(resp.Items, 0)
}

func (s *TransactionServiceSuite) TestListTransactionsPagination() {
	s.seedUser()
	for i := 0; i < 5; i++ {
		s.seedTransaction(types.GenerateUUID(), types.TransactionStatusSuccess, s.GetNow().Add(-time.Duration(i)*time.Minute))
	}

	resp, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(2),
			Offset: lo.ToPtr(2),
		},
	})
	s.NoError(err)
	s.Equal(5, resp.Pagination.Total)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Limit)
	s.Equal(2, resp.Pagination.Offset)
}

func (s *TransactionServiceSuite) TestListTransactionsInvalidFilter() {
	_, err := s.service.ListTransactions(s.GetContext(), &types.TransactionFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		Status:      lo.ToPtr("bogus"),
	})
	s.True(ierr.IsValidation(err))
}

func (s *TransactionServiceSuite) TestListTransactionsWithoutUserRecord() {
	seeded := s.seedTransaction("key-orphan", types.TransactionStatusSuccess, s.GetNow())

	resp, err := s.service.ListTransactions(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(seeded.ID, resp.Items[0].ID)
	s.Nil(resp.Items[0].User)
}
