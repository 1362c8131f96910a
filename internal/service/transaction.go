package service

import (
	"context"

	"github.com/salmanahmad08/payment-service/internal/api/dto"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
)

// TransactionService serves read access to the transaction ledger
type TransactionService interface {
	GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error)
}

type transactionService struct {
	ServiceParams
}

func NewTransactionService(params ServiceParams) TransactionService {
	return &transactionService{
		ServiceParams: params,
	}
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("missing transaction id").
			WithHint("Transaction id is required").
			Mark(ierr.ErrValidation)
	}
	txn, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTransactionResponse(txn)
	s.attachUsers(ctx, []*dto.TransactionResponse{resp})
	return resp, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error) {
	if filter == nil {
		filter = &types.TransactionFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid transaction filter").
			Mark(ierr.ErrValidation)
	}

	txns, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.TransactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(txns, func(t *transaction.Transaction, _ int) *dto.TransactionResponse {
		return dto.NewTransactionResponse(t)
	})
	s.attachUsers(ctx, items)

	return &dto.ListTransactionsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// attachUsers resolves each distinct owning user once and attaches the
// credential-free projection. Records whose user is unknown (for example
// webhook-originated rows) are returned without one.
func (s *transactionService) attachUsers(ctx context.Context, items []*dto.TransactionResponse) {
	cache := make(map[string]*dto.UserResponse)
	for _, item := range items {
		if item.UserID == "" {
			continue
		}
		if cached, ok := cache[item.UserID]; ok {
			item.User = cached
			continue
		}
		u, err := s.UserRepo.Get(ctx, item.UserID)
		if err != nil {
			if !ierr.IsNotFound(err) {
				s.Logger.Warnw("failed to resolve transaction user",
					"user_id", item.UserID, "error", err)
			}
			cache[item.UserID] = nil
			continue
		}
		cache[item.UserID] = dto.NewUserResponse(u)
		item.User = cache[item.UserID]
	}
}
