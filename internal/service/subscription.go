package service

import (
	"context"
	"time"

	"github.com/salmanahmad08/payment-service/internal/api/dto"
	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
)

// SubscriptionService orchestrates subscription signups against the payment
// provider and records both the subscription and its signup ledger entry.
type SubscriptionService interface {
	// CreateSubscription creates a provider subscription. A repeated
	// idempotency key returns the stored records without touching the provider.
	CreateSubscription(ctx context.Context, idempotencyKey string, req *dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error)
	// GetSubscription returns a subscription by its internal id
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	// ListSubscriptions returns the subscriptions owned by a user
	ListSubscriptions(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, idempotencyKey string, req *dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error) {
	if idempotencyKey == "" {
		return nil, ierr.NewError("missing idempotency key").
			WithHint("Set the X-Idempotency-Key header to a caller-generated token").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	planID := req.PlanID
	if planID == "" {
		planID = s.Config.Plan.DefaultPriceID
	}
	if planID == "" {
		return nil, ierr.NewError("no plan to subscribe to").
			WithHint("Provide a plan_id or configure a default plan").
			Mark(ierr.ErrValidation)
	}

	userID := types.GetUserID(ctx)

	existing, err := s.TransactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		return s.replayedSignup(ctx, existing)
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	result, err := s.Provider.CreateSubscription(ctx, integration.SubscriptionParams{
		CustomerRef:    req.CustomerID,
		PlanID:         planID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:             userID,
		Provider:           s.Provider.Name(),
		ProviderSubID:      result.ProviderSubID,
		PlanID:             planID,
		Status:             result.Status,
		CancelAtPeriodEnd:  result.CancelAtPeriodEnd,
		CurrentPeriodStart: result.CurrentPeriodStart,
		CurrentPeriodEnd:   result.CurrentPeriodEnd,
		LastSyncedAt:       time.Now().UTC(),
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	// A webhook for this subscription may have landed first; the upsert
	// converges on one record either way.
	sub, err = s.SubscriptionRepo.Upsert(ctx, sub)
	if err != nil {
		return nil, err
	}

	currency := result.Currency
	if currency == "" {
		currency = "usd"
	}
	txn := &transaction.Transaction{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey:   lo.ToPtr(idempotencyKey),
		UserID:           userID,
		Type:             types.TransactionTypeSubscription,
		Provider:         s.Provider.Name(),
		ProviderTxnID:    lo.ToPtr(result.ProviderSubID),
		Amount:           result.PlanAmount,
		Currency:         currency,
		Status:           types.TransactionStatusSuccess,
		Meta:             types.Metadata{"subscription_id": sub.ID},
		ProviderResponse: result.Raw,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.TransactionRepo.Create(ctx, txn); err != nil {
		if ierr.IsAlreadyExists(err) {
			winner, rerr := s.TransactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
			if rerr != nil {
				return nil, rerr
			}
			return s.replayedSignup(ctx, winner)
		}
		return nil, err
	}

	s.Logger.Infow("subscription recorded",
		"subscription_id", sub.ID,
		"provider_sub_id", sub.ProviderSubID,
		"plan_id", sub.PlanID,
		"status", sub.Status)

	return &dto.CreateSubscriptionResponse{
		Subscription: dto.NewSubscriptionResponse(sub),
		Transaction:  dto.NewTransactionResponse(txn),
	}, nil
}

// replayedSignup rebuilds the signup response from a previously stored ledger
// record and its owning subscription.
func (s *subscriptionService) replayedSignup(ctx context.Context, txn *transaction.Transaction) (*dto.CreateSubscriptionResponse, error) {
	resp := &dto.CreateSubscriptionResponse{
		Transaction:   dto.NewTransactionResponse(txn),
		AlreadyExists: true,
	}
	if subID, ok := txn.Meta["subscription_id"]; ok {
		sub, err := s.SubscriptionRepo.Get(ctx, subID)
		if err != nil {
			return nil, err
		}
		resp.Subscription = dto.NewSubscriptionResponse(sub)
	}
	s.Logger.Infow("subscription signup replayed from ledger", "transaction_id", txn.ID)
	return resp, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponse(sub), nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]*dto.SubscriptionResponse, error) {
	if userID == "" {
		userID = types.GetUserID(ctx)
	}
	subs, err := s.SubscriptionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return dto.NewSubscriptionResponse(sub)
	}), nil
}
