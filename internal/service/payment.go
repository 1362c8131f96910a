package service

import (
	"context"
	"strings"

	"github.com/salmanahmad08/payment-service/internal/api/dto"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/samber/lo"
)

// PaymentService orchestrates one-time charges and refunds against the
// payment provider, with the transaction ledger as the idempotency guard.
type PaymentService interface {
	// CreateCharge creates and confirms a one-time charge. A repeated
	// idempotency key returns the stored record without touching the provider.
	CreateCharge(ctx context.Context, idempotencyKey string, req *dto.CreateChargeRequest) (*dto.ChargeResponse, error)
	// RefundCharge refunds the successful charge recorded under the given
	// idempotency key, in full. Refunding an already refunded charge is a no-op.
	RefundCharge(ctx context.Context, req *dto.RefundChargeRequest) (*dto.RefundResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) CreateCharge(ctx context.Context, idempotencyKey string, req *dto.CreateChargeRequest) (*dto.ChargeResponse, error) {
	if idempotencyKey == "" {
		return nil, ierr.NewError("missing idempotency key").
			WithHint("Set the X-Idempotency-Key header to a caller-generated token").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := types.GetUserID(ctx)

	// Guard: a key that has been seen before short-circuits to the stored
	// outcome, whatever that outcome was.
	existing, err := s.TransactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		s.Logger.Infow("charge replayed from ledger",
			"transaction_id", existing.ID,
			"status", existing.Status)
		return &dto.ChargeResponse{
			Transaction:   dto.NewTransactionResponse(existing),
			AlreadyExists: true,
		}, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	result, err := s.Provider.CreateCharge(ctx, integration.ChargeParams{
		Amount:         req.Amount,
		Currency:       strings.ToLower(req.Currency),
		CustomerRef:    req.CustomerID,
		IdempotencyKey: idempotencyKey,
		Metadata: map[string]string{
			"user_id": userID,
		},
	})
	if err != nil {
		// Unknown outcome: nothing is written so a retry with the same key
		// reaches the provider again and dedupes there.
		return nil, err
	}

	txn := &transaction.Transaction{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		IdempotencyKey:   lo.ToPtr(idempotencyKey),
		UserID:           userID,
		Type:             types.TransactionTypeOneTime,
		Provider:         s.Provider.Name(),
		ProviderTxnID:    lo.ToPtr(result.ProviderTxnID),
		Amount:           result.Amount,
		Currency:         result.Currency,
		Status:           result.Status,
		ProviderResponse: result.Raw,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if result.FailureMessage != "" {
		txn.Meta = types.Metadata{"failure_message": result.FailureMessage}
	}

	if err := s.TransactionRepo.Create(ctx, txn); err != nil {
		if ierr.IsAlreadyExists(err) {
			// A concurrent request with the same key won the insert race;
			// its record is the one the key now stands for.
			winner, rerr := s.TransactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
			if rerr != nil {
				return nil, rerr
			}
			return &dto.ChargeResponse{
				Transaction:   dto.NewTransactionResponse(winner),
				AlreadyExists: true,
			}, nil
		}
		return nil, err
	}

	s.Logger.Infow("charge recorded",
		"transaction_id", txn.ID,
		"provider_txn_id", result.ProviderTxnID,
		"status", txn.Status,
		"amount", txn.Amount,
		"currency", txn.Currency)

	return &dto.ChargeResponse{
		Transaction: dto.NewTransactionResponse(txn),
	}, nil
}

func (s *paymentService) RefundCharge(ctx context.Context, req *dto.RefundChargeRequest) (*dto.RefundResponse, error) {
	if req.IdempotencyKey == "" {
		return nil, ierr.NewError("missing idempotency key").
			WithHint("Provide the idempotency key of the charge to refund").
			Mark(ierr.ErrValidation)
	}

	txn, err := s.TransactionRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	if txn.IsRefunded() {
		s.Logger.Infow("refund replayed from ledger", "transaction_id", txn.ID)
		return &dto.RefundResponse{
			Transaction:     dto.NewTransactionResponse(txn),
			RefundID:        lo.FromPtr(txn.RefundID),
			AlreadyRefunded: true,
		}, nil
	}

	if txn.Status != types.TransactionStatusSuccess || txn.ProviderTxnID == nil {
		return nil, ierr.NewError("transaction is not refundable").
			WithHint("Only successfully charged transactions can be refunded").
			WithReportableDetails(map[string]any{
				"transaction_id": txn.ID,
				"status":         txn.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	result, err := s.Provider.RefundCharge(ctx, integration.RefundParams{
		ProviderTxnID: *txn.ProviderTxnID,
		Amount:        txn.Amount,
	})
	if err != nil {
		return nil, err
	}
	if !result.Succeeded {
		return nil, ierr.NewError("provider rejected refund").
			WithHint("The provider did not confirm the refund; the transaction is unchanged").
			WithReportableDetails(map[string]any{
				"transaction_id": txn.ID,
			}).
			Mark(ierr.ErrProvider)
	}

	txn.Status = types.TransactionStatusRefunded
	txn.RefundID = lo.ToPtr(result.RefundID)
	if len(result.Raw) > 0 {
		txn.ProviderResponse = result.Raw
	}
	txn.UpdatedBy = types.GetUserID(ctx)
	if err := s.TransactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.Logger.Infow("refund recorded",
		"transaction_id", txn.ID,
		"refund_id", result.RefundID)

	return &dto.RefundResponse{
		Transaction: dto.NewTransactionResponse(txn),
		RefundID:    result.RefundID,
	}, nil
}
