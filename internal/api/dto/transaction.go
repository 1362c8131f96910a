package dto

import (
	"time"

	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	"github.com/salmanahmad08/payment-service/internal/types"
	"github.com/shopspring/decimal"
)

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	ID             string                  `json:"id"`
	IdempotencyKey *string                 `json:"idempotency_key,omitempty"`
	UserID         string                  `json:"user_id"`
	Type           types.TransactionType   `json:"type"`
	Provider       types.PaymentProvider   `json:"provider"`
	ProviderTxnID  *string                 `json:"provider_txn_id,omitempty"`
	ProviderRef    *string                 `json:"provider_ref,omitempty"`
	Amount         int64                   `json:"amount"`
	DisplayAmount  decimal.Decimal         `json:"display_amount"`
	Currency       string                  `json:"currency"`
	Status         types.TransactionStatus `json:"status"`
	RefundID       *string                 `json:"refund_id,omitempty"`
	Meta           types.Metadata          `json:"meta,omitempty"`
	// Owning user projection, attached on list endpoints. Sensitive fields
	// such as the stored password hash are never part of this projection.
	User      *UserResponse `json:"user,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ListTransactionsResponse represents a paginated list of transactions
type ListTransactionsResponse struct {
	Items      []*TransactionResponse   `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// NewTransactionResponse creates a new transaction response from a ledger record
func NewTransactionResponse(t *transaction.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             t.ID,
		IdempotencyKey: t.IdempotencyKey,
		UserID:         t.UserID,
		Type:           t.Type,
		Provider:       t.Provider,
		ProviderTxnID:  t.ProviderTxnID,
		ProviderRef:    t.ProviderRef,
		Amount:         t.Amount,
		DisplayAmount:  types.DisplayAmount(t.Amount, t.Currency),
		Currency:       t.Currency,
		Status:         t.Status,
		RefundID:       t.RefundID,
		Meta:           t.Meta,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
