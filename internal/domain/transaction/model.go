package transaction

import (
	"encoding/json"

	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/types"
)

// Transaction is the ledger record for a single money movement. Records are
// append-mostly: once written they are mutated only for provider-driven status
// changes and refunds, never deleted.
type Transaction struct {
	// Unique identifier for this transaction
	ID string `db:"id" json:"id"`
	// Token deduplicating the operation that wrote this record. Caller
	// supplied for client-initiated operations; derived deterministically
	// from the provider reference for webhook-originated records.
	IdempotencyKey *string `db:"idempotency_key" json:"idempotency_key,omitempty"`
	// The user this transaction belongs to
	UserID string `db:"user_id" json:"user_id"`
	// One-time charge or subscription billing
	Type types.TransactionType `db:"type" json:"type"`
	// Which external payment provider executed the movement
	Provider types.PaymentProvider `db:"provider" json:"provider"`
	// The provider-side charge or subscription identifier
	ProviderTxnID *string `db:"provider_txn_id" json:"provider_txn_id,omitempty"`
	// Provider invoice or payment-intent reference for webhook-originated rows.
	// Unique when present so replayed events upsert instead of duplicating.
	ProviderRef *string `db:"provider_ref" json:"provider_ref,omitempty"`
	// Amount in integer minor units of Currency
	Amount int64 `db:"amount" json:"amount"`
	// Three-letter ISO currency code
	Currency string `db:"currency" json:"currency"`
	// Current status of the transaction
	Status types.TransactionStatus `db:"status" json:"status"`
	// Provider refund identifier, set when Status transitions to refunded
	RefundID *string `db:"refund_id" json:"refund_id,omitempty"`
	// Structured audit tags (owning subscription id, invoice id, ...)
	Meta types.Metadata `db:"meta" json:"meta,omitempty"`
	// Raw provider response snapshot kept for audit
	ProviderResponse json.RawMessage `db:"provider_response" json:"provider_response,omitempty"`

	types.BaseModel
}

// Validate validates the transaction
func (t *Transaction) Validate() error {
	if t.UserID == "" && t.ProviderRef == nil {
		return ierr.NewError("invalid user id").
			WithHint("User id is required").
			Mark(ierr.ErrValidation)
	}
	if err := t.Type.Validate(); err != nil {
		return ierr.NewError("invalid transaction type").
			WithHint("Transaction type is invalid").
			Mark(ierr.ErrValidation)
	}
	if err := t.Status.Validate(); err != nil {
		return ierr.NewError("invalid transaction status").
			WithHint("Transaction status is invalid").
			Mark(ierr.ErrValidation)
	}
	if err := t.Provider.Validate(); err != nil {
		return ierr.NewError("invalid payment provider").
			WithHint("Payment provider is invalid").
			Mark(ierr.ErrValidation)
	}
	if t.Amount < 0 {
		return ierr.NewError("invalid amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if t.Currency == "" {
		return ierr.NewError("invalid currency").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsRefunded reports whether the transaction has already been refunded
func (t *Transaction) IsRefunded() bool {
	return t.Status == types.TransactionStatusRefunded
}
