package dto

import (
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
)

// CreateChargeRequest represents a request to create a one-time charge.
// The idempotency key travels out-of-band in the X-Idempotency-Key header.
type CreateChargeRequest struct {
	// Amount in integer minor units of Currency
	Amount int64 `json:"amount" binding:"required"`
	// Three-letter ISO currency code
	Currency string `json:"currency" binding:"required"`
	// Provider-registered customer reference to charge
	CustomerID string `json:"customer_id" binding:"required"`
}

// Validate validates the charge request before any provider interaction
func (r *CreateChargeRequest) Validate() error {
	if r.Amount <= 0 {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be a positive integer in minor units").
			Mark(ierr.ErrValidation)
	}
	if len(r.Currency) != 3 {
		return ierr.NewError("invalid currency").
			WithHint("Currency must be a three-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	if r.CustomerID == "" {
		return ierr.NewError("invalid customer id").
			WithHint("Customer id is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RefundChargeRequest represents a request to refund a charge in full,
// addressed by the idempotency key of the original charge
type RefundChargeRequest struct {
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// ChargeResponse represents the result of a charge operation
type ChargeResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	// True when the idempotency key had already been used and the stored
	// record was returned without a new provider call
	AlreadyExists bool `json:"already_exists"`
}

// RefundResponse represents the result of a refund operation
type RefundResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	RefundID    string               `json:"refund_id,omitempty"`
	// True when the transaction was already refunded and no provider call was made
	AlreadyRefunded bool `json:"already_refunded"`
}
