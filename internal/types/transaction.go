package types

import (
	"fmt"

	"github.com/samber/lo"
)

// TransactionType represents what kind of money movement a transaction records
type TransactionType string

const (
	TransactionTypeOneTime      TransactionType = "one-time"
	TransactionTypeSubscription TransactionType = "subscription"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) Validate() error {
	allowed := []TransactionType{
		TransactionTypeOneTime,
		TransactionTypeSubscription,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid transaction type: %s", t)
	}
	return nil
}

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusSuccess  TransactionStatus = "success"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
	TransactionStatusCanceled TransactionStatus = "canceled"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) Validate() error {
	allowed := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusSuccess,
		TransactionStatusFailed,
		TransactionStatusRefunded,
		TransactionStatusCanceled,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid transaction status: %s", s)
	}
	return nil
}

// PaymentProvider identifies the external payment provider a record belongs to.
// One provider is active per deployment; the enum exists so records stay
// attributable if the deployment ever switches.
type PaymentProvider string

const (
	PaymentProviderStripe  PaymentProvider = "stripe"
	PaymentProviderMoyasar PaymentProvider = "moyasar"
)

func (p PaymentProvider) String() string {
	return string(p)
}

func (p PaymentProvider) Validate() error {
	allowed := []PaymentProvider{
		PaymentProviderStripe,
		PaymentProviderMoyasar,
	}
	if !lo.Contains(allowed, p) {
		return fmt.Errorf("invalid payment provider: %s", p)
	}
	return nil
}

// TransactionFilter represents the filter for listing transactions
type TransactionFilter struct {
	*QueryFilter
	*TimeRangeFilter

	UserID   *string `form:"user_id"`
	Status   *string `form:"status"`
	Type     *string `form:"type"`
	Provider *string `form:"provider"`
}

// NewNoLimitTransactionFilter creates a new transaction filter with no limit
func NewNoLimitTransactionFilter() *TransactionFilter {
	return &TransactionFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the transaction filter
func (f *TransactionFilter) Validate() error {
	if f == nil {
		return nil
	}

	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}

	if f.Status != nil {
		if err := TransactionStatus(*f.Status).Validate(); err != nil {
			return err
		}
	}

	if f.Type != nil {
		if err := TransactionType(*f.Type).Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit implements BaseFilter interface
func (f *TransactionFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *TransactionFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *TransactionFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *TransactionFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// IsUnlimited implements BaseFilter interface
func (f *TransactionFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
