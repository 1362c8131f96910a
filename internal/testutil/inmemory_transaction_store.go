package testutil

import (
	"context"
	"sync"

	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/types"
)

// InMemoryTransactionStore implements transaction.Repository with the same
// unique-key semantics as the postgres store: a second record with an
// already-stored idempotency_key or provider_ref fails with ErrAlreadyExists.
type InMemoryTransactionStore struct {
	*InMemoryStore[*transaction.Transaction]
	mu sync.Mutex

	// CreateHook runs inside Create before the uniqueness checks. Tests use
	// it to interleave a competing write and exercise conflict paths.
	CreateHook func(ctx context.Context)
}

// NewInMemoryTransactionStore creates a new in-memory transaction repository
func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{
		InMemoryStore: NewInMemoryStore[*transaction.Transaction](),
	}
}

// Clear resets all stored data
func (m *InMemoryTransactionStore) Clear() {
	m.InMemoryStore.Clear()
	m.CreateHook = nil
}

// Create stores a new transaction
func (m *InMemoryTransactionStore) Create(ctx context.Context, txn *transaction.Transaction) error {
	if txn == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if txn.ID == "" {
		return ierr.NewError("transaction id cannot be empty").
			WithHint("Transaction id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	if m.CreateHook != nil {
		m.CreateHook(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if txn.IdempotencyKey != nil {
		if _, err := m.getBy(ctx, func(t *transaction.Transaction) bool {
			return t.IdempotencyKey != nil && *t.IdempotencyKey == *txn.IdempotencyKey
		}); err == nil {
			return ierr.NewError("duplicate idempotency key").
				WithHint("A transaction with this idempotency key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	if txn.ProviderRef != nil {
		if _, err := m.getBy(ctx, func(t *transaction.Transaction) bool {
			return t.ProviderRef != nil && *t.ProviderRef == *txn.ProviderRef
		}); err == nil {
			return ierr.NewError("duplicate provider reference").
				WithHint("A transaction with this provider reference already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	return m.InMemoryStore.Create(ctx, txn.ID, txn)
}

// Get retrieves a transaction by ID
func (m *InMemoryTransactionStore) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	return m.InMemoryStore.Get(ctx, id)
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key
func (m *InMemoryTransactionStore) GetByIdempotencyKey(ctx context.Context, key string) (*transaction.Transaction, error) {
	return m.getBy(ctx, func(t *transaction.Transaction) bool {
		return t.IdempotencyKey != nil && *t.IdempotencyKey == key
	})
}

// GetByProviderRef retrieves a transaction by its provider reference
func (m *InMemoryTransactionStore) GetByProviderRef(ctx context.Context, ref string) (*transaction.Transaction, error) {
	return m.getBy(ctx, func(t *transaction.Transaction) bool {
		return t.ProviderRef != nil && *t.ProviderRef == ref
	})
}

func (m *InMemoryTransactionStore) getBy(ctx context.Context, match func(*transaction.Transaction) bool) (*transaction.Transaction, error) {
	items, err := m.InMemoryStore.List(ctx, nil, func(_ context.Context, t *transaction.Transaction, _ interface{}) bool {
		return match(t)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("transaction not found").
			WithHint("No transaction matches the given key").
			Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}

// Update updates an existing transaction
func (m *InMemoryTransactionStore) Update(ctx context.Context, txn *transaction.Transaction) error {
	if txn == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return m.InMemoryStore.Update(ctx, txn.ID, txn)
}

// UpsertByProviderRef inserts or overwrites the record carrying the same
// provider reference
func (m *InMemoryTransactionStore) UpsertByProviderRef(ctx context.Context, txn *transaction.Transaction) error {
	if txn == nil || txn.ProviderRef == nil {
		return ierr.NewError("provider reference is required").
			WithHint("Upserts are keyed by provider reference").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.getBy(ctx, func(t *transaction.Transaction) bool {
		return t.ProviderRef != nil && *t.ProviderRef == *txn.ProviderRef
	})
	if err == nil {
		existing.Status = txn.Status
		existing.Amount = txn.Amount
		existing.Currency = txn.Currency
		existing.Meta = txn.Meta
		existing.ProviderResponse = txn.ProviderResponse
		existing.UpdatedAt = txn.UpdatedAt
		return m.InMemoryStore.Update(ctx, existing.ID, existing)
	}
	if !ierr.IsNotFound(err) {
		return err
	}
	return m.InMemoryStore.Create(ctx, txn.ID, txn)
}

// List retrieves transactions matching the filter, newest first by default
func (m *InMemoryTransactionStore) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	return m.InMemoryStore.List(ctx, filter, transactionFilterFn, transactionSortFn(filter))
}

// Count counts transactions matching the filter
func (m *InMemoryTransactionStore) Count(ctx context.Context, filter *types.TransactionFilter) (int, error) {
	return m.InMemoryStore.Count(ctx, filter, transactionFilterFn)
}

func transactionFilterFn(_ context.Context, t *transaction.Transaction, filter interface{}) bool {
	f, ok := filter.(*types.TransactionFilter)
	if !ok || f == nil {
		return true
	}

	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && string(t.Status) != *f.Status {
		return false
	}
	if f.Type != nil && string(t.Type) != *f.Type {
		return false
	}
	if f.Provider != nil && string(t.Provider) != *f.Provider {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && t.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && t.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func transactionSortFn(filter *types.TransactionFilter) SortFunc[*transaction.Transaction] {
	ascending := filter != nil && filter.GetOrder() == types.OrderAsc
	return func(i, j *transaction.Transaction) bool {
		if ascending {
			return i.CreatedAt.Before(j.CreatedAt)
		}
		return i.CreatedAt.After(j.CreatedAt)
	}
}
