package transaction

import (
	"context"

	"github.com/salmanahmad08/payment-service/internal/types"
)

// Repository defines the interface for transaction persistence.
//
// Exclusivity lives in the store, not in process-level locks: Create and
// UpsertByProviderRef return ErrAlreadyExists on a unique-key collision
// (idempotency_key, provider_ref) and callers resolve the conflict by
// re-reading the now-persisted record.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Transaction, error)
	GetByProviderRef(ctx context.Context, ref string) (*Transaction, error)
	Update(ctx context.Context, txn *Transaction) error
	// UpsertByProviderRef inserts the record or, when a row with the same
	// provider_ref exists, overwrites its status, amount and currency.
	UpsertByProviderRef(ctx context.Context, txn *Transaction) error
	List(ctx context.Context, filter *types.TransactionFilter) ([]*Transaction, error)
	Count(ctx context.Context, filter *types.TransactionFilter) (int, error)
}
