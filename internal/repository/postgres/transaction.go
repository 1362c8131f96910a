package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/postgres"
	"github.com/salmanahmad08/payment-service/internal/types"
)

const pqUniqueViolation = "23505"

type transactionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			id,
			idempotency_key,
			user_id,
			type,
			provider,
			provider_txn_id,
			provider_ref,
			amount,
			currency,
			status,
			refund_id,
			meta,
			provider_response,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:idempotency_key,
			:user_id,
			:type,
			:provider,
			:provider_txn_id,
			:provider_ref,
			:amount,
			:currency,
			:status,
			:refund_id,
			:meta,
			:provider_response,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, txn)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A transaction with this idempotency key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create transaction").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	return r.getBy(ctx, "id", id)
}

func (r *transactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*transaction.Transaction, error) {
	return r.getBy(ctx, "idempotency_key", key)
}

func (r *transactionRepository) GetByProviderRef(ctx context.Context, ref string) (*transaction.Transaction, error) {
	return r.getBy(ctx, "provider_ref", ref)
}

func (r *transactionRepository) getBy(ctx context.Context, column, value string) (*transaction.Transaction, error) {
	query := fmt.Sprintf(`SELECT * FROM transactions WHERE %s = $1`, column)

	var txn transaction.Transaction
	if err := r.db.GetContext(ctx, &txn, query, value); err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("transaction not found").
				WithHintf("No transaction found for %s", column).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get transaction").
			Mark(ierr.ErrDatabase)
	}

	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *transaction.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE transactions
		SET
			status = :status,
			refund_id = :refund_id,
			meta = :meta,
			provider_response = :provider_response,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, txn)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update transaction").
			Mark(ierr.ErrDatabase)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ierr.NewError("transaction not found").
			WithHint("No transaction found to update").
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *transactionRepository) UpsertByProviderRef(ctx context.Context, txn *transaction.Transaction) error {
	if txn.ProviderRef == nil || *txn.ProviderRef == "" {
		return ierr.NewError("provider ref is required for upsert").
			WithHint("Provider reference is required").
			Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO transactions (
			id,
			idempotency_key,
			user_id,
			type,
			provider,
			provider_txn_id,
			provider_ref,
			amount,
			currency,
			status,
			refund_id,
			meta,
			provider_response,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:idempotency_key,
			:user_id,
			:type,
			:provider,
			:provider_txn_id,
			:provider_ref,
			:amount,
			:currency,
			:status,
			:refund_id,
			:meta,
			:provider_response,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
		ON CONFLICT (provider_ref) WHERE provider_ref IS NOT NULL DO UPDATE SET
			status = EXCLUDED.status,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			meta = EXCLUDED.meta,
			provider_response = EXCLUDED.provider_response,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	if _, err := r.db.NamedExecContext(ctx, query, txn); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert transaction").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *transactionRepository) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	where, args := buildTransactionWhere(filter)

	order := types.OrderDesc
	if filter != nil && filter.GetOrder() == types.OrderAsc {
		order = types.OrderAsc
	}

	query := fmt.Sprintf(`SELECT * FROM transactions %s ORDER BY created_at %s`, where, order)
	if filter == nil || !filter.IsUnlimited() {
		limit := types.FILTER_DEFAULT_LIMIT
		offset := 0
		if filter != nil {
			limit = filter.GetLimit()
			offset = filter.GetOffset()
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, limit, offset)
	}

	txns := []*transaction.Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list transactions").
			Mark(ierr.ErrDatabase)
	}

	return txns, nil
}

func (r *transactionRepository) Count(ctx context.Context, filter *types.TransactionFilter) (int, error) {
	where, args := buildTransactionWhere(filter)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM transactions %s`, where)
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count transactions").
			Mark(ierr.ErrDatabase)
	}

	return count, nil
}

func buildTransactionWhere(filter *types.TransactionFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	conditions := []string{}
	args := []interface{}{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.Provider != nil {
		add("provider = $%d", *filter.Provider)
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			add("created_at >= $%d", *filter.StartTime)
		}
		if filter.EndTime != nil {
			add("created_at <= $%d", *filter.EndTime)
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
