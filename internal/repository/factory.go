package repository

import (
	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	"github.com/salmanahmad08/payment-service/internal/domain/user"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/postgres"
	pgrepo "github.com/salmanahmad08/payment-service/internal/repository/postgres"
)

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return pgrepo.NewTransactionRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return pgrepo.NewSubscriptionRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return pgrepo.NewUserRepository(db, logger)
}
