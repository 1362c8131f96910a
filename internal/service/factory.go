package service

import (
	"github.com/salmanahmad08/payment-service/internal/config"
	"github.com/salmanahmad08/payment-service/internal/domain/subscription"
	"github.com/salmanahmad08/payment-service/internal/domain/transaction"
	"github.com/salmanahmad08/payment-service/internal/domain/user"
	"github.com/salmanahmad08/payment-service/internal/integration"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/postgres"
)

// ServiceParams holds the dependencies shared by all services. Constructing
// services off one params struct keeps wiring in cmd/server flat.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     *postgres.DB

	// Repositories
	TransactionRepo  transaction.Repository
	SubscriptionRepo subscription.Repository
	UserRepo         user.Repository

	// Payment provider adapter
	Provider integration.PaymentProvider
}

// NewServiceParams assembles the shared service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	transactionRepo transaction.Repository,
	subscriptionRepo subscription.Repository,
	userRepo user.Repository,
	provider integration.PaymentProvider,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		TransactionRepo:  transactionRepo,
		SubscriptionRepo: subscriptionRepo,
		UserRepo:         userRepo,
		Provider:         provider,
	}
}
