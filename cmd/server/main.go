package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salmanahmad08/payment-service/internal/api"
	v1 "github.com/salmanahmad08/payment-service/internal/api/v1"
	"github.com/salmanahmad08/payment-service/internal/config"
	"github.com/salmanahmad08/payment-service/internal/integration"
	stripeProvider "github.com/salmanahmad08/payment-service/internal/integration/stripe"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/postgres"
	"github.com/salmanahmad08/payment-service/internal/repository"
	"github.com/salmanahmad08/payment-service/internal/service"
	"github.com/salmanahmad08/payment-service/internal/validator"
	"go.uber.org/fx"
)

// @title Payment Service API
// @version 1.0
// @description Idempotent payment ledger and webhook reconciliation service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,

			// Payment provider
			providePaymentProvider,

			// Repositories
			repository.NewTransactionRepository,
			repository.NewSubscriptionRepository,
			repository.NewUserRepository,

			// Services
			service.NewServiceParams,
			service.NewPaymentService,
			service.NewSubscriptionService,
			service.NewTransactionService,
			service.NewWebhookService,

			// API
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func providePaymentProvider(cfg *config.Configuration, log *logger.Logger) integration.PaymentProvider {
	return stripeProvider.NewProvider(cfg, log)
}

func provideHandlers(
	db *postgres.DB,
	log *logger.Logger,
	paymentService service.PaymentService,
	subscriptionService service.SubscriptionService,
	transactionService service.TransactionService,
	webhookService service.WebhookService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(db, log),
		Payment:      v1.NewPaymentHandler(paymentService, log),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, log),
		Transaction:  v1.NewTransactionHandler(transactionService, log),
		Webhook:      v1.NewWebhookHandler(webhookService, log),
	}
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
