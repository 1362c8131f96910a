package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/salmanahmad08/payment-service/internal/api/v1"
	"github.com/salmanahmad08/payment-service/internal/rest/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Payment      *v1.PaymentHandler
	Subscription *v1.SubscriptionHandler
	Transaction  *v1.TransactionHandler
	Webhook      *v1.WebhookHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.UserContextMiddleware,
		middleware.ErrorHandler(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Payment routes
	payments := router.Group("/payments")
	{
		payments.POST("/charge", handlers.Payment.CreateCharge)
		payments.POST("/refund", handlers.Payment.RefundCharge)
	}

	// Subscription routes
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.GET("", handlers.Subscription.ListSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
	}

	// Transaction routes
	transactions := router.Group("/transactions")
	{
		transactions.GET("", handlers.Transaction.ListTransactions)
		transactions.GET("/:id", handlers.Transaction.GetTransaction)
	}

	// Webhook routes
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/stripe", handlers.Webhook.HandleStripeWebhook)
	}
}
