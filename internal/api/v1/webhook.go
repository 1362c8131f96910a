package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/service"
)

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, log: log}
}

// @Summary Receive provider webhook events
// @Description Verify and reconcile a provider webhook delivery. The body must be the byte-exact payload the provider signed.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature header"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Signature verification needs the raw body, not a re-serialized form.
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("Failed to read webhook payload", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Could not read request body").
			Mark(ierr.ErrValidation))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleEvent(c.Request.Context(), payload, signature); err != nil {
		h.log.Error("Failed to handle webhook event", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
