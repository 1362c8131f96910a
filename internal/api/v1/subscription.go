package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salmanahmad08/payment-service/internal/api/dto"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/service"
	"github.com/salmanahmad08/payment-service/internal/types"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// @Summary Create a subscription
// @Description Create a provider subscription for the acting user. Repeating the same X-Idempotency-Key returns the stored result.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param X-Idempotency-Key header string true "Caller-generated idempotency token"
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription to create"
// @Success 201 {object} dto.CreateSubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	key := c.GetHeader(types.HeaderIdempotencyKey)
	resp, err := h.service.CreateSubscription(c.Request.Context(), key, &req)
	if err != nil {
		h.log.Error("Failed to create subscription", "error", err)
		c.Error(err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyExists {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// @Summary Get a subscription by ID
// @Description Get a subscription by ID
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Subscription id is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSubscription(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions
// @Description List the subscriptions owned by the acting user
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} dto.SubscriptionResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	resp, err := h.service.ListSubscriptions(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.log.Error("Failed to list subscriptions", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
