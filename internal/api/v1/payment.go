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

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// @Summary Create a one-time charge
// @Description Create and confirm a one-time charge. Repeating the same X-Idempotency-Key returns the stored result.
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Idempotency-Key header string true "Caller-generated idempotency token"
// @Param charge body dto.CreateChargeRequest true "Charge to create"
// @Success 201 {object} dto.ChargeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /payments/charge [post]
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	var req dto.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	key := c.GetHeader(types.HeaderIdempotencyKey)
	resp, err := h.service.CreateCharge(c.Request.Context(), key, &req)
	if err != nil {
		h.log.Error("Failed to create charge", "error", err)
		c.Error(err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyExists {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// @Summary Refund a charge
// @Description Refund in full the charge recorded under the given idempotency key
// @Tags Payments
// @Accept json
// @Produce json
// @Param refund body dto.RefundChargeRequest true "Charge to refund"
// @Success 200 {object} dto.RefundResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /payments/refund [post]
func (h *PaymentHandler) RefundCharge(c *gin.Context) {
	var req dto.RefundChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RefundCharge(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to refund charge", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
