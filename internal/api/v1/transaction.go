package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/salmanahmad08/payment-service/internal/errors"
	"github.com/salmanahmad08/payment-service/internal/logger"
	"github.com/salmanahmad08/payment-service/internal/service"
	"github.com/salmanahmad08/payment-service/internal/types"
)

type TransactionHandler struct {
	service service.TransactionService
	log     *logger.Logger
}

func NewTransactionHandler(service service.TransactionService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, log: log}
}

// @Summary List transactions
// @Description List ledger transactions with optional filters, newest first
// @Tags Transactions
// @Produce json
// @Param user_id query string false "Filter by user"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var filter types.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.log.Error("Failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), &filter)
	if err != nil {
		h.log.Error("Failed to list transactions", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a transaction by ID
// @Description Get a single ledger transaction by ID
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	resp, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get transaction", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
