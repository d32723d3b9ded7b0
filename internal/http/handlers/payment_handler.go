package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/dto"
	"github.com/ignatzorin/talent-escrow/internal/http/handlers/common"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
	"github.com/ignatzorin/talent-escrow/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// GetBalance GET /payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	owner, ok := common.RequireAddress(c)
	if !ok {
		return
	}

	balance, err := h.payments.GetBalance(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.BalanceResponse{Owner: owner, Available: balance.Available.Int64()}
	if !balance.UpdatedAt.IsZero() {
		resp.UpdatedAt = &balance.UpdatedAt
	}
	response.Success(c, resp)
}

// Deposit POST /payments/deposit. Доступен только при включённом faucet.
func (h *PaymentHandler) Deposit(c *gin.Context) {
	owner, ok := common.RequireAddress(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "сумма должна быть положительной")
		return
	}

	amount, err := valueobject.NewAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.payments.Deposit(c.Request.Context(), owner, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// ListTransactions GET /payments/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	owner, ok := common.RequireAddress(c)
	if !ok {
		return
	}

	limit, offset := common.GetPagination(c)
	entries, err := h.payments.ListTransactions(c.Request.Context(), owner, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, entries, len(entries), limit, offset)
}
