package handler

import (
	"returns-settlement-engine/internal/adapter/http/dto"
	"returns-settlement-engine/internal/adapter/http/middleware"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer credit and return history endpoints.
type CustomerHandler struct {
	creditSvc    ports.OverpaymentService
	reportingSvc ports.ReportingService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(creditSvc ports.OverpaymentService, reportingSvc ports.ReportingService) *CustomerHandler {
	return &CustomerHandler{creditSvc: creditSvc, reportingSvc: reportingSvc}
}

// UseOverpayment handles POST /api/v1/customers/:customer_id/overpayments/use.
func (h *CustomerHandler) UseOverpayment(c *gin.Context) {
	staffID := middleware.StaffID(c)
	if staffID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	customerID, ok := uuidParam(c, "customer_id")
	if !ok {
		return
	}

	var req dto.UseOverpaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.creditSvc.UseOverpayment(c.Request.Context(), ports.UseOverpaymentRequest{
		CustomerID: customerID,
		Amount:     req.Amount,
		SaleID:     uuid.MustParse(req.SaleID),
		UsedBy:     staffID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListCredits handles GET /api/v1/customers/:customer_id/overpayments.
func (h *CustomerHandler) ListCredits(c *gin.Context) {
	customerID, ok := uuidParam(c, "customer_id")
	if !ok {
		return
	}

	balance, err := h.creditSvc.ListCredits(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, balance)
}

// ReturnHistory handles GET /api/v1/customers/:customer_id/returns?limit=.
func (h *CustomerHandler) ReturnHistory(c *gin.Context) {
	customerID, ok := uuidParam(c, "customer_id")
	if !ok {
		return
	}

	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	returns, err := h.reportingSvc.GetCustomerReturnHistory(c.Request.Context(), customerID, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ReturnHistoryResponse{
		CustomerID: customerID.String(),
		Returns:    returns,
		Total:      len(returns),
	})
}
