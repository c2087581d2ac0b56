package handler

import (
	"errors"
	"io"

	"returns-settlement-engine/internal/adapter/http/dto"
	"returns-settlement-engine/internal/adapter/http/middleware"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SlipHandler handles exchange slip endpoints.
type SlipHandler struct {
	slipSvc ports.ExchangeSlipService
}

// NewSlipHandler creates a new SlipHandler.
func NewSlipHandler(slipSvc ports.ExchangeSlipService) *SlipHandler {
	return &SlipHandler{slipSvc: slipSvc}
}

// Search handles GET /api/v1/exchange-slips?customer_id=|phone=.
func (h *SlipHandler) Search(c *gin.Context) {
	var q dto.SlipSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	search := ports.SlipSearch{Phone: q.Phone}
	if q.CustomerID != "" {
		id := uuid.MustParse(q.CustomerID)
		search.CustomerID = &id
	}

	slips, err := h.slipSvc.SearchExchangeSlips(c.Request.Context(), search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SlipListResponse{Slips: slips, Total: len(slips)})
}

// Redeem handles POST /api/v1/exchange-slips/:slip/redeem.
func (h *SlipHandler) Redeem(c *gin.Context) {
	staffID := middleware.StaffID(c)
	if staffID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RedeemSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	slip, err := h.slipSvc.RedeemExchangeSlip(c.Request.Context(), c.Param("slip"), uuid.MustParse(req.SaleID), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slip)
}

// Cancel handles POST /api/v1/exchange-slips/:slip/cancel. The path accepts a
// slip number or a slip ID.
func (h *SlipHandler) Cancel(c *gin.Context) {
	staffID := middleware.StaffID(c)
	if staffID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	// The body is optional; an empty one cancels without a reason.
	var req dto.CancelSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	slip, err := h.slipSvc.CancelExchangeSlip(c.Request.Context(), c.Param("slip"), staffID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slip)
}
