package handler

import (
	"time"

	"returns-settlement-engine/internal/adapter/http/dto"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles sale lookup and return analytics.
type ReportHandler struct {
	lookupSvc    ports.SaleLookupService
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(lookupSvc ports.SaleLookupService, reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{lookupSvc: lookupSvc, reportingSvc: reportingSvc}
}

// LookupSales handles GET /api/v1/sales/lookup.
func (h *ReportHandler) LookupSales(c *gin.Context) {
	var q dto.SaleLookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	sales, err := h.lookupSvc.LookupSales(c.Request.Context(), q.Criteria())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SaleListResponse{Sales: sales, Total: len(sales)})
}

// Analytics handles GET /api/v1/returns/analytics?from=&to=. Dates are
// inclusive days; omitted bounds default to the last 30 days.
func (h *ReportHandler) Analytics(c *gin.Context) {
	var q dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	to := q.To
	if !to.IsZero() {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	analytics, err := h.reportingSvc.GetReturnAnalytics(c.Request.Context(), q.From, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, analytics)
}
