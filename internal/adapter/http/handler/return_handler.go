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

// ReturnHandler handles return validation and processing.
type ReturnHandler struct {
	returnSvc ports.ReturnService
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(returnSvc ports.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnSvc: returnSvc}
}

// Validate handles POST /api/v1/returns/validate. A rejected return is still
// a 200 with valid=false and every error listed.
func (h *ReturnHandler) Validate(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.returnSvc.ValidateReturn(c.Request.Context(), req.ToPort(""))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, req.SaleID)
	response.OK(c, result)
}

// Process handles POST /api/v1/returns. The optional Idempotency-Key header
// makes retries replay the first result.
func (h *ReturnHandler) Process(c *gin.Context) {
	staffID := middleware.StaffID(c)
	if staffID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	key := c.GetHeader(middleware.HeaderIdempotencyKey)
	result, err := h.returnSvc.ProcessReturn(c.Request.Context(), req.ToPort(key), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxAuditResourceID, result.ReturnTransaction.ReturnNumber)
	response.Created(c, result)
}

func bindError(c *gin.Context, err error) {
	response.Error(c, apperror.BadRequest(err.Error()))
}

// uuidParam parses a path parameter, writing a 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.BadRequest("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
