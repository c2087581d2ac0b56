package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxAuditResourceID lets a handler name the resource it created or changed.
const CtxAuditResourceID = "audit_resource_id"

// AuditLog creates an audit middleware that logs successful write operations.
// Actions are looked up by route template, not raw path.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var actorID *string
		if id := StaffID(c); id != "" {
			actorID = &id
		}

		resourceID := c.GetString(CtxAuditResourceID)
		if resourceID == "" {
			resourceID = firstParam(c, "slip", "customer_id")
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"role":       c.GetString(CtxStaffRole),
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/returns/validate":
		return domain.AuditActionReturnValidated, "sale"
	case "/api/v1/returns":
		return domain.AuditActionReturnProcessed, "return_transaction"
	case "/api/v1/exchange-slips/:slip/redeem":
		return domain.AuditActionSlipRedeemed, "exchange_slip"
	case "/api/v1/exchange-slips/:slip/cancel":
		return domain.AuditActionSlipCancelled, "exchange_slip"
	case "/api/v1/customers/:customer_id/overpayments/use":
		return domain.AuditActionCreditUsed, "customer"
	}
	return "", ""
}

func firstParam(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Param(n); v != "" {
			return v
		}
	}
	return ""
}
