package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionReturnValidated AuditAction = "RETURN_VALIDATED"
	AuditActionReturnProcessed AuditAction = "RETURN_PROCESSED"
	AuditActionSlipRedeemed    AuditAction = "EXCHANGE_SLIP_REDEEMED"
	AuditActionSlipCancelled   AuditAction = "EXCHANGE_SLIP_CANCELLED"
	AuditActionCreditUsed      AuditAction = "OVERPAYMENT_USED"
)

// AuditLog records a single audited staff action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *string     `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
