package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an outbound notification.
type EventType string

const (
	EventReturnProcessed EventType = "RETURN_PROCESSED"
	EventSlipRedeemed    EventType = "EXCHANGE_SLIP_REDEEMED"
	EventSlipCancelled   EventType = "EXCHANGE_SLIP_CANCELLED"
	EventCreditUsed      EventType = "OVERPAYMENT_USED"
)

// Event is the payload handed to the notification collaborator.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// DeliveryStatus represents the delivery state of a notification.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
)

// NotificationDeliveryLog records each delivery attempt.
type NotificationDeliveryLog struct {
	ID         uuid.UUID      `json:"id"`
	EventID    uuid.UUID      `json:"event_id"`
	EventType  EventType      `json:"event_type"`
	TargetURL  string         `json:"target_url"`
	Payload    string         `json:"payload"` // JSON string
	HTTPStatus *int           `json:"http_status"`
	Attempt    int            `json:"attempt"`
	Status     DeliveryStatus `json:"status"`
	LastError  *string        `json:"last_error"`
	CreatedAt  time.Time      `json:"created_at"`
}
