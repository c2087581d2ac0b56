package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SlipStatus represents the lifecycle state of an exchange slip.
type SlipStatus string

const (
	SlipStatusActive    SlipStatus = "active"
	SlipStatusRedeemed  SlipStatus = "redeemed"
	SlipStatusExpired   SlipStatus = "expired"
	SlipStatusCancelled SlipStatus = "cancelled"
)

var (
	ErrSlipNotActive = errors.New("exchange slip is not active")
	ErrSlipExpired   = errors.New("exchange slip has expired")
)

// ExchangeSlip is a voucher issued instead of a cash refund.
type ExchangeSlip struct {
	ID                  uuid.UUID  `json:"id"`
	SlipNo              string     `json:"slip_no"`
	SaleID              uuid.UUID  `json:"sale_id"`
	ReturnTransactionID uuid.UUID  `json:"return_transaction_id"`
	CustomerID          *uuid.UUID `json:"customer_id,omitempty"`
	Items               []SlipItem `json:"items"`
	TotalValue          int64      `json:"total_value"`
	IssuedAt            time.Time  `json:"issued_at"`
	ExpiresAt           time.Time  `json:"expires_at"`
	Status              SlipStatus `json:"status"`
	IssuedBy            string     `json:"issued_by"`
	RedeemedSaleID      *uuid.UUID `json:"redeemed_sale_id,omitempty"`
	RedeemedBy          *string    `json:"redeemed_by,omitempty"`
	RedeemedAt          *time.Time `json:"redeemed_at,omitempty"`
	CancelledBy         *string    `json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancelReason        *string    `json:"cancel_reason,omitempty"`
}

// SlipItem is the exchange value granted for one returned product.
type SlipItem struct {
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	ExchangeValue int64     `json:"exchange_value"`
}

// ItemsValue sums the per-item exchange values.
func (s *ExchangeSlip) ItemsValue() int64 {
	var total int64
	for _, it := range s.Items {
		total += it.ExchangeValue
	}
	return total
}

// IsExpired reports whether the slip passed its expiry at the given time.
func (s *ExchangeSlip) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Redeem moves an active slip to redeemed. Terminal states are hard errors.
func (s *ExchangeSlip) Redeem(saleID uuid.UUID, by string, now time.Time) error {
	if s.Status != SlipStatusActive {
		return ErrSlipNotActive
	}
	if s.IsExpired(now) {
		return ErrSlipExpired
	}
	s.Status = SlipStatusRedeemed
	s.RedeemedSaleID = &saleID
	s.RedeemedBy = &by
	s.RedeemedAt = &now
	return nil
}

// Cancel moves an active slip to cancelled.
func (s *ExchangeSlip) Cancel(by string, reason string, now time.Time) error {
	if s.Status != SlipStatusActive {
		return ErrSlipNotActive
	}
	s.Status = SlipStatusCancelled
	s.CancelledBy = &by
	s.CancelledAt = &now
	if reason != "" {
		s.CancelReason = &reason
	}
	return nil
}
