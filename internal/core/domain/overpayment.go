package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OverpaymentStatus represents the lifecycle state of a customer credit.
type OverpaymentStatus string

const (
	OverpaymentStatusActive    OverpaymentStatus = "active"
	OverpaymentStatusFullyUsed OverpaymentStatus = "fully_used"
	OverpaymentStatusExpired   OverpaymentStatus = "expired"
	OverpaymentStatusCancelled OverpaymentStatus = "cancelled"
)

var ErrCreditNotUsable = errors.New("credit is not usable")

// CustomerOverpayment is a store-credit row. Balance only ever decreases.
type CustomerOverpayment struct {
	ID                  uuid.UUID          `json:"id"`
	CustomerID          uuid.UUID          `json:"customer_id"`
	SaleID              uuid.UUID          `json:"sale_id"`
	ReturnTransactionID *uuid.UUID         `json:"return_transaction_id,omitempty"`
	Amount              int64              `json:"amount"`
	Balance             int64              `json:"balance"`
	Status              OverpaymentStatus  `json:"status"`
	UsageHistory        []OverpaymentUsage `json:"usage_history"`
	CreatedBy           string             `json:"created_by"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// OverpaymentUsage is one append-only consumption record.
type OverpaymentUsage struct {
	ID            uuid.UUID `json:"id"`
	OverpaymentID uuid.UUID `json:"overpayment_id"`
	UsedAmount    int64     `json:"used_amount"`
	BalanceAfter  int64     `json:"balance_after"`
	SaleID        uuid.UUID `json:"sale_id"`
	UsedBy        string    `json:"used_by"`
	UsedAt        time.Time `json:"used_at"`
}

// Consume takes up to want from the balance and records the usage.
// It returns how much was actually taken.
func (o *CustomerOverpayment) Consume(want int64, saleID uuid.UUID, by string, now time.Time) (OverpaymentUsage, error) {
	if o.Status != OverpaymentStatusActive || o.Balance <= 0 || want <= 0 {
		return OverpaymentUsage{}, ErrCreditNotUsable
	}

	used := min(want, o.Balance)
	o.Balance -= used
	if o.Balance == 0 {
		o.Status = OverpaymentStatusFullyUsed
	}
	o.UpdatedAt = now

	usage := OverpaymentUsage{
		ID:            uuid.New(),
		OverpaymentID: o.ID,
		UsedAmount:    used,
		BalanceAfter:  o.Balance,
		SaleID:        saleID,
		UsedBy:        by,
		UsedAt:        now,
	}
	o.UsageHistory = append(o.UsageHistory, usage)
	return usage, nil
}

// UsedTotal sums the usage history.
func (o *CustomerOverpayment) UsedTotal() int64 {
	var total int64
	for _, u := range o.UsageHistory {
		total += u.UsedAmount
	}
	return total
}
