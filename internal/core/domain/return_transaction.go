package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReturnType classifies the return for reporting.
type ReturnType string

const (
	ReturnTypeFull     ReturnType = "full"
	ReturnTypePartial  ReturnType = "partial"
	ReturnTypeExchange ReturnType = "exchange"
)

func (t ReturnType) Valid() bool {
	return t == ReturnTypeFull || t == ReturnTypePartial || t == ReturnTypeExchange
}

// ReturnStatus represents the lifecycle state of a return transaction.
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusProcessed ReturnStatus = "processed"
	ReturnStatusCancelled ReturnStatus = "cancelled"
)

// CountsTowardLimits reports whether the return counts against customer caps.
func (s ReturnStatus) CountsTowardLimits() bool {
	return s == ReturnStatusApproved || s == ReturnStatusProcessed
}

// ReturnTransaction records one return event. Immutable once written.
type ReturnTransaction struct {
	ID               uuid.UUID    `json:"id"`
	ReturnNumber     string       `json:"return_number"`
	SaleID           uuid.UUID    `json:"sale_id"`
	InvoiceNo        string       `json:"invoice_no"`
	CustomerID       *uuid.UUID   `json:"customer_id,omitempty"`
	ReturnType       ReturnType   `json:"return_type"`
	Items            []ReturnItem `json:"items"`
	Subtotal         int64        `json:"subtotal"`
	Discount         int64        `json:"discount"`
	TotalAmount      int64        `json:"total_amount"`
	RefundMethod     RefundMethod `json:"refund_method"`
	ExchangeSlipID   *uuid.UUID   `json:"exchange_slip_id,omitempty"`
	OverpaymentID    *uuid.UUID   `json:"overpayment_id,omitempty"`
	PolicyID         *uuid.UUID   `json:"policy_id,omitempty"`
	Status           ReturnStatus `json:"status"`
	RequiresApproval bool         `json:"requires_approval"`
	ApprovedBy       *string      `json:"approved_by,omitempty"`
	ProcessedBy      string       `json:"processed_by"`
	ProcessedAt      time.Time    `json:"processed_at"`
	Notes            string       `json:"notes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// ReturnItem is one returned product line.
type ReturnItem struct {
	ProductID     uuid.UUID   `json:"product_id"`
	ProductName   string      `json:"product_name,omitempty"`
	Quantity      int         `json:"quantity"`
	OriginalPrice int64       `json:"original_price"` // Per unit, copied from the sale
	ReturnAmount  int64       `json:"return_amount"`
	Reason        string      `json:"reason"`
	Condition     string      `json:"condition"`
	Disposition   Disposition `json:"disposition"`
}

// ItemsTotal sums the per-item return amounts.
func ItemsTotal(items []ReturnItem) int64 {
	var total int64
	for _, it := range items {
		total += it.ReturnAmount
	}
	return total
}

// LedgerEntry builds the summary appended to the sale's returns log.
func (r *ReturnTransaction) LedgerEntry() SaleReturnEntry {
	items := make([]SaleReturnedItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, SaleReturnedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Amount:    it.ReturnAmount,
		})
	}
	return SaleReturnEntry{
		ReturnTransactionID: r.ID,
		ReturnNumber:        r.ReturnNumber,
		Items:               items,
		Amount:              r.TotalAmount,
		RefundMethod:        r.RefundMethod,
		ProcessedBy:         r.ProcessedBy,
		ProcessedAt:         r.ProcessedAt,
	}
}

// AllocateDiscount spreads discount across amounts proportionally, rounding
// down, then takes the remainder from the first lines with room left. The
// result sums to total(amounts) - discount and no line goes negative.
func AllocateDiscount(amounts []int64, discount int64) []int64 {
	out := make([]int64, len(amounts))
	copy(out, amounts)
	if discount <= 0 {
		return out
	}

	var total int64
	for _, a := range amounts {
		total += a
	}
	if total <= 0 {
		return out
	}
	if discount > total {
		discount = total
	}

	remaining := discount
	for i, a := range amounts {
		share := a * discount / total
		out[i] = a - share
		remaining -= share
	}
	for i := range out {
		if remaining == 0 {
			break
		}
		take := min(remaining, out[i])
		out[i] -= take
		remaining -= take
	}
	return out
}
