package domain

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus represents the refund state of a sale. It only moves forward.
type SaleStatus string

const (
	SaleStatusCompleted         SaleStatus = "completed"
	SaleStatusPartiallyRefunded SaleStatus = "partially_refunded"
	SaleStatusRefunded          SaleStatus = "refunded"
)

func (s SaleStatus) rank() int {
	switch s {
	case SaleStatusPartiallyRefunded:
		return 1
	case SaleStatusRefunded:
		return 2
	default:
		return 0
	}
}

// Sale is a completed point-of-sale transaction. The engine reads it and
// appends return entries; it never edits the original lines.
type Sale struct {
	ID            uuid.UUID         `json:"id"`
	InvoiceNo     string            `json:"invoice_no"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	SaleDate      time.Time         `json:"sale_date"`
	Items         []SaleItem        `json:"items"`
	Total         int64             `json:"total"` // In smallest currency unit
	Status        SaleStatus        `json:"status"`
	Returns       []SaleReturnEntry `json:"returns"`
	ReturnSummary ReturnSummary     `json:"return_summary"`
}

// SaleItem is one line of the original sale.
type SaleItem struct {
	ProductID   uuid.UUID  `json:"product_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   int64      `json:"unit_price"`
	UnitCost    int64      `json:"unit_cost"`
	LineTotal   int64      `json:"line_total"`
}

// SaleReturnEntry is an append-only record of one processed return.
type SaleReturnEntry struct {
	ReturnTransactionID uuid.UUID          `json:"return_transaction_id"`
	ReturnNumber        string             `json:"return_number"`
	Items               []SaleReturnedItem `json:"items"`
	Amount              int64              `json:"amount"`
	RefundMethod        RefundMethod       `json:"refund_method"`
	ProcessedBy         string             `json:"processed_by"`
	ProcessedAt         time.Time          `json:"processed_at"`
}

// SaleReturnedItem records how much of a product left the sale in one return.
type SaleReturnedItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Amount    int64     `json:"amount"`
}

// ReturnSummary is the running total of everything returned against a sale.
type ReturnSummary struct {
	TotalReturned      int64      `json:"total_returned"`
	TotalReturnedItems int        `json:"total_returned_items"`
	LastReturnAt       *time.Time `json:"last_return_at,omitempty"`
}

// QuantitySold sums the quantity of a product across all sale lines.
func (s *Sale) QuantitySold(productID uuid.UUID) int {
	total := 0
	for _, it := range s.Items {
		if it.ProductID == productID {
			total += it.Quantity
		}
	}
	return total
}

// Line returns the first sale line for a product.
func (s *Sale) Line(productID uuid.UUID) (SaleItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return SaleItem{}, false
}

// AlreadyReturned replays the return log into per-product quantities.
func (s *Sale) AlreadyReturned() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for _, r := range s.Returns {
		for _, it := range r.Items {
			out[it.ProductID] += it.Quantity
		}
	}
	return out
}

// TotalQuantity is the number of units sold across all lines.
func (s *Sale) TotalQuantity() int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// IsReturnable reports whether anything can still be returned.
func (s *Sale) IsReturnable() bool {
	return s.Status != SaleStatusRefunded
}

// ApplyReturn appends the entry, bumps the summary and advances the status.
// It returns the status the sale ends up in.
func (s *Sale) ApplyReturn(entry SaleReturnEntry) SaleStatus {
	s.Returns = append(s.Returns, entry)

	units := 0
	for _, it := range entry.Items {
		units += it.Quantity
	}
	s.ReturnSummary.TotalReturned += entry.Amount
	s.ReturnSummary.TotalReturnedItems += units
	at := entry.ProcessedAt
	s.ReturnSummary.LastReturnAt = &at

	s.Status = AdvanceSaleStatus(s.Status, s.nextStatus())
	return s.Status
}

func (s *Sale) nextStatus() SaleStatus {
	if s.ReturnSummary.TotalReturned >= s.Total || s.ReturnSummary.TotalReturnedItems >= s.TotalQuantity() {
		return SaleStatusRefunded
	}
	return SaleStatusPartiallyRefunded
}

// AdvanceSaleStatus never moves a sale backwards.
func AdvanceSaleStatus(current, next SaleStatus) SaleStatus {
	if next.rank() > current.rank() {
		return next
	}
	return current
}
