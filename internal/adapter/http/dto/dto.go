package dto

import (
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"

	"github.com/google/uuid"
)

// ReturnRequest is the request body for validating or processing a return.
// Business rules (quantities, window, refund method) are checked by the
// validator so that every problem is reported at once; binding only checks
// shape.
type ReturnRequest struct {
	SaleID           string              `json:"sale_id" binding:"required,uuid"`
	Items            []ReturnItemRequest `json:"items" binding:"max=100,dive"`
	ReturnType       string              `json:"return_type" binding:"required,max=20"`
	RefundMethod     string              `json:"refund_method" binding:"required,max=30"`
	Discount         int64               `json:"discount"`
	ManagerOverride  bool                `json:"manager_override"`
	ManagerPIN       string              `json:"manager_pin,omitempty" binding:"max=64"`
	ReceiptPresented bool                `json:"receipt_presented"`
	Notes            string              `json:"notes,omitempty" binding:"max=1000"`
}

// ReturnItemRequest is one product line of a ReturnRequest.
type ReturnItemRequest struct {
	ProductID    string `json:"product_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity"`
	ReturnAmount int64  `json:"return_amount"`
	Reason       string `json:"reason,omitempty" binding:"max=255"`
	Condition    string `json:"condition,omitempty" binding:"max=50"`
	Disposition  string `json:"disposition,omitempty" binding:"max=30"`
}

// ToPort converts the bound body into the service request. IDs were checked
// by binding.
func (r ReturnRequest) ToPort(idempotencyKey string) ports.ReturnRequest {
	items := make([]ports.ReturnRequestItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ports.ReturnRequestItem{
			ProductID:    uuid.MustParse(it.ProductID),
			Quantity:     it.Quantity,
			ReturnAmount: it.ReturnAmount,
			Reason:       it.Reason,
			Condition:    it.Condition,
			Disposition:  domain.Disposition(it.Disposition),
		})
	}
	return ports.ReturnRequest{
		SaleID:           uuid.MustParse(r.SaleID),
		Items:            items,
		ReturnType:       domain.ReturnType(r.ReturnType),
		RefundMethod:     domain.RefundMethod(r.RefundMethod),
		Discount:         r.Discount,
		ManagerOverride:  r.ManagerOverride,
		ManagerPIN:       r.ManagerPIN,
		ReceiptPresented: r.ReceiptPresented,
		Notes:            r.Notes,
		IdempotencyKey:   idempotencyKey,
	}
}

// RedeemSlipRequest is the request body for redeeming an exchange slip.
type RedeemSlipRequest struct {
	SaleID string `json:"sale_id" binding:"required,uuid"`
}

// CancelSlipRequest is the optional request body for cancelling an
// exchange slip.
type CancelSlipRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// UseOverpaymentRequest is the request body for spending customer credit.
type UseOverpaymentRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	SaleID string `json:"sale_id" binding:"required,uuid"`
}

// SlipSearchQuery binds GET /exchange-slips.
type SlipSearchQuery struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Phone      string `form:"phone" binding:"omitempty,max=30"`
}

// SaleLookupQuery binds GET /sales/lookup.
type SaleLookupQuery struct {
	InvoiceNo     string     `form:"invoice_no" binding:"omitempty,safe_id,max=50"`
	CustomerName  string     `form:"customer_name" binding:"max=100"`
	CustomerPhone string     `form:"customer_phone" binding:"max=30"`
	CustomerNIC   string     `form:"customer_nic" binding:"omitempty,safe_id,max=30"`
	CustomerEmail string     `form:"customer_email" binding:"omitempty,email"`
	ProductName   string     `form:"product_name" binding:"max=100"`
	From          *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To            *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit         int        `form:"limit" binding:"omitempty,min=1"`
}

// Criteria converts the query into lookup criteria. A date-only To covers
// the whole day.
func (q SaleLookupQuery) Criteria() domain.SaleLookupCriteria {
	c := domain.SaleLookupCriteria{
		InvoiceNo: q.InvoiceNo,
		Customer: domain.CustomerFilter{
			Name:  q.CustomerName,
			Phone: q.CustomerPhone,
			NIC:   q.CustomerNIC,
			Email: q.CustomerEmail,
		},
		ProductName: q.ProductName,
		From:        q.From,
		Limit:       q.Limit,
	}
	if q.To != nil {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		c.To = &end
	}
	return c
}

// HistoryQuery binds GET /customers/:customer_id/returns.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=0"`
}

// AnalyticsQuery binds GET /returns/analytics.
type AnalyticsQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// SlipListResponse wraps the slip search result.
type SlipListResponse struct {
	Slips []domain.ExchangeSlip `json:"slips"`
	Total int                   `json:"total"`
}

// SaleListResponse wraps the sale lookup result.
type SaleListResponse struct {
	Sales []domain.Sale `json:"sales"`
	Total int           `json:"total"`
}

// ReturnHistoryResponse wraps a customer's return history.
type ReturnHistoryResponse struct {
	CustomerID string                     `json:"customer_id"`
	Returns    []domain.ReturnTransaction `json:"returns"`
	Total      int                        `json:"total"`
}
