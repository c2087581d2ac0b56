package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is read from the customer collaborator.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone,omitempty"`
	NIC   string    `json:"nic,omitempty"`
	Email string    `json:"email,omitempty"`
	Type  string    `json:"type,omitempty"`
}

// CustomerFilter holds optional customer lookup fields; empty ones are ignored.
type CustomerFilter struct {
	Name  string
	Phone string
	NIC   string
	Email string
}

func (f CustomerFilter) IsEmpty() bool {
	return f.Name == "" && f.Phone == "" && f.NIC == "" && f.Email == ""
}

// SaleLookupCriteria drives LookupSales.
type SaleLookupCriteria struct {
	InvoiceNo   string         `json:"invoice_no,omitempty"`
	Customer    CustomerFilter `json:"customer"`
	ProductName string         `json:"product_name,omitempty"`
	From        *time.Time     `json:"from,omitempty"`
	To          *time.Time     `json:"to,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

// IsEmpty reports whether no search field was supplied.
func (c SaleLookupCriteria) IsEmpty() bool {
	return strings.TrimSpace(c.InvoiceNo) == "" && c.Customer.IsEmpty() &&
		strings.TrimSpace(c.ProductName) == "" && c.From == nil && c.To == nil
}

// SaleSearch is the resolved query handed to the sale repository.
type SaleSearch struct {
	InvoiceNo   string
	CustomerIDs []uuid.UUID
	ProductIDs  []uuid.UUID
	From        *time.Time
	To          *time.Time
	Limit       int
}
