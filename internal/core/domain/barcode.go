package domain

import (
	"time"

	"github.com/google/uuid"
)

// BarcodeStatus represents the lifecycle state of a serialized unit.
type BarcodeStatus string

const (
	BarcodeStatusGenerated      BarcodeStatus = "generated"
	BarcodeStatusInStock        BarcodeStatus = "in_stock"
	BarcodeStatusSold           BarcodeStatus = "sold"
	BarcodeStatusReturned       BarcodeStatus = "returned"
	BarcodeStatusWarrantyLinked BarcodeStatus = "warranty_linked"
)

// UnitBarcode identifies one physical unit.
type UnitBarcode struct {
	ID                  uuid.UUID     `json:"id"`
	Barcode             string        `json:"barcode"`
	ProductID           uuid.UUID     `json:"product_id"`
	SaleID              *uuid.UUID    `json:"sale_id,omitempty"`
	Status              BarcodeStatus `json:"status"`
	ReturnTransactionID *uuid.UUID    `json:"return_transaction_id,omitempty"`
	ReturnReason        *string       `json:"return_reason,omitempty"`
	ReturnedAt          *time.Time    `json:"returned_at,omitempty"`
}

// CanReturnFrom reports whether the unit may be marked returned for saleID.
func (b *UnitBarcode) CanReturnFrom(saleID uuid.UUID) bool {
	return b.Status == BarcodeStatusSold && b.SaleID != nil && *b.SaleID == saleID
}

// BarcodeReturn describes which sold units to mark returned.
type BarcodeReturn struct {
	SaleID              uuid.UUID
	ProductID           uuid.UUID
	Limit               int
	ReturnTransactionID uuid.UUID
	Reason              string
	ReturnedAt          time.Time
}
