package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementType identifies why stock moved.
type MovementType string

const (
	MovementReturnRestock    MovementType = "return_restock"
	MovementReturnDamaged    MovementType = "return_damaged"
	MovementReturnWriteOff   MovementType = "return_write_off"
	MovementReturnToSupplier MovementType = "return_to_supplier"
)

// ReferenceTypeReturnTransaction tags movements caused by a return.
const ReferenceTypeReturnTransaction = "return_transaction"

// MovementTypeFor maps a disposition to the ledger movement type.
func MovementTypeFor(d Disposition) MovementType {
	switch d {
	case DispositionRestock:
		return MovementReturnRestock
	case DispositionWriteOff:
		return MovementReturnWriteOff
	case DispositionReturnToSupplier:
		return MovementReturnToSupplier
	default:
		return MovementReturnDamaged
	}
}

// InventoryRecord holds the per-product stock counters.
type InventoryRecord struct {
	ProductID      uuid.UUID `json:"product_id"`
	CurrentStock   int       `json:"current_stock"`
	MinimumStock   int       `json:"minimum_stock"`
	ReservedStock  int       `json:"reserved_stock"`
	AvailableStock int       `json:"available_stock"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StockMovement is one append-only ledger row. NewStock = PreviousStock + Quantity.
type StockMovement struct {
	ID            uuid.UUID    `json:"id"`
	ProductID     uuid.UUID    `json:"product_id"`
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	PreviousStock int          `json:"previous_stock"`
	NewStock      int          `json:"new_stock"`
	ReferenceType string       `json:"reference_type"`
	ReferenceID   uuid.UUID    `json:"reference_id"`
	Reason        string       `json:"reason,omitempty"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
}

// StockChange is the before/after of an in-place stock increment.
type StockChange struct {
	Previous int
	New      int
}
