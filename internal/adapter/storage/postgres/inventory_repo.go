package postgres

import (
	"context"
	"errors"
	"fmt"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InventoryRepo implements ports.InventoryRepository.
type InventoryRepo struct {
	pool Pool
}

// NewInventoryRepo creates a new InventoryRepo.
func NewInventoryRepo(pool Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// AdjustStock increments the inventory record in place and mirrors the
// change on the product row. A product without a record yet gets one seeded
// from its current stock, so both counters and the movement ledger agree.
func (r *InventoryRepo) AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, delta int) (domain.StockChange, error) {
	var change domain.StockChange
	err := tx.QueryRow(ctx, `INSERT INTO inventory_records (product_id, current_stock, available_stock, updated_at)
		SELECT p.id, p.current_stock + $2, p.current_stock + $2, NOW() FROM products p WHERE p.id = $1
		ON CONFLICT (product_id) DO UPDATE SET
			current_stock = inventory_records.current_stock + $2,
			available_stock = inventory_records.available_stock + $2,
			updated_at = NOW()
		RETURNING current_stock`, productID, delta).Scan(&change.New)
	if errors.Is(err, pgx.ErrNoRows) {
		return change, fmt.Errorf("adjust inventory record: product %s not found", productID)
	}
	if err != nil {
		return change, fmt.Errorf("adjust inventory record: %w", err)
	}
	change.Previous = change.New - delta

	if _, err := tx.Exec(ctx, `UPDATE products SET current_stock = current_stock + $2 WHERE id = $1`,
		productID, delta); err != nil {
		return change, fmt.Errorf("adjust product stock: %w", err)
	}
	return change, nil
}

// CreateMovement appends one stock ledger row.
func (r *InventoryRepo) CreateMovement(ctx context.Context, tx pgx.Tx, movement *domain.StockMovement) error {
	_, err := tx.Exec(ctx, `INSERT INTO stock_movements
		(id, product_id, movement_type, quantity, previous_stock, new_stock,
		 reference_type, reference_id, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity, movement.PreviousStock, movement.NewStock,
		movement.ReferenceType, movement.ReferenceID, movement.Reason, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}
