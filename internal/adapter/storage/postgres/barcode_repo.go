package postgres

import (
	"context"
	"fmt"

	"returns-settlement-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BarcodeRepo implements ports.BarcodeRepository.
type BarcodeRepo struct{}

// NewBarcodeRepo creates a new BarcodeRepo.
func NewBarcodeRepo() *BarcodeRepo {
	return &BarcodeRepo{}
}

// MarkReturned flips up to req.Limit sold units of the product on the sale.
// Units already claimed by another transaction are skipped.
func (r *BarcodeRepo) MarkReturned(ctx context.Context, tx pgx.Tx, req domain.BarcodeReturn) (int, error) {
	tag, err := tx.Exec(ctx, `UPDATE unit_barcodes SET
		status = 'returned', return_transaction_id = $4, return_reason = $5, returned_at = $6
		WHERE id IN (
			SELECT id FROM unit_barcodes
			WHERE sale_id = $1 AND product_id = $2 AND status = 'sold'
			ORDER BY id LIMIT $3 FOR UPDATE SKIP LOCKED
		)`,
		req.SaleID, req.ProductID, req.Limit, req.ReturnTransactionID, req.Reason, req.ReturnedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("mark barcodes returned: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
