package service

import (
	"context"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// InventoryAdjuster writes stock counters and the movement ledger for a return.
type InventoryAdjuster struct {
	invRepo ports.InventoryRepository
}

// NewInventoryAdjuster creates a new InventoryAdjuster.
func NewInventoryAdjuster(invRepo ports.InventoryRepository) *InventoryAdjuster {
	return &InventoryAdjuster{invRepo: invRepo}
}

// Apply restocks lines marked restock and records a zero-quantity movement for
// every other disposition, so each returned line leaves one ledger row.
func (a *InventoryAdjuster) Apply(ctx context.Context, tx pgx.Tx, rt *domain.ReturnTransaction, by string, now time.Time) ([]domain.StockMovement, error) {
	movements := make([]domain.StockMovement, 0, len(rt.Items))
	for _, it := range rt.Items {
		delta := 0
		if it.Disposition == domain.DispositionRestock {
			delta = it.Quantity
		}

		change, err := a.invRepo.AdjustStock(ctx, tx, it.ProductID, delta)
		if err != nil {
			return nil, fmt.Errorf("adjust stock for %s: %w", it.ProductID, err)
		}

		m := domain.StockMovement{
			ID:            uuid.New(),
			ProductID:     it.ProductID,
			Type:          domain.MovementTypeFor(it.Disposition),
			Quantity:      delta,
			PreviousStock: change.Previous,
			NewStock:      change.New,
			ReferenceType: domain.ReferenceTypeReturnTransaction,
			ReferenceID:   rt.ID,
			Reason:        movementReason(rt.ReturnNumber, it),
			CreatedBy:     by,
			CreatedAt:     now,
		}
		if err := a.invRepo.CreateMovement(ctx, tx, &m); err != nil {
			return nil, fmt.Errorf("record stock movement for %s: %w", it.ProductID, err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func movementReason(returnNumber string, it domain.ReturnItem) string {
	if it.Reason == "" {
		return fmt.Sprintf("%s: %s", returnNumber, it.Disposition)
	}
	return fmt.Sprintf("%s: %s (%s)", returnNumber, it.Disposition, it.Reason)
}

// UnitBarcodeTracker flips sold unit barcodes to returned. It runs inside a
// savepoint; on failure the savepoint is rolled back and the settlement
// carries on without the barcode trail.
type UnitBarcodeTracker struct {
	barcodeRepo ports.BarcodeRepository
	log         zerolog.Logger
}

// NewUnitBarcodeTracker creates a new UnitBarcodeTracker.
func NewUnitBarcodeTracker(barcodeRepo ports.BarcodeRepository, log zerolog.Logger) *UnitBarcodeTracker {
	return &UnitBarcodeTracker{barcodeRepo: barcodeRepo, log: log}
}

// Track returns how many units were marked. Zero with no error logged means
// the sale had no serialized units.
func (t *UnitBarcodeTracker) Track(ctx context.Context, tx pgx.Tx, rt *domain.ReturnTransaction, now time.Time) int {
	sp, err := tx.Begin(ctx)
	if err != nil {
		t.log.Warn().Err(err).Str("return_number", rt.ReturnNumber).Msg("barcode tracking skipped: savepoint failed")
		return 0
	}

	marked := 0
	for _, it := range rt.Items {
		n, err := t.barcodeRepo.MarkReturned(ctx, sp, domain.BarcodeReturn{
			SaleID:              rt.SaleID,
			ProductID:           it.ProductID,
			Limit:               it.Quantity,
			ReturnTransactionID: rt.ID,
			Reason:              it.Reason,
			ReturnedAt:          now,
		})
		if err != nil {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				t.log.Error().Err(rbErr).Str("return_number", rt.ReturnNumber).Msg("barcode savepoint rollback failed")
			}
			t.log.Warn().Err(err).
				Str("return_number", rt.ReturnNumber).
				Str("product_id", it.ProductID.String()).
				Msg("barcode tracking failed, continuing without it")
			return 0
		}
		marked += n
	}

	if err := sp.Commit(ctx); err != nil {
		t.log.Warn().Err(err).Str("return_number", rt.ReturnNumber).Msg("barcode savepoint release failed")
		return 0
	}
	return marked
}

// SaleLedgerUpdater appends the return to the sale and advances its status.
type SaleLedgerUpdater struct {
	saleRepo ports.SaleRepository
}

// NewSaleLedgerUpdater creates a new SaleLedgerUpdater.
func NewSaleLedgerUpdater(saleRepo ports.SaleRepository) *SaleLedgerUpdater {
	return &SaleLedgerUpdater{saleRepo: saleRepo}
}

// Append mutates the locked snapshot and persists the same change.
func (u *SaleLedgerUpdater) Append(ctx context.Context, tx pgx.Tx, sale *domain.Sale, rt *domain.ReturnTransaction) (domain.SaleStatus, error) {
	entry := rt.LedgerEntry()
	status := sale.ApplyReturn(entry)
	if err := u.saleRepo.AppendReturn(ctx, tx, sale.ID, entry, status); err != nil {
		return "", fmt.Errorf("append sale return: %w", err)
	}
	return status, nil
}
