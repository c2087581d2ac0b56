package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InventoryRepo implements ports.InventoryRepository. Stock changes are
// undone by applying the inverse delta so concurrent units of work touching
// the same product never clobber each other. Uncommitted deltas are staged
// per product and subtracted for outside readers.
type InventoryRepo struct {
	store *Store
	now   func() time.Time
}

func NewInventoryRepo(s *Store) *InventoryRepo {
	return &InventoryRepo{store: s, now: time.Now}
}

func (r *InventoryRepo) AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, delta int) (domain.StockChange, error) {
	t, err := asTx(tx)
	if err != nil {
		return domain.StockChange{}, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.inventory[productID]
	if !ok {
		rec = &domain.InventoryRecord{ProductID: productID}
		r.store.inventory[productID] = rec
	}
	change := domain.StockChange{Previous: rec.CurrentStock}
	rec.CurrentStock += delta
	rec.AvailableStock += delta
	rec.UpdatedAt = r.now()
	change.New = rec.CurrentStock
	t.stageStock(productID, delta)

	t.record(func() {
		rec.CurrentStock -= delta
		rec.AvailableStock -= delta
		t.stageStock(productID, -delta)
	})
	return change, nil
}

func (r *InventoryRepo) CreateMovement(ctx context.Context, tx pgx.Tx, movement *domain.StockMovement) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.movements[movement.ID] = *movement
	t.stage("movement:"+movement.ID.String(), nil)
	t.record(func() { delete(r.store.movements, movement.ID) })
	return nil
}

// BarcodeRepo implements ports.BarcodeRepository.
type BarcodeRepo struct {
	store *Store
}

func NewBarcodeRepo(s *Store) *BarcodeRepo {
	return &BarcodeRepo{store: s}
}

func (r *BarcodeRepo) MarkReturned(ctx context.Context, tx pgx.Tx, req domain.BarcodeReturn) (int, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var candidates []*domain.UnitBarcode
	for _, b := range r.store.barcodes {
		if b.ProductID == req.ProductID && b.CanReturnFrom(req.SaleID) {
			candidates = append(candidates, b)
		}
	}
	slices.SortFunc(candidates, func(a, b *domain.UnitBarcode) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}

	for _, b := range candidates {
		next := *b
		returnID := req.ReturnTransactionID
		reason := req.Reason
		at := req.ReturnedAt
		next.Status = domain.BarcodeStatusReturned
		next.ReturnTransactionID = &returnID
		next.ReturnReason = &reason
		next.ReturnedAt = &at
		r.store.barcodes[b.ID] = &next
		t.stage("barcode:"+b.ID.String(), b)
		t.record(func() { r.store.barcodes[b.ID] = b })
	}
	return len(candidates), nil
}

// SequenceRepo implements ports.SequenceRepository. The counter is locked
// until the unit of work ends, like the row lock of the SQL upsert.
type SequenceRepo struct {
	store *Store
}

func NewSequenceRepo(s *Store) *SequenceRepo {
	return &SequenceRepo{store: s}
}

func (r *SequenceRepo) Next(ctx context.Context, tx pgx.Tx, prefix string, day string) (int64, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}
	key := prefix + day
	if err := t.lock(ctx, "seq:"+key); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sequences[key]++
	next := r.store.sequences[key]
	t.record(func() { r.store.sequences[key]-- })
	return next, nil
}
