package memory

import (
	"context"
	"testing"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSale(s *Store, total int64) domain.Sale {
	sale := domain.Sale{
		ID:        uuid.New(),
		InvoiceNo: "INV-" + uuid.NewString()[:8],
		SaleDate:  time.Now().Add(-time.Hour),
		Items: []domain.SaleItem{
			{ProductID: uuid.New(), ProductName: "Desk Lamp", Quantity: 2, UnitPrice: total / 2, LineTotal: total},
		},
		Total: total,
	}
	s.PutSale(sale)
	return sale
}

func TestTx_RollbackUndoesWrites(t *testing.T) {
	s := New()
	sale := seedSale(s, 1000)
	productID := sale.Items[0].ProductID
	s.PutInventory(domain.InventoryRecord{ProductID: productID, CurrentStock: 5, AvailableStock: 5})
	ctx := context.Background()

	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)

	_, err = NewSaleRepo(s).GetByIDForUpdate(ctx, tx, sale.ID)
	require.NoError(t, err)
	require.NoError(t, NewSaleRepo(s).AppendReturn(ctx, tx, sale.ID, domain.SaleReturnEntry{
		ReturnTransactionID: uuid.New(),
		Items:               []domain.SaleReturnedItem{{ProductID: productID, Quantity: 1, Amount: 500}},
		Amount:              500,
		ProcessedAt:         time.Now(),
	}, domain.SaleStatusPartiallyRefunded))
	_, err = NewInventoryRepo(s).AdjustStock(ctx, tx, productID, 1)
	require.NoError(t, err)
	n, err := NewSequenceRepo(s).Next(ctx, tx, "RET", "260303")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, tx.Rollback(ctx))

	got, err := NewSaleRepo(s).GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCompleted, got.Status)
	assert.Empty(t, got.Returns)
	assert.Zero(t, got.ReturnSummary.TotalReturned)

	rec, _ := s.Inventory(productID)
	assert.Equal(t, 5, rec.CurrentStock)

	tx2, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)
	n, err = NewSequenceRepo(s).Next(ctx, tx2, "RET", "260303")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "rolled back value is handed out again")
	require.NoError(t, tx2.Commit(ctx))
}

func TestTx_SavepointRollbackKeepsOuterWrites(t *testing.T) {
	s := New()
	productID := uuid.New()
	ctx := context.Background()

	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)

	_, err = NewInventoryRepo(s).AdjustStock(ctx, tx, productID, 3)
	require.NoError(t, err)

	nested, err := tx.Begin(ctx)
	require.NoError(t, err)
	_, err = NewInventoryRepo(s).AdjustStock(ctx, nested, productID, 10)
	require.NoError(t, err)
	require.NoError(t, nested.Rollback(ctx))

	require.NoError(t, tx.Commit(ctx))

	rec, ok := s.Inventory(productID)
	require.True(t, ok)
	assert.Equal(t, 3, rec.CurrentStock)
}

func TestTx_CommittedSavepointUndoneByOuterRollback(t *testing.T) {
	s := New()
	productID := uuid.New()
	ctx := context.Background()

	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)
	nested, err := tx.Begin(ctx)
	require.NoError(t, err)
	_, err = NewInventoryRepo(s).AdjustStock(ctx, nested, productID, 4)
	require.NoError(t, err)
	require.NoError(t, nested.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	rec, _ := s.Inventory(productID)
	assert.Equal(t, 0, rec.CurrentStock)
}

func TestTx_RowLockBlocksUntilRelease(t *testing.T) {
	s := New()
	sale := seedSale(s, 1000)
	repo := NewSaleRepo(s)
	tr := NewTransactor(s)
	ctx := context.Background()

	first, err := tr.Begin(ctx)
	require.NoError(t, err)
	_, err = repo.GetByIDForUpdate(ctx, first, sale.ID)
	require.NoError(t, err)

	second, err := tr.Begin(ctx)
	require.NoError(t, err)
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = repo.GetByIDForUpdate(short, second, sale.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Commit(ctx))

	_, err = repo.GetByIDForUpdate(ctx, second, sale.ID)
	assert.NoError(t, err)
	require.NoError(t, second.Rollback(ctx))
}

func TestTx_ClosedAfterCommit(t *testing.T) {
	s := New()
	ctx := context.Background()
	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Rollback(ctx), pgx.ErrTxClosed)
	_, err = NewSequenceRepo(s).Next(ctx, tx, "RET", "260303")
	assert.ErrorIs(t, err, pgx.ErrTxClosed)
}

func TestTx_UncommittedWritesHiddenFromOtherReaders(t *testing.T) {
	s := New()
	sale := seedSale(s, 1000)
	customerID := uuid.New()
	productID := sale.Items[0].ProductID
	s.PutInventory(domain.InventoryRecord{ProductID: productID, CurrentStock: 5, AvailableStock: 5})
	ctx := context.Background()
	now := time.Now()

	sales := NewSaleRepo(s)
	returns := NewReturnRepo(s)
	slips := NewSlipRepo(s)
	credits := NewOverpaymentRepo(s)
	idemp := NewIdempotencyRepo(s)

	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)

	_, err = sales.GetByIDForUpdate(ctx, tx, sale.ID)
	require.NoError(t, err)
	require.NoError(t, sales.AppendReturn(ctx, tx, sale.ID, domain.SaleReturnEntry{
		ReturnTransactionID: uuid.New(),
		Items:               []domain.SaleReturnedItem{{ProductID: productID, Quantity: 1, Amount: 500}},
		Amount:              500,
		ProcessedAt:         now,
	}, domain.SaleStatusPartiallyRefunded))
	rt := &domain.ReturnTransaction{
		ID: uuid.New(), ReturnNumber: "RET2603030001", SaleID: sale.ID, CustomerID: &customerID,
		TotalAmount: 500, Status: domain.ReturnStatusProcessed, CreatedAt: now,
	}
	require.NoError(t, returns.Create(ctx, tx, rt))
	slip := &domain.ExchangeSlip{
		ID: uuid.New(), SlipNo: "EXS2603030001", SaleID: sale.ID, CustomerID: &customerID,
		TotalValue: 500, Status: domain.SlipStatusActive, IssuedAt: now, ExpiresAt: now.AddDate(0, 0, 90),
	}
	require.NoError(t, slips.Create(ctx, tx, slip))
	require.NoError(t, credits.Create(ctx, tx, &domain.CustomerOverpayment{
		ID: uuid.New(), CustomerID: customerID, SaleID: sale.ID, Amount: 500, Balance: 500,
		Status: domain.OverpaymentStatusActive, CreatedAt: now,
	}))
	_, err = NewInventoryRepo(s).AdjustStock(ctx, tx, productID, 1)
	require.NoError(t, err)
	require.NoError(t, NewInventoryRepo(s).CreateMovement(ctx, tx, &domain.StockMovement{
		ID: uuid.New(), ProductID: productID, Quantity: 1, PreviousStock: 5, NewStock: 6, CreatedAt: now,
	}))
	require.NoError(t, idemp.Create(ctx, tx, &domain.IdempotencyLog{Key: "return:cashier-1:k1", ReturnTransactionID: rt.ID}))

	// The unit of work sees its own writes.
	locked, err := sales.GetByIDForUpdate(ctx, tx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), locked.ReturnSummary.TotalReturned)

	assertCommittedOnly := func(t *testing.T) {
		t.Helper()
		got, err := sales.GetByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Zero(t, got.ReturnSummary.TotalReturned)
		assert.Equal(t, domain.SaleStatusCompleted, got.Status)

		found, err := sales.Search(ctx, domain.SaleSearch{InvoiceNo: sale.InvoiceNo})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Empty(t, found[0].Returns)

		byID, err := returns.GetByID(ctx, rt.ID)
		require.NoError(t, err)
		assert.Nil(t, byID)
		history, err := returns.ListByCustomer(ctx, customerID, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
		stats, err := returns.CustomerStats(ctx, customerID, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, stats.Count)

		customerSlips, err := slips.ListByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Empty(t, customerSlips)
		customerCredits, err := credits.ListByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Empty(t, customerCredits)

		rec, _ := s.Inventory(productID)
		assert.Equal(t, 5, rec.CurrentStock)
		assert.Empty(t, s.StockMovements())

		log, err := idemp.Get(ctx, "return:cashier-1:k1")
		require.NoError(t, err)
		assert.Nil(t, log)
	}

	assertCommittedOnly(t)

	require.NoError(t, tx.Rollback(ctx))
	assertCommittedOnly(t)
}

func TestTx_CommitPublishesWrites(t *testing.T) {
	s := New()
	sale := seedSale(s, 1000)
	customerID := uuid.New()
	productID := sale.Items[0].ProductID
	s.PutInventory(domain.InventoryRecord{ProductID: productID, CurrentStock: 5, AvailableStock: 5})
	credit := domain.CustomerOverpayment{
		ID: uuid.New(), CustomerID: customerID, SaleID: sale.ID, Amount: 800, Balance: 800,
		Status: domain.OverpaymentStatusActive, CreatedAt: time.Now().Add(-time.Hour),
	}
	s.PutCredit(credit)
	ctx := context.Background()

	sales := NewSaleRepo(s)
	credits := NewOverpaymentRepo(s)

	tx, err := NewTransactor(s).Begin(ctx)
	require.NoError(t, err)
	_, err = sales.GetByIDForUpdate(ctx, tx, sale.ID)
	require.NoError(t, err)
	require.NoError(t, sales.AppendReturn(ctx, tx, sale.ID, domain.SaleReturnEntry{
		ReturnTransactionID: uuid.New(),
		Items:               []domain.SaleReturnedItem{{ProductID: productID, Quantity: 1, Amount: 500}},
		Amount:              500,
		ProcessedAt:         time.Now(),
	}, domain.SaleStatusPartiallyRefunded))
	locked, err := credits.ListActiveByCustomerForUpdate(ctx, tx, customerID)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	require.NoError(t, credits.ApplyUsage(ctx, tx, &locked[0], domain.OverpaymentUsage{
		ID: uuid.New(), OverpaymentID: credit.ID, UsedAmount: 300, BalanceAfter: 500, UsedAt: time.Now(),
	}))
	_, err = NewInventoryRepo(s).AdjustStock(ctx, tx, productID, 2)
	require.NoError(t, err)

	before, err := credits.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, int64(800), before[0].Balance)

	require.NoError(t, tx.Commit(ctx))

	got, err := sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.ReturnSummary.TotalReturned)
	assert.Equal(t, domain.SaleStatusPartiallyRefunded, got.Status)

	after, err := credits.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(500), after[0].Balance)

	rec, _ := s.Inventory(productID)
	assert.Equal(t, 7, rec.CurrentStock)
}
