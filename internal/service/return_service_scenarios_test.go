package service

import (
	"context"
	"sync"
	"testing"

	"returns-settlement-engine/internal/adapter/storage/memory"
	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addSale seeds a customer sale of X qty 3 @ 100 and Y qty 2 @ 200.
func (f *fixture) addSale(t *testing.T) (domain.Sale, uuid.UUID, uuid.UUID) {
	t.Helper()
	x, y := uuid.New(), uuid.New()
	f.store.PutInventory(domain.InventoryRecord{ProductID: x, CurrentStock: 5, AvailableStock: 5})
	f.store.PutInventory(domain.InventoryRecord{ProductID: y, CurrentStock: 5, AvailableStock: 5})

	customer := f.customer
	sale := domain.Sale{
		ID:         uuid.New(),
		InvoiceNo:  "INV-250122-0042",
		CustomerID: &customer,
		SaleDate:   testNow.AddDate(0, 0, -1),
		Items: []domain.SaleItem{
			{ProductID: x, ProductName: "Product X", Quantity: 3, UnitPrice: 100, LineTotal: 300},
			{ProductID: y, ProductName: "Product Y", Quantity: 2, UnitPrice: 200, LineTotal: 400},
		},
		Total: 700,
	}
	f.store.PutSale(sale)
	return sale, x, y
}

func saleByID(t *testing.T, f *fixture, id uuid.UUID) *domain.Sale {
	t.Helper()
	sale, err := memory.NewSaleRepo(f.store).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sale)
	return sale
}

func TestProcessReturn_PartialThenFullRefund(t *testing.T) {
	f := newFixture(t)
	sale, x, y := f.addSale(t)
	ctx := context.Background()

	// First return: one unit of X, cash.
	res, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: x, Quantity: 1, ReturnAmount: 100}},
	}, "cashier-1")
	require.NoError(t, err)

	rt := res.ReturnTransaction
	assert.Equal(t, int64(100), rt.TotalAmount)
	assert.Equal(t, "RET2501230001", rt.ReturnNumber)
	assert.Equal(t, domain.ReturnStatusProcessed, rt.Status)
	assert.Equal(t, domain.SaleStatusPartiallyRefunded, res.SaleStatus)
	assert.Nil(t, res.ExchangeSlip)
	assert.Nil(t, res.Overpayment)

	current := saleByID(t, f, sale.ID)
	assert.Equal(t, int64(100), current.ReturnSummary.TotalReturned)
	assert.Equal(t, domain.SaleStatusPartiallyRefunded, current.Status)
	require.Len(t, current.Returns, 1)
	assert.Equal(t, rt.ID, current.Returns[0].ReturnTransactionID)
	assert.Equal(t, 6, f.stock(t, x))

	// Asking for more X than remains is rejected without touching anything.
	verdict, err := f.returnSvc.ValidateReturn(ctx, ports.ReturnRequest{
		SaleID:       sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: x, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	require.NotEmpty(t, verdict.Errors)
	assert.Contains(t, verdict.Errors[0], "Product X")
	assert.Contains(t, verdict.Errors[0], "only 2 available")
	assert.Equal(t, int64(100), saleByID(t, f, sale.ID).ReturnSummary.TotalReturned)

	// Second return takes everything left as store credit.
	res, err = f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodStoreCredit,
		Items: []ports.ReturnRequestItem{
			{ProductID: x, Quantity: 2, ReturnAmount: 200},
			{ProductID: y, Quantity: 2, ReturnAmount: 400},
		},
	}, "cashier-1")
	require.NoError(t, err)
	require.NotNil(t, res.Overpayment)
	assert.Equal(t, int64(600), res.Overpayment.Amount)
	assert.Equal(t, int64(600), res.Overpayment.Balance)
	assert.Equal(t, domain.OverpaymentStatusActive, res.Overpayment.Status)
	assert.Equal(t, res.Overpayment.ID, *res.ReturnTransaction.OverpaymentID)
	assert.Equal(t, domain.SaleStatusRefunded, res.SaleStatus)
	assert.Equal(t, "RET2501230002", res.ReturnTransaction.ReturnNumber)

	current = saleByID(t, f, sale.ID)
	assert.Equal(t, int64(700), current.ReturnSummary.TotalReturned)
	assert.Equal(t, 5, current.ReturnSummary.TotalReturnedItems)
	assert.Equal(t, domain.SaleStatusRefunded, current.Status)

	balance, err := f.creditSvc.ListCredits(ctx, f.customer)
	require.NoError(t, err)
	assert.Equal(t, int64(600), balance.Available)

	// A refunded sale accepts nothing more.
	_, err = f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: y, Quantity: 1}},
	}, "cashier-1")
	appErr := assertAppError(t, err, apperror.CodeValidation)
	assert.Contains(t, appErr.Details[0], "already fully refunded")
}

func TestProcessReturn_ExchangeSlipRedeemedOnce(t *testing.T) {
	f := newFixture(t)
	sale, x, _ := f.addSale(t)
	ctx := context.Background()

	res, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       sale.ID,
		ReturnType:   domain.ReturnTypeExchange,
		RefundMethod: domain.RefundMethodExchangeSlip,
		Items:        []ports.ReturnRequestItem{{ProductID: x, Quantity: 3}},
	}, "cashier-2")
	require.NoError(t, err)

	slip := res.ExchangeSlip
	require.NotNil(t, slip)
	assert.Equal(t, int64(300), slip.TotalValue)
	assert.Equal(t, "EXS2501230001", slip.SlipNo)
	assert.Equal(t, testNow.AddDate(0, 0, 90), slip.ExpiresAt)
	assert.Equal(t, res.ReturnTransaction.ID, slip.ReturnTransactionID)
	assert.Equal(t, slip.ID, *res.ReturnTransaction.ExchangeSlipID)

	newSale := uuid.New()
	redeemed, err := f.slipSvc.RedeemExchangeSlip(ctx, slip.SlipNo, newSale, "cashier-3")
	require.NoError(t, err)
	assert.Equal(t, domain.SlipStatusRedeemed, redeemed.Status)
	assert.Equal(t, newSale, *redeemed.RedeemedSaleID)

	_, err = f.slipSvc.RedeemExchangeSlip(ctx, slip.SlipNo, uuid.New(), "cashier-3")
	assertAppError(t, err, apperror.CodeSlipNotActive)
}

func TestProcessReturn_ApprovalThreshold(t *testing.T) {
	f := newFixture(t)
	f.policy.Approval.ManagerApprovalThreshold = 5000
	f.store.PutPolicy(f.policy)

	hasher := fastPINHasher()
	pinHash, err := hasher.Hash("2468")
	require.NoError(t, err)
	f.build(NewManagerPINAuthorizer(hasher, pinHash, newTestLogger()), nil)
	ctx := context.Background()

	req := ports.ReturnRequest{
		SaleID:       f.sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCard,
		Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 2}},
	}

	_, err = f.returnSvc.ProcessReturn(ctx, req, "cashier-1")
	appErr := assertAppError(t, err, apperror.CodeApprovalRequired)
	assert.Contains(t, appErr.Details[0], "manager approval threshold")

	req.ManagerOverride = true
	req.ManagerPIN = "1357"
	_, err = f.returnSvc.ProcessReturn(ctx, req, "cashier-1")
	assertAppError(t, err, "AUTH_005")
	assert.Empty(t, f.currentSale(t).Returns)

	req.ManagerPIN = "2468"
	res, err := f.returnSvc.ProcessReturn(ctx, req, "manager-1")
	require.NoError(t, err)
	assert.True(t, res.ReturnTransaction.RequiresApproval)
	require.NotNil(t, res.ReturnTransaction.ApprovedBy)
	assert.Equal(t, "manager-1", *res.ReturnTransaction.ApprovedBy)
	assert.Equal(t, int64(9000), res.ReturnTransaction.TotalAmount)
	assert.NotEmpty(t, res.Warnings)
}

func TestProcessReturn_FailedSettlementLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	walkIn := domain.Sale{
		ID:        uuid.New(),
		InvoiceNo: "INV-250123-0009",
		SaleDate:  testNow,
		Items: []domain.SaleItem{
			{ProductID: f.lamp, ProductName: "Desk Lamp", Quantity: 1, UnitPrice: 4500, LineTotal: 4500},
		},
		Total: 4500,
	}
	f.store.PutSale(walkIn)
	ctx := context.Background()

	// Store credit needs a customer; the strategy fails after numbering.
	_, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       walkIn.ID,
		ReturnType:   domain.ReturnTypeFull,
		RefundMethod: domain.RefundMethodStoreCredit,
		Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 1}},
	}, "cashier-1")
	assertAppError(t, err, apperror.CodeConfiguration)

	assert.Equal(t, 10, f.stock(t, f.lamp))
	assert.Empty(t, saleByID(t, f, walkIn.ID).Returns)
	assert.Empty(t, f.store.StockMovements())

	// The number handed out inside the failed unit of work is reused.
	res, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       walkIn.ID,
		ReturnType:   domain.ReturnTypeFull,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 1}},
	}, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, "RET2501230001", res.ReturnTransaction.ReturnNumber)
	assert.Equal(t, domain.SaleStatusRefunded, res.SaleStatus)
}

func TestProcessReturn_DispositionDrivesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
		SaleID:       f.sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items: []ports.ReturnRequestItem{
			{ProductID: f.lamp, Quantity: 2, Reason: "unwanted"},
			{ProductID: f.kettle, Quantity: 1, Reason: "cracked lid", Disposition: domain.DispositionDamaged},
		},
	}, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusRefunded, res.SaleStatus)

	assert.Equal(t, 12, f.stock(t, f.lamp))
	assert.Equal(t, 10, f.stock(t, f.kettle))

	movements := f.store.StockMovements()
	require.Len(t, movements, 2)
	byProduct := map[uuid.UUID]domain.StockMovement{}
	for _, m := range movements {
		byProduct[m.ProductID] = m
		assert.Equal(t, res.ReturnTransaction.ID, m.ReferenceID)
		assert.Equal(t, domain.ReferenceTypeReturnTransaction, m.ReferenceType)
		assert.Equal(t, m.PreviousStock+m.Quantity, m.NewStock)
	}
	assert.Equal(t, domain.MovementReturnRestock, byProduct[f.lamp].Type)
	assert.Equal(t, 2, byProduct[f.lamp].Quantity)
	assert.Equal(t, domain.MovementReturnDamaged, byProduct[f.kettle].Type)
	assert.Equal(t, 0, byProduct[f.kettle].Quantity)
	assert.Contains(t, byProduct[f.kettle].Reason, "cracked lid")
}

func TestProcessReturn_TracksSoldBarcodes(t *testing.T) {
	f := newFixture(t)
	saleID := f.sale.ID
	units := []uuid.UUID{uuid.New(), uuid.New()}
	for i, id := range units {
		f.store.PutBarcode(domain.UnitBarcode{
			ID:        id,
			Barcode:   "LAMP-000" + string(rune('1'+i)),
			ProductID: f.lamp,
			SaleID:    &saleID,
			Status:    domain.BarcodeStatusSold,
		})
	}

	res, err := f.returnSvc.ProcessReturn(context.Background(), ports.ReturnRequest{
		SaleID:       f.sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 1, Reason: "flicker"}},
	}, "cashier-1")
	require.NoError(t, err)

	returned := 0
	for _, id := range units {
		b, ok := f.store.Barcode(id)
		require.True(t, ok)
		if b.Status == domain.BarcodeStatusReturned {
			returned++
			assert.Equal(t, res.ReturnTransaction.ID, *b.ReturnTransactionID)
			assert.Equal(t, "flicker", *b.ReturnReason)
		}
	}
	assert.Equal(t, 1, returned)
}

func TestProcessReturn_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := ports.ReturnRequest{
		SaleID:         f.sale.ID,
		ReturnType:     domain.ReturnTypePartial,
		RefundMethod:   domain.RefundMethodCash,
		Items:          []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 1}},
		IdempotencyKey: "pos-7-000123",
	}

	first, err := f.returnSvc.ProcessReturn(ctx, req, "cashier-1")
	require.NoError(t, err)
	second, err := f.returnSvc.ProcessReturn(ctx, req, "cashier-1")
	require.NoError(t, err)

	assert.Equal(t, first.ReturnTransaction.ID, second.ReturnTransaction.ID)
	assert.Equal(t, first.ReturnTransaction.ReturnNumber, second.ReturnTransaction.ReturnNumber)
	assert.Len(t, f.currentSale(t).Returns, 1)
	assert.Equal(t, 11, f.stock(t, f.lamp))

	// The key is scoped to the staff member.
	third, err := f.returnSvc.ProcessReturn(ctx, req, "cashier-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ReturnTransaction.ID, third.ReturnTransaction.ID)
	assert.Len(t, f.currentSale(t).Returns, 2)
}

func TestProcessReturn_ConcurrentReturnsOnOneSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.returnSvc.ProcessReturn(ctx, ports.ReturnRequest{
				SaleID:       f.sale.ID,
				ReturnType:   domain.ReturnTypePartial,
				RefundMethod: domain.RefundMethodCash,
				Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 2}},
			}, "cashier-1")

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if appErr, ok := err.(*apperror.AppError); ok && appErr.Code == apperror.CodeValidation {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	sale := f.currentSale(t)
	assert.Len(t, sale.Returns, 1)
	assert.Equal(t, int64(9000), sale.ReturnSummary.TotalReturned)
	assert.Equal(t, 12, f.stock(t, f.lamp))
}

func TestProcessReturn_NotifiesAfterCommit(t *testing.T) {
	f := newFixture(t)
	notifier := newRecordingNotifier()
	f.build(nil, notifier)

	res, err := f.returnSvc.ProcessReturn(context.Background(), ports.ReturnRequest{
		SaleID:       f.sale.ID,
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: f.kettle, Quantity: 1}},
	}, "cashier-1")
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	event := <-notifier.events
	assert.Equal(t, domain.EventReturnProcessed, event.Type)
	assert.Equal(t, res.ReturnTransaction.ReturnNumber, event.ResourceID)
	assert.Equal(t, f.customer, *event.CustomerID)
}

func TestProcessReturn_RequiresActor(t *testing.T) {
	f := newFixture(t)
	_, err := f.returnSvc.ProcessReturn(context.Background(), ports.ReturnRequest{SaleID: f.sale.ID}, "")
	assertAppError(t, err, apperror.CodeBadRequest)
}

func TestProcessReturn_UnknownSale(t *testing.T) {
	f := newFixture(t)
	_, err := f.returnSvc.ProcessReturn(context.Background(), ports.ReturnRequest{
		SaleID:       uuid.New(),
		ReturnType:   domain.ReturnTypeFull,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: f.lamp, Quantity: 1}},
	}, "cashier-1")
	assertAppError(t, err, apperror.CodeNotFound)
}
