package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"returns-settlement-engine/internal/adapter/storage/memory"
	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mockTx implements pgx.Tx for testing. Begin hands out a nested mockTx so
// savepoints work.
type mockTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (m *mockTx) Begin(_ context.Context) (pgx.Tx, error) { return &mockTx{}, nil }
func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}
func (m *mockTx) Commit(_ context.Context) error {
	m.committed = true
	return nil
}

func assertAppError(t *testing.T, err error, code string) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, "unexpected error: %v", appErr)
	return appErr
}

var testNow = time.Date(2025, 1, 23, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fixture is a sale of two products with a customer, on an in-process store.
type fixture struct {
	store     *memory.Store
	sale      domain.Sale
	customer  uuid.UUID
	lamp      uuid.UUID
	kettle    uuid.UUID
	policy    domain.ReturnPolicy
	returnSvc *ReturnServiceImpl
	slipSvc   *ExchangeSlipServiceImpl
	creditSvc *OverpaymentServiceImpl
}

// newFixture seeds: lamp x2 at 4500, kettle x1 at 6000, sold 3 days ago,
// stock 10 each, under a 30-day policy allowing every method.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.New(),
		customer: uuid.New(),
		lamp:     uuid.New(),
		kettle:   uuid.New(),
	}

	f.store.PutCustomer(domain.Customer{ID: f.customer, Name: "Nimal Perera", Phone: "0771234567"})
	f.store.PutProduct(f.lamp, "Desk Lamp", nil)
	f.store.PutProduct(f.kettle, "Electric Kettle", nil)
	f.store.PutInventory(domain.InventoryRecord{ProductID: f.lamp, CurrentStock: 10, AvailableStock: 10})
	f.store.PutInventory(domain.InventoryRecord{ProductID: f.kettle, CurrentStock: 10, AvailableStock: 10})

	customer := f.customer
	f.sale = domain.Sale{
		ID:         uuid.New(),
		InvoiceNo:  "INV-250120-0001",
		CustomerID: &customer,
		SaleDate:   testNow.AddDate(0, 0, -3),
		Items: []domain.SaleItem{
			{ProductID: f.lamp, ProductName: "Desk Lamp", Quantity: 2, UnitPrice: 4500, LineTotal: 9000},
			{ProductID: f.kettle, ProductName: "Electric Kettle", Quantity: 1, UnitPrice: 6000, LineTotal: 6000},
		},
		Total:  15000,
		Status: domain.SaleStatusCompleted,
	}
	f.store.PutSale(f.sale)

	f.policy = domain.ReturnPolicy{
		ID:           uuid.New(),
		Name:         "Standard",
		Active:       true,
		Priority:     10,
		ReturnWindow: domain.ReturnWindow{Days: 30},
		RefundMethods: domain.RefundMethodPolicy{
			AllowCash: true, AllowCard: true, AllowBankTransfer: true,
			AllowDigitalWallet: true, AllowStoreCredit: true, AllowExchange: true,
		},
		StockHandling: domain.StockHandling{AutoRestock: true},
		ApplicableTo:  domain.Applicability{AllProducts: true},
	}
	f.store.PutPolicy(f.policy)

	f.build(nil, nil)
	return f
}

// build (re)wires the services against the store.
func (f *fixture) build(authorizer *ManagerPINAuthorizer, notifier *recordingNotifier) {
	s := f.store
	deps := ReturnDeps{
		SaleRepo:    memory.NewSaleRepo(s),
		PolicyRepo:  memory.NewPolicyRepo(s),
		ReturnRepo:  memory.NewReturnRepo(s),
		SlipRepo:    memory.NewSlipRepo(s),
		CreditRepo:  memory.NewOverpaymentRepo(s),
		InvRepo:     memory.NewInventoryRepo(s),
		BarcodeRepo: memory.NewBarcodeRepo(s),
		SeqRepo:     memory.NewSequenceRepo(s),
		IdempRepo:   memory.NewIdempotencyRepo(s),
		InFlight:    memory.NewInFlightGuard(),
		Transactor:  memory.NewTransactor(s),
	}
	if authorizer != nil {
		deps.Authorizer = authorizer
	}
	if notifier != nil {
		deps.Notifier = notifier
	}

	f.returnSvc = NewReturnService(deps, ReturnSettings{
		ReturnPrefix:     "RET",
		SlipPrefix:       "EXS",
		SlipValidityDays: 90,
		IdempotencyTTL:   time.Hour,
		InFlightTTL:      time.Minute,
	}, newTestLogger())
	f.returnSvc.now = fixedClock
	f.returnSvc.validator.now = fixedClock

	f.slipSvc = NewExchangeSlipService(memory.NewSlipRepo(s), memory.NewCustomerRepo(s), memory.NewTransactor(s), nil, nil, time.Minute, newTestLogger())
	f.slipSvc.now = fixedClock

	f.creditSvc = NewOverpaymentService(memory.NewOverpaymentRepo(s), memory.NewCustomerRepo(s), memory.NewTransactor(s), nil, nil, newTestLogger())
	f.creditSvc.now = fixedClock
}

func (f *fixture) currentSale(t *testing.T) *domain.Sale {
	t.Helper()
	sale, err := memory.NewSaleRepo(f.store).GetByID(context.Background(), f.sale.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	return sale
}

func (f *fixture) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	rec, ok := f.store.Inventory(productID)
	require.True(t, ok)
	return rec.CurrentStock
}

// recordingNotifier collects events synchronously.
type recordingNotifier struct {
	events chan domain.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan domain.Event, 16)}
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.Event) {
	n.events <- event
}
