package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"returns-settlement-engine/internal/adapter/storage/memory"
	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/internal/core/ports/mocks"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// putSlip commits a slip for the fixture customer.
func (f *fixture) putSlip(t *testing.T, slipNo string, value int64, issuedAt, expiresAt time.Time) domain.ExchangeSlip {
	t.Helper()
	ctx := context.Background()
	customer := f.customer
	slip := domain.ExchangeSlip{
		ID:                  uuid.New(),
		SlipNo:              slipNo,
		SaleID:              f.sale.ID,
		ReturnTransactionID: uuid.New(),
		CustomerID:          &customer,
		Items:               []domain.SlipItem{{ProductID: f.lamp, Quantity: 1, ExchangeValue: value}},
		TotalValue:          value,
		IssuedAt:            issuedAt,
		ExpiresAt:           expiresAt,
		Status:              domain.SlipStatusActive,
		IssuedBy:            "cashier-1",
	}
	tx, err := memory.NewTransactor(f.store).Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, memory.NewSlipRepo(f.store).Create(ctx, tx, &slip))
	require.NoError(t, tx.Commit(ctx))
	return slip
}

func TestExchangeSlipService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older := f.putSlip(t, "EXS2501010001", 500, testNow.AddDate(0, -1, 0), testNow.AddDate(0, 0, -1))
	newer := f.putSlip(t, "EXS2501200001", 800, testNow.AddDate(0, 0, -3), testNow.AddDate(0, 0, 60))

	byID, err := f.slipSvc.SearchExchangeSlips(ctx, ports.SlipSearch{CustomerID: &f.customer})
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, newer.SlipNo, byID[0].SlipNo)
	assert.Equal(t, domain.SlipStatusActive, byID[0].Status)
	assert.Equal(t, older.SlipNo, byID[1].SlipNo)
	assert.Equal(t, domain.SlipStatusExpired, byID[1].Status, "past expiry is reported as expired")

	byPhone, err := f.slipSvc.SearchExchangeSlips(ctx, ports.SlipSearch{Phone: "0771234567"})
	require.NoError(t, err)
	assert.Equal(t, byID, byPhone)

	none, err := f.slipSvc.SearchExchangeSlips(ctx, ports.SlipSearch{Phone: "0000000000"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.slipSvc.SearchExchangeSlips(ctx, ports.SlipSearch{})
	assertAppError(t, err, apperror.CodeBadRequest)
}

func TestExchangeSlipService_RedeemExpired(t *testing.T) {
	f := newFixture(t)
	slip := f.putSlip(t, "EXS2412010001", 500, testNow.AddDate(0, -2, 0), testNow)

	_, err := f.slipSvc.RedeemExchangeSlip(context.Background(), slip.SlipNo, uuid.New(), "cashier-1")
	assertAppError(t, err, apperror.CodeSlipExpired)
}

func TestExchangeSlipService_RedeemUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.slipSvc.RedeemExchangeSlip(context.Background(), "EXS0000000000", uuid.New(), "cashier-1")
	assertAppError(t, err, apperror.CodeNotFound)
}

func TestExchangeSlipService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	byNumber := f.putSlip(t, "EXS2501220001", 700, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 89))
	byID := f.putSlip(t, "EXS2501220002", 300, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 89))

	cancelled, err := f.slipSvc.CancelExchangeSlip(ctx, byNumber.SlipNo, "manager-1", "issued in error")
	require.NoError(t, err)
	assert.Equal(t, domain.SlipStatusCancelled, cancelled.Status)
	assert.Equal(t, "manager-1", *cancelled.CancelledBy)
	assert.Equal(t, "issued in error", *cancelled.CancelReason)

	cancelled, err = f.slipSvc.CancelExchangeSlip(ctx, byID.ID.String(), "manager-1", "")
	require.NoError(t, err)
	assert.Nil(t, cancelled.CancelReason)

	// Terminal states stay terminal.
	_, err = f.slipSvc.RedeemExchangeSlip(ctx, byNumber.SlipNo, uuid.New(), "cashier-1")
	appErr := assertAppError(t, err, apperror.CodeSlipNotActive)
	assert.Contains(t, appErr.Message, "cancelled")

	_, err = f.slipSvc.CancelExchangeSlip(ctx, byID.SlipNo, "manager-1", "")
	assertAppError(t, err, apperror.CodeSlipNotActive)
}

func TestExchangeSlipService_CachesAndInvalidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	slipRepo := mocks.NewMockExchangeSlipRepository(ctrl)
	cache := mocks.NewMockLookupCache(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	transactor := mocks.NewMockDBTransactor(ctrl)
	svc := NewExchangeSlipService(slipRepo, nil, transactor, cache, notifier, time.Minute, newTestLogger())
	svc.now = fixedClock
	ctx := context.Background()

	customer := uuid.New()
	saleID := uuid.New()
	slip := domain.ExchangeSlip{
		ID: uuid.New(), SlipNo: "EXS2501230009", SaleID: saleID, CustomerID: &customer,
		TotalValue: 400, IssuedAt: testNow, ExpiresAt: testNow.AddDate(0, 0, 30), Status: domain.SlipStatusActive,
	}
	key := "slips:customer:" + customer.String()

	// Miss, then fill.
	cache.EXPECT().Get(ctx, key).Return(nil, nil)
	slipRepo.EXPECT().ListByCustomer(ctx, customer).Return([]domain.ExchangeSlip{slip}, nil)
	cache.EXPECT().Set(ctx, key, gomock.Any(), time.Minute, []string{customerTag(customer)}).Return(nil)

	found, err := svc.SearchExchangeSlips(ctx, ports.SlipSearch{CustomerID: &customer})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// Redeem invalidates sale and customer tags and notifies.
	tx := &mockTx{}
	locked := slip
	transactor.EXPECT().Begin(ctx).Return(tx, nil)
	slipRepo.EXPECT().GetBySlipNoForUpdate(ctx, tx, slip.SlipNo).Return(&locked, nil)
	slipRepo.EXPECT().Transition(ctx, tx, gomock.Any(), domain.SlipStatusActive).Return(true, nil)
	cache.EXPECT().Invalidate(ctx, []string{saleTag(saleID), customerTag(customer)}).Return(errors.New("redis down"))
	notifier.EXPECT().Notify(ctx, gomock.Any()).Do(func(_ context.Context, e domain.Event) {
		assert.Equal(t, domain.EventSlipRedeemed, e.Type)
		assert.Equal(t, slip.SlipNo, e.ResourceID)
	})

	redeemed, err := svc.RedeemExchangeSlip(ctx, slip.SlipNo, uuid.New(), "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SlipStatusRedeemed, redeemed.Status)
	assert.True(t, tx.committed)
}

func TestExchangeSlipService_LostCompareAndSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	slipRepo := mocks.NewMockExchangeSlipRepository(ctrl)
	transactor := mocks.NewMockDBTransactor(ctrl)
	svc := NewExchangeSlipService(slipRepo, nil, transactor, nil, nil, 0, newTestLogger())
	svc.now = fixedClock
	ctx := context.Background()
	tx := &mockTx{}

	slip := &domain.ExchangeSlip{ID: uuid.New(), SlipNo: "EXS1", Status: domain.SlipStatusActive, ExpiresAt: testNow.AddDate(0, 0, 1)}
	transactor.EXPECT().Begin(ctx).Return(tx, nil)
	slipRepo.EXPECT().GetBySlipNoForUpdate(ctx, tx, "EXS1").Return(slip, nil)
	slipRepo.EXPECT().Transition(ctx, tx, slip, domain.SlipStatusActive).Return(false, nil)

	_, err := svc.RedeemExchangeSlip(ctx, "EXS1", uuid.New(), "cashier-1")
	assertAppError(t, err, apperror.CodeSlipNotActive)
	assert.True(t, tx.rolledBack)
}
