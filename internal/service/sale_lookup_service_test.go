package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports/mocks"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type lookupTestDeps struct {
	svc          *SaleLookupServiceImpl
	saleRepo     *mocks.MockSaleRepository
	customerRepo *mocks.MockCustomerRepository
	productRepo  *mocks.MockProductRepository
	cache        *mocks.MockLookupCache
}

func setupLookupService(t *testing.T, withCache bool) *lookupTestDeps {
	ctrl := gomock.NewController(t)
	d := &lookupTestDeps{
		saleRepo:     mocks.NewMockSaleRepository(ctrl),
		customerRepo: mocks.NewMockCustomerRepository(ctrl),
		productRepo:  mocks.NewMockProductRepository(ctrl),
	}
	if withCache {
		d.cache = mocks.NewMockLookupCache(ctrl)
		d.svc = NewSaleLookupService(d.saleRepo, d.customerRepo, d.productRepo, d.cache, 5*time.Minute, newTestLogger())
	} else {
		d.svc = NewSaleLookupService(d.saleRepo, d.customerRepo, d.productRepo, nil, 5*time.Minute, newTestLogger())
	}
	return d
}

func TestSaleLookup_ResolvesCriteria(t *testing.T) {
	d := setupLookupService(t, false)
	ctx := context.Background()
	customers := []uuid.UUID{uuid.New(), uuid.New()}
	products := []uuid.UUID{uuid.New()}
	from := testNow.AddDate(0, 0, -7)

	d.customerRepo.EXPECT().FindIDs(ctx, domain.CustomerFilter{Phone: "0771234567"}).Return(customers, nil)
	d.productRepo.EXPECT().FindIDsByName(ctx, "lamp").Return(products, nil)
	d.saleRepo.EXPECT().Search(ctx, domain.SaleSearch{
		InvoiceNo:   "INV-1",
		CustomerIDs: customers,
		ProductIDs:  products,
		From:        &from,
		Limit:       50,
	}).Return([]domain.Sale{{ID: uuid.New(), InvoiceNo: "INV-1"}}, nil)

	sales, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{
		InvoiceNo:   " INV-1 ",
		Customer:    domain.CustomerFilter{Phone: "0771234567"},
		ProductName: "lamp ",
		From:        &from,
	})
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSaleLookup_NoMatchingCustomerShortCircuits(t *testing.T) {
	d := setupLookupService(t, false)
	ctx := context.Background()

	d.customerRepo.EXPECT().FindIDs(ctx, domain.CustomerFilter{Name: "nobody"}).Return([]uuid.UUID{}, nil)

	sales, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{Customer: domain.CustomerFilter{Name: "nobody"}})
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)
}

func TestSaleLookup_BadCriteria(t *testing.T) {
	d := setupLookupService(t, false)
	ctx := context.Background()
	from := testNow
	to := testNow.AddDate(0, 0, -1)

	_, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{InvoiceNo: "  "})
	assertAppError(t, err, apperror.CodeBadRequest)

	_, err = d.svc.LookupSales(ctx, domain.SaleLookupCriteria{From: &from, To: &to})
	assertAppError(t, err, apperror.CodeBadRequest)
}

func TestSaleLookup_LimitClamped(t *testing.T) {
	d := setupLookupService(t, false)
	ctx := context.Background()

	d.saleRepo.EXPECT().Search(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, q domain.SaleSearch) ([]domain.Sale, error) {
		assert.Equal(t, maxLookupLimit, q.Limit)
		return nil, nil
	})

	sales, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{InvoiceNo: "INV", Limit: 10000})
	require.NoError(t, err)
	assert.NotNil(t, sales)
}

func TestSaleLookup_CacheHitAndFill(t *testing.T) {
	d := setupLookupService(t, true)
	ctx := context.Background()
	customer := uuid.New()
	sale := domain.Sale{ID: uuid.New(), InvoiceNo: "INV-9", CustomerID: &customer}
	criteria := domain.SaleLookupCriteria{InvoiceNo: "INV-9"}
	key := cacheKey("sales", domain.SaleLookupCriteria{InvoiceNo: "INV-9", Limit: 50})

	d.cache.EXPECT().Get(ctx, key).Return(nil, nil)
	d.saleRepo.EXPECT().Search(ctx, gomock.Any()).Return([]domain.Sale{sale}, nil)
	d.cache.EXPECT().Set(ctx, key, gomock.Any(), 5*time.Minute, []string{saleTag(sale.ID), customerTag(customer)}).Return(nil)

	first, err := d.svc.LookupSales(ctx, criteria)
	require.NoError(t, err)

	raw, err := json.Marshal(first)
	require.NoError(t, err)
	d.cache.EXPECT().Get(ctx, key).Return(raw, nil)

	second, err := d.svc.LookupSales(ctx, criteria)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, sale.ID, second[0].ID)
}

func TestSaleLookup_CacheFailureFallsThrough(t *testing.T) {
	d := setupLookupService(t, true)
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, errors.New("redis down"))
	d.saleRepo.EXPECT().Search(ctx, gomock.Any()).Return([]domain.Sale{}, nil)

	sales, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{InvoiceNo: "INV-404"})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSaleLookup_StoreFailure(t *testing.T) {
	d := setupLookupService(t, false)
	ctx := context.Background()

	d.saleRepo.EXPECT().Search(ctx, gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := d.svc.LookupSales(ctx, domain.SaleLookupCriteria{InvoiceNo: "INV"})
	assertAppError(t, err, apperror.CodeInternal)
}
