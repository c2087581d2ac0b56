package service

import (
	"context"
	"errors"
	"testing"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/internal/core/ports/mocks"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type validatorCase struct {
	validator  *ReturnValidator
	returnRepo *mocks.MockReturnRepository
	sale       *domain.Sale
	policy     *domain.ReturnPolicy
	shirt      uuid.UUID
	socks      uuid.UUID
}

// newValidatorCase: shirt x2 @ 2500, socks x4 @ 500, sold 10 days ago.
func newValidatorCase(t *testing.T) *validatorCase {
	ctrl := gomock.NewController(t)
	c := &validatorCase{
		returnRepo: mocks.NewMockReturnRepository(ctrl),
		shirt:      uuid.New(),
		socks:      uuid.New(),
	}
	c.validator = NewReturnValidator(mocks.NewMockSaleRepository(ctrl), c.returnRepo, nil)
	c.validator.now = fixedClock

	c.sale = &domain.Sale{
		ID:        uuid.New(),
		InvoiceNo: "INV-250113-0100",
		SaleDate:  testNow.AddDate(0, 0, -10),
		Items: []domain.SaleItem{
			{ProductID: c.shirt, ProductName: "Shirt", Quantity: 2, UnitPrice: 2500},
			{ProductID: c.socks, ProductName: "Socks", Quantity: 4, UnitPrice: 500},
		},
		Total:  7000,
		Status: domain.SaleStatusCompleted,
	}
	c.policy = domain.DefaultReturnPolicy()
	return c
}

func (c *validatorCase) check(t *testing.T, req ports.ReturnRequest) *checkedReturn {
	t.Helper()
	req.SaleID = c.sale.ID
	if req.ReturnType == "" {
		req.ReturnType = domain.ReturnTypePartial
	}
	if req.RefundMethod == "" {
		req.RefundMethod = domain.RefundMethodCash
	}
	checked, err := c.validator.check(context.Background(), req, c.sale, c.policy)
	require.NoError(t, err)
	return checked
}

func TestValidator_PricesItems(t *testing.T) {
	c := newValidatorCase(t)

	checked := c.check(t, ports.ReturnRequest{
		Items: []ports.ReturnRequestItem{
			{ProductID: c.shirt, Quantity: 1},
			{ProductID: c.socks, Quantity: 2, ReturnAmount: 800, Disposition: domain.DispositionWriteOff},
		},
		Discount: 300,
	})

	require.True(t, checked.result.Valid, checked.result.Errors)
	assert.Equal(t, int64(3300), checked.subtotal)
	assert.Equal(t, int64(3000), checked.total)
	assert.Equal(t, int64(3000), checked.result.TotalAmount)
	require.Len(t, checked.items, 2)
	assert.Equal(t, int64(2500), checked.items[0].ReturnAmount)
	assert.Equal(t, int64(2500), checked.items[0].OriginalPrice)
	assert.Equal(t, domain.DispositionRestock, checked.items[0].Disposition)
	assert.Equal(t, domain.DispositionWriteOff, checked.items[1].Disposition)
	assert.Equal(t, "Shirt", checked.items[0].ProductName)
	assert.Empty(t, checked.result.Warnings)
	assert.False(t, checked.result.RequiresApproval)
}

func TestValidator_CollectsEveryError(t *testing.T) {
	c := newValidatorCase(t)
	stranger := uuid.New()

	checked := c.check(t, ports.ReturnRequest{
		ReturnType:   "swap",
		RefundMethod: "cheque",
		Items: []ports.ReturnRequestItem{
			{ProductID: stranger, Quantity: 1},
			{ProductID: c.shirt, Quantity: 0},
			{ProductID: c.socks, Quantity: 5},
			{ProductID: c.shirt, Quantity: 1, Disposition: "recycle"},
		},
		Discount: -5,
	})

	assert.False(t, checked.result.Valid)
	assert.Len(t, checked.result.Errors, 7)
	errs := checked.result.Errors
	assert.Contains(t, errs[0], `unknown return type "swap"`)
	assert.Contains(t, errs[1], "is not part of sale")
	assert.Contains(t, errs[2], "quantity for Shirt must be positive")
	assert.Contains(t, errs[3], "only 4 available")
	assert.Contains(t, errs[4], `unknown disposition "recycle"`)
	assert.Contains(t, errs[5], "discount must not be negative")
	assert.Contains(t, errs[6], `unknown refund method "cheque"`)
}

func TestValidator_RepeatedProductSharesQuantity(t *testing.T) {
	c := newValidatorCase(t)

	checked := c.check(t, ports.ReturnRequest{
		Items: []ports.ReturnRequestItem{
			{ProductID: c.socks, Quantity: 3},
			{ProductID: c.socks, Quantity: 2},
		},
	})

	assert.False(t, checked.result.Valid)
	require.Len(t, checked.result.Errors, 1)
	assert.Contains(t, checked.result.Errors[0], "cannot return 2 of Socks")
	assert.Contains(t, checked.result.Errors[0], "only 1 available")
}

func TestValidator_AmountAboveUnitPriceWarns(t *testing.T) {
	c := newValidatorCase(t)

	checked := c.check(t, ports.ReturnRequest{
		Items: []ports.ReturnRequestItem{{ProductID: c.socks, Quantity: 1, ReturnAmount: 700}},
	})

	assert.True(t, checked.result.Valid)
	require.Len(t, checked.result.Warnings, 1)
	assert.Contains(t, checked.result.Warnings[0], "exceeds unit price x quantity (500)")
	assert.Equal(t, int64(700), checked.total)
}

func TestValidator_NegativeAmountAndOversizedDiscount(t *testing.T) {
	c := newValidatorCase(t)

	checked := c.check(t, ports.ReturnRequest{
		Items: []ports.ReturnRequestItem{
			{ProductID: c.socks, Quantity: 1, ReturnAmount: -1},
			{ProductID: c.shirt, Quantity: 1},
		},
		Discount: 2600,
	})

	assert.False(t, checked.result.Valid)
	assert.Contains(t, checked.result.Errors[0], "must not be negative")
	assert.Contains(t, checked.result.Errors[1], "discount 2600 exceeds the return subtotal 2500")
}

func TestValidator_ReturnWindow(t *testing.T) {
	c := newValidatorCase(t)
	c.policy.ReturnWindow.Days = 7
	req := ports.ReturnRequest{Items: []ports.ReturnRequestItem{{ProductID: c.shirt, Quantity: 1}}}

	checked := c.check(t, req)
	assert.False(t, checked.result.Valid)
	assert.Equal(t, []string{"return window of 7 days exceeded (10 days since sale)"}, checked.result.Errors)

	req.ManagerOverride = true
	checked = c.check(t, req)
	assert.True(t, checked.result.Valid)
	assert.True(t, checked.result.RequiresApproval)
	assert.Contains(t, checked.result.Warnings[0], "manager override applied")
	assert.Equal(t, checked.result.Warnings, checked.approval)

	c.policy.ReturnWindow.Days = 0
	req.ManagerOverride = false
	checked = c.check(t, req)
	assert.True(t, checked.result.Valid, "zero-day window means unlimited")
}

func TestValidator_Receipt(t *testing.T) {
	c := newValidatorCase(t)
	c.policy.Approval.RequireReceipt = true
	req := ports.ReturnRequest{Items: []ports.ReturnRequestItem{{ProductID: c.socks, Quantity: 1}}}

	assert.False(t, c.check(t, req).result.Valid)

	req.ReceiptPresented = true
	assert.True(t, c.check(t, req).result.Valid)

	req.ReceiptPresented = false
	req.ManagerOverride = true
	checked := c.check(t, req)
	assert.True(t, checked.result.Valid)
	assert.True(t, checked.result.RequiresApproval)
}

func TestValidator_ApprovalThresholdUsesSubtotal(t *testing.T) {
	c := newValidatorCase(t)
	c.policy.Approval.ManagerApprovalThreshold = 4000

	checked := c.check(t, ports.ReturnRequest{
		Items:    []ports.ReturnRequestItem{{ProductID: c.shirt, Quantity: 2}},
		Discount: 2000,
	})

	assert.True(t, checked.result.Valid)
	assert.True(t, checked.result.RequiresApproval)
	assert.Equal(t, []string{"return amount 5000 exceeds the manager approval threshold 4000"}, checked.approval)
}

func TestValidator_RefundMethodFlags(t *testing.T) {
	c := newValidatorCase(t)
	customer := uuid.New()
	c.sale.CustomerID = &customer
	c.policy.RefundMethods = domain.RefundMethodPolicy{AllowCard: true}

	tests := []struct {
		method  domain.RefundMethod
		allowed bool
	}{
		{domain.RefundMethodCash, false},
		{domain.RefundMethodCard, true},
		{domain.RefundMethodBankTransfer, false},
		{domain.RefundMethodDigitalWallet, false},
		{domain.RefundMethodStoreCredit, false},
		{domain.RefundMethodOverpayment, false},
		{domain.RefundMethodExchangeSlip, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			req := ports.ReturnRequest{
				RefundMethod: tt.method,
				Items:        []ports.ReturnRequestItem{{ProductID: c.socks, Quantity: 1}},
			}
			checked := c.check(t, req)
			assert.Equal(t, tt.allowed, checked.result.Valid, checked.result.Errors)

			req.ManagerOverride = true
			checked = c.check(t, req)
			assert.True(t, checked.result.Valid)
			assert.Equal(t, !tt.allowed, checked.result.RequiresApproval)
		})
	}
}

func TestValidator_SlipNeedsPositiveTotal(t *testing.T) {
	c := newValidatorCase(t)

	checked := c.check(t, ports.ReturnRequest{
		RefundMethod: domain.RefundMethodExchangeSlip,
		Items:        []ports.ReturnRequestItem{{ProductID: c.socks, Quantity: 1}},
		Discount:     500,
	})

	assert.False(t, checked.result.Valid)
	assert.Contains(t, checked.result.Errors[0], "needs a positive settlement amount")
}

func TestValidator_RemainingRefundable(t *testing.T) {
	c := newValidatorCase(t)
	c.sale.Status = domain.SaleStatusPartiallyRefunded
	c.sale.ReturnSummary.TotalReturned = 6000

	checked := c.check(t, ports.ReturnRequest{
		Items: []ports.ReturnRequestItem{{ProductID: c.shirt, Quantity: 1}},
	})

	assert.False(t, checked.result.Valid)
	assert.Equal(t, []string{"return total 2500 exceeds the remaining refundable amount 1000"}, checked.result.Errors)
}

func TestValidator_CustomerLimits(t *testing.T) {
	customer := uuid.New()
	since := testNow.AddDate(0, 0, -30)

	tests := []struct {
		name   string
		stats  *domain.CustomerReturnStats
		errors int
	}{
		{"under both limits", &domain.CustomerReturnStats{Count: 2, Amount: 1000}, 0},
		{"count reached", &domain.CustomerReturnStats{Count: 3, Amount: 0}, 1},
		{"amount exceeded", &domain.CustomerReturnStats{Count: 0, Amount: 8000}, 1},
		{"both", &domain.CustomerReturnStats{Count: 5, Amount: 9000}, 2},
		{"no history", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newValidatorCase(t)
			c.sale.CustomerID = &customer
			c.policy.Restrictions = domain.CustomerLimits{
				MaxReturnsPerCustomer:      3,
				MaxReturnAmountPerCustomer: 10000,
				PeriodDays:                 30,
			}
			c.returnRepo.EXPECT().CustomerStats(gomock.Any(), customer, since).Return(tt.stats, nil)

			checked := c.check(t, ports.ReturnRequest{
				Items: []ports.ReturnRequestItem{{ProductID: c.shirt, Quantity: 1}},
			})
			assert.Len(t, checked.result.Errors, tt.errors)
		})
	}
}

func TestValidator_CustomerLimitsStoreFailure(t *testing.T) {
	c := newValidatorCase(t)
	customer := uuid.New()
	c.sale.CustomerID = &customer
	c.policy.Restrictions = domain.CustomerLimits{MaxReturnsPerCustomer: 1, PeriodDays: 7}
	c.returnRepo.EXPECT().CustomerStats(gomock.Any(), customer, gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := c.validator.check(context.Background(), ports.ReturnRequest{
		ReturnType:   domain.ReturnTypePartial,
		RefundMethod: domain.RefundMethodCash,
		Items:        []ports.ReturnRequestItem{{ProductID: c.shirt, Quantity: 1}},
	}, c.sale, c.policy)
	assertAppError(t, err, apperror.CodeInternal)
}

func TestValidator_FullyRefundedSale(t *testing.T) {
	c := newValidatorCase(t)
	c.sale.Status = domain.SaleStatusRefunded

	checked := c.check(t, ports.ReturnRequest{})

	assert.False(t, checked.result.Valid)
	assert.Contains(t, checked.result.Errors[0], "already fully refunded")
	assert.Contains(t, checked.result.Errors[1], "at least one item")
}
