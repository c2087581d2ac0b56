package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productX = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	productY = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func twoLineSale() *Sale {
	return &Sale{
		ID:        uuid.New(),
		InvoiceNo: "INV-0001",
		SaleDate:  time.Now().Add(-48 * time.Hour),
		Items: []SaleItem{
			{ProductID: productX, Quantity: 3, UnitPrice: 100, LineTotal: 300},
			{ProductID: productY, Quantity: 2, UnitPrice: 200, LineTotal: 400},
		},
		Total:  700,
		Status: SaleStatusCompleted,
	}
}

func TestSale_ApplyReturn(t *testing.T) {
	sale := twoLineSale()
	now := time.Now()

	status := sale.ApplyReturn(SaleReturnEntry{
		Items:       []SaleReturnedItem{{ProductID: productX, Quantity: 1, Amount: 100}},
		Amount:      100,
		ProcessedAt: now,
	})
	assert.Equal(t, SaleStatusPartiallyRefunded, status)
	assert.Equal(t, int64(100), sale.ReturnSummary.TotalReturned)
	assert.Equal(t, 1, sale.ReturnSummary.TotalReturnedItems)
	assert.Equal(t, 1, sale.AlreadyReturned()[productX])

	status = sale.ApplyReturn(SaleReturnEntry{
		Items: []SaleReturnedItem{
			{ProductID: productX, Quantity: 2, Amount: 200},
			{ProductID: productY, Quantity: 2, Amount: 400},
		},
		Amount:      600,
		ProcessedAt: now,
	})
	assert.Equal(t, SaleStatusRefunded, status)
	assert.Equal(t, int64(700), sale.ReturnSummary.TotalReturned)
	assert.Len(t, sale.Returns, 2)
	assert.False(t, sale.IsReturnable())
}

func TestSale_AllUnitsReturnedWithDiscountIsRefunded(t *testing.T) {
	sale := twoLineSale()
	sale.ApplyReturn(SaleReturnEntry{
		Items: []SaleReturnedItem{
			{ProductID: productX, Quantity: 3},
			{ProductID: productY, Quantity: 2},
		},
		Amount: 650,
	})
	assert.Equal(t, SaleStatusRefunded, sale.Status)
}

func TestAdvanceSaleStatus_NeverReverses(t *testing.T) {
	tests := []struct {
		current, next, want SaleStatus
	}{
		{SaleStatusCompleted, SaleStatusPartiallyRefunded, SaleStatusPartiallyRefunded},
		{SaleStatusPartiallyRefunded, SaleStatusRefunded, SaleStatusRefunded},
		{SaleStatusRefunded, SaleStatusPartiallyRefunded, SaleStatusRefunded},
		{SaleStatusPartiallyRefunded, SaleStatusCompleted, SaleStatusPartiallyRefunded},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"->"+string(tt.next), func(t *testing.T) {
			assert.Equal(t, tt.want, AdvanceSaleStatus(tt.current, tt.next))
		})
	}
}

func TestPolicyFlagFor_CoversEveryMethod(t *testing.T) {
	for _, m := range RefundMethods() {
		f, ok := PolicyFlagFor(m)
		assert.True(t, ok, "method %s has no flag", m)
		assert.NotEmpty(t, f)
	}

	f, _ := PolicyFlagFor(RefundMethodExchangeSlip)
	assert.Equal(t, FlagAllowExchange, f)
	f, _ = PolicyFlagFor(RefundMethodOverpayment)
	assert.Equal(t, FlagAllowStoreCredit, f)

	_, ok := PolicyFlagFor("cheque")
	assert.False(t, ok)
	assert.False(t, RefundMethod("cheque").Valid())
}

func TestDefaultReturnPolicy(t *testing.T) {
	p := DefaultReturnPolicy()

	assert.Equal(t, 30, p.ReturnWindow.Days)
	assert.True(t, p.RefundMethods.Allows(FlagAllowCash))
	assert.True(t, p.RefundMethods.Allows(FlagAllowCard))
	assert.True(t, p.RefundMethods.Allows(FlagAllowStoreCredit))
	assert.True(t, p.RefundMethods.Allows(FlagAllowExchange))
	assert.False(t, p.RefundMethods.Allows(FlagAllowBankTransfer))
	assert.Zero(t, p.Approval.ManagerApprovalThreshold)
	assert.Equal(t, DispositionRestock, p.DispositionFor(""))
	assert.Equal(t, DispositionDamaged, p.DispositionFor(DispositionDamaged))
}

func TestApplicability_Matches(t *testing.T) {
	cat := uuid.New()
	sale := twoLineSale()
	sale.Items[1].CategoryID = &cat

	assert.True(t, Applicability{AllProducts: true}.Matches(sale))
	assert.True(t, Applicability{ProductIDs: []uuid.UUID{productX}}.Matches(sale))
	assert.True(t, Applicability{CategoryIDs: []uuid.UUID{cat}}.Matches(sale))
	assert.False(t, Applicability{CategoryIDs: []uuid.UUID{uuid.New()}}.Matches(sale))
	assert.False(t, Applicability{}.Matches(sale))
}

func TestAllocateDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []int64
		discount int64
	}{
		{"no discount", []int64{100, 200}, 0},
		{"even split", []int64{100, 100}, 50},
		{"uneven rounding", []int64{99, 99, 1}, 150},
		{"discount equals total", []int64{30, 70}, 100},
		{"single line", []int64{300}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AllocateDiscount(tt.amounts, tt.discount)

			var in, got int64
			for i := range out {
				in += tt.amounts[i]
				got += out[i]
				assert.GreaterOrEqual(t, out[i], int64(0))
				assert.LessOrEqual(t, out[i], tt.amounts[i])
			}
			assert.Equal(t, in-tt.discount, got)
		})
	}
}

func TestReturnTransaction_LedgerEntry(t *testing.T) {
	rt := &ReturnTransaction{
		ID:           uuid.New(),
		ReturnNumber: "RET2501230007",
		Items: []ReturnItem{
			{ProductID: productX, Quantity: 1, ReturnAmount: 100},
			{ProductID: productY, Quantity: 2, ReturnAmount: 400},
		},
		Discount:     50,
		TotalAmount:  450,
		RefundMethod: RefundMethodCash,
	}

	entry := rt.LedgerEntry()
	assert.Equal(t, rt.ID, entry.ReturnTransactionID)
	assert.Equal(t, int64(450), entry.Amount)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, 2, entry.Items[1].Quantity)
	assert.Equal(t, int64(500), ItemsTotal(rt.Items))
}

func TestExchangeSlip_TerminalStates(t *testing.T) {
	now := time.Now()
	newSlip := func() *ExchangeSlip {
		return &ExchangeSlip{
			Status:     SlipStatusActive,
			ExpiresAt:  now.Add(90 * 24 * time.Hour),
			Items:      []SlipItem{{ExchangeValue: 100}, {ExchangeValue: 200}},
			TotalValue: 300,
		}
	}

	slip := newSlip()
	assert.Equal(t, slip.TotalValue, slip.ItemsValue())
	require.NoError(t, slip.Redeem(uuid.New(), "cashier-1", now))
	assert.Equal(t, SlipStatusRedeemed, slip.Status)
	assert.ErrorIs(t, slip.Redeem(uuid.New(), "cashier-1", now), ErrSlipNotActive)
	assert.ErrorIs(t, slip.Cancel("manager", "", now), ErrSlipNotActive)

	slip = newSlip()
	require.NoError(t, slip.Cancel("manager", "customer request", now))
	assert.Equal(t, SlipStatusCancelled, slip.Status)
	assert.Equal(t, "customer request", *slip.CancelReason)
	assert.ErrorIs(t, slip.Redeem(uuid.New(), "cashier-1", now), ErrSlipNotActive)

	slip = newSlip()
	slip.ExpiresAt = now.Add(-time.Minute)
	assert.ErrorIs(t, slip.Redeem(uuid.New(), "cashier-1", now), ErrSlipExpired)
	assert.Equal(t, SlipStatusActive, slip.Status)
}

func TestCustomerOverpayment_Consume(t *testing.T) {
	o := &CustomerOverpayment{ID: uuid.New(), Amount: 600, Balance: 600, Status: OverpaymentStatusActive}
	now := time.Now()

	u, err := o.Consume(250, uuid.New(), "cashier-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(250), u.UsedAmount)
	assert.Equal(t, int64(350), u.BalanceAfter)

	u, err = o.Consume(1000, uuid.New(), "cashier-1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(350), u.UsedAmount)
	assert.Equal(t, int64(0), o.Balance)
	assert.Equal(t, OverpaymentStatusFullyUsed, o.Status)
	assert.Equal(t, o.Amount-o.Balance, o.UsedTotal())

	_, err = o.Consume(1, uuid.New(), "cashier-1", now)
	assert.ErrorIs(t, err, ErrCreditNotUsable)
}

func TestUnitBarcode_CanReturnFrom(t *testing.T) {
	saleID := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		status BarcodeStatus
		sale   *uuid.UUID
		want   bool
	}{
		{"sold on same sale", BarcodeStatusSold, &saleID, true},
		{"sold on other sale", BarcodeStatusSold, &other, false},
		{"already returned", BarcodeStatusReturned, &saleID, false},
		{"in stock", BarcodeStatusInStock, nil, false},
		{"warranty linked", BarcodeStatusWarrantyLinked, &saleID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &UnitBarcode{Status: tt.status, SaleID: tt.sale}
			assert.Equal(t, tt.want, b.CanReturnFrom(saleID))
		})
	}
}

func TestBuildReturnIdempotencyKey(t *testing.T) {
	assert.Equal(t, "return:cashier-7:abc-123", BuildReturnIdempotencyKey("cashier-7", "abc-123"))
}

func TestMovementTypeFor(t *testing.T) {
	assert.Equal(t, MovementReturnRestock, MovementTypeFor(DispositionRestock))
	assert.Equal(t, MovementReturnWriteOff, MovementTypeFor(DispositionWriteOff))
	assert.Equal(t, MovementReturnToSupplier, MovementTypeFor(DispositionReturnToSupplier))
	assert.Equal(t, MovementReturnDamaged, MovementTypeFor(DispositionDamaged))
}
