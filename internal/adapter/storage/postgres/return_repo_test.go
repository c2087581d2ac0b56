package postgres

import (
	"context"
	"testing"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rt := &domain.ReturnTransaction{
		ID:           uuid.New(),
		ReturnNumber: "RET2603030001",
		SaleID:       uuid.New(),
		InvoiceNo:    "INV-1001",
		ReturnType:   domain.ReturnTypePartial,
		Items:        []domain.ReturnItem{{ProductID: uuid.New(), Quantity: 1, ReturnAmount: 500}},
		Subtotal:     500,
		TotalAmount:  500,
		RefundMethod: domain.RefundMethodCash,
		Status:       domain.ReturnStatusProcessed,
		ProcessedBy:  "cashier-1",
		ProcessedAt:  now,
		CreatedAt:    now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO return_transactions").
		WithArgs(rt.ID, rt.ReturnNumber, rt.SaleID, rt.InvoiceNo, rt.CustomerID, rt.ReturnType, rt.Items,
			rt.Subtotal, rt.Discount, rt.TotalAmount, rt.RefundMethod, rt.ExchangeSlipID, rt.OverpaymentID, rt.PolicyID,
			rt.Status, rt.RequiresApproval, rt.ApprovedBy, rt.ProcessedBy, rt.ProcessedAt, rt.Notes, rt.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, NewReturnRepo(mock).Create(context.Background(), tx, rt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepo_CustomerStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()
	since := time.Now().AddDate(0, 0, -30)

	mock.ExpectQuery(`status IN \('approved', 'processed'\)`).
		WithArgs(customerID, since).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(3, int64(45000)))

	stats, err := NewReturnRepo(mock).CustomerStats(context.Background(), customerID, since)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, int64(45000), stats.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepo_Analytics(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	groupCols := []string{"key", "count", "amount"}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"count", "amount", "items"}).AddRow(int64(4), int64(80000), int64(7)))
	mock.ExpectQuery("GROUP BY return_type").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows(groupCols).
			AddRow("partial", int64(3), int64(50000)).
			AddRow("full", int64(1), int64(30000)))
	mock.ExpectQuery("GROUP BY refund_method").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows(groupCols).AddRow("cash", int64(4), int64(80000)))
	mock.ExpectQuery("jsonb_array_elements").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows(groupCols).AddRow("defective", int64(5), int64(60000)))

	a, err := NewReturnRepo(mock).Analytics(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.TotalReturns)
	assert.Equal(t, int64(80000), a.TotalAmount)
	assert.Equal(t, int64(7), a.TotalItems)
	assert.Len(t, a.ByReturnType, 2)
	assert.Equal(t, "cash", a.ByRefundMethod[0].Key)
	assert.Equal(t, "defective", a.ByReason[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
