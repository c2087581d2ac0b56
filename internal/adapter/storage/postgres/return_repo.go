package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const returnColumns = `id, return_number, sale_id, invoice_no, customer_id, return_type, items,
	subtotal, discount, total_amount, refund_method, exchange_slip_id, overpayment_id, policy_id,
	status, requires_approval, approved_by, processed_by, processed_at, notes, created_at`

// ReturnRepo implements ports.ReturnRepository.
type ReturnRepo struct {
	pool Pool
}

// NewReturnRepo creates a new ReturnRepo.
func NewReturnRepo(pool Pool) *ReturnRepo {
	return &ReturnRepo{pool: pool}
}

// Create inserts a return transaction within the unit of work.
func (r *ReturnRepo) Create(ctx context.Context, tx pgx.Tx, rt *domain.ReturnTransaction) error {
	query := `INSERT INTO return_transactions (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := tx.Exec(ctx, query,
		rt.ID, rt.ReturnNumber, rt.SaleID, rt.InvoiceNo, rt.CustomerID, rt.ReturnType, rt.Items,
		rt.Subtotal, rt.Discount, rt.TotalAmount, rt.RefundMethod, rt.ExchangeSlipID, rt.OverpaymentID, rt.PolicyID,
		rt.Status, rt.RequiresApproval, rt.ApprovedBy, rt.ProcessedBy, rt.ProcessedAt, rt.Notes, rt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return transaction: %w", err)
	}
	return nil
}

// GetByID fetches a return transaction by UUID.
func (r *ReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReturnTransaction, error) {
	query := `SELECT ` + returnColumns + ` FROM return_transactions WHERE id = $1`

	rt, err := scanReturn(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return transaction: %w", err)
	}
	return rt, nil
}

// CustomerStats counts the customer's approved/processed returns since a point in time.
func (r *ReturnRepo) CustomerStats(ctx context.Context, customerID uuid.UUID, since time.Time) (*domain.CustomerReturnStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM return_transactions
		WHERE customer_id = $1 AND created_at >= $2 AND status IN ('approved', 'processed')`

	stats := &domain.CustomerReturnStats{}
	if err := r.pool.QueryRow(ctx, query, customerID, since).Scan(&stats.Count, &stats.Amount); err != nil {
		return nil, fmt.Errorf("customer return stats: %w", err)
	}
	return stats, nil
}

// ListByCustomer returns the customer's most recent returns first.
func (r *ReturnRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ReturnTransaction, error) {
	query := `SELECT ` + returnColumns + ` FROM return_transactions
		WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list customer returns: %w", err)
	}
	defer rows.Close()

	var out []domain.ReturnTransaction
	for rows.Next() {
		rt, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return transaction: %w", err)
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}

// Analytics aggregates processed returns in [from, to].
func (r *ReturnRepo) Analytics(ctx context.Context, from, to time.Time) (*domain.ReturnAnalytics, error) {
	a := &domain.ReturnAnalytics{From: from, To: to}

	totals := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0),
		COALESCE(SUM((SELECT SUM((item->>'quantity')::int) FROM jsonb_array_elements(items) item)), 0)
		FROM return_transactions
		WHERE status IN ('approved', 'processed') AND created_at BETWEEN $1 AND $2`
	if err := r.pool.QueryRow(ctx, totals, from, to).Scan(&a.TotalReturns, &a.TotalAmount, &a.TotalItems); err != nil {
		return nil, fmt.Errorf("return totals: %w", err)
	}

	var err error
	if a.ByReturnType, err = r.group(ctx, `SELECT return_type, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM return_transactions
		WHERE status IN ('approved', 'processed') AND created_at BETWEEN $1 AND $2
		GROUP BY return_type ORDER BY 2 DESC`, from, to); err != nil {
		return nil, fmt.Errorf("returns by type: %w", err)
	}
	if a.ByRefundMethod, err = r.group(ctx, `SELECT refund_method, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM return_transactions
		WHERE status IN ('approved', 'processed') AND created_at BETWEEN $1 AND $2
		GROUP BY refund_method ORDER BY 2 DESC`, from, to); err != nil {
		return nil, fmt.Errorf("returns by refund method: %w", err)
	}
	if a.ByReason, err = r.group(ctx, `SELECT COALESCE(NULLIF(item->>'reason', ''), 'unspecified'),
		COUNT(*), COALESCE(SUM((item->>'return_amount')::bigint), 0)
		FROM return_transactions rt, jsonb_array_elements(rt.items) item
		WHERE rt.status IN ('approved', 'processed') AND rt.created_at BETWEEN $1 AND $2
		GROUP BY 1 ORDER BY 2 DESC`, from, to); err != nil {
		return nil, fmt.Errorf("returns by reason: %w", err)
	}
	return a, nil
}

func (r *ReturnRepo) group(ctx context.Context, query string, from, to time.Time) ([]domain.AnalyticsGroup, error) {
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.AnalyticsGroup{}
	for rows.Next() {
		var g domain.AnalyticsGroup
		if err := rows.Scan(&g.Key, &g.Count, &g.Amount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanReturn(row pgx.Row) (*domain.ReturnTransaction, error) {
	rt := &domain.ReturnTransaction{}
	err := row.Scan(
		&rt.ID, &rt.ReturnNumber, &rt.SaleID, &rt.InvoiceNo, &rt.CustomerID, &rt.ReturnType, &rt.Items,
		&rt.Subtotal, &rt.Discount, &rt.TotalAmount, &rt.RefundMethod, &rt.ExchangeSlipID, &rt.OverpaymentID, &rt.PolicyID,
		&rt.Status, &rt.RequiresApproval, &rt.ApprovedBy, &rt.ProcessedBy, &rt.ProcessedAt, &rt.Notes, &rt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rt, nil
}
