package postgres

import (
	"context"
	"fmt"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const overpaymentColumns = `id, customer_id, sale_id, return_transaction_id, amount, balance, status,
	created_by, created_at, updated_at`

// OverpaymentRepo implements ports.OverpaymentRepository.
type OverpaymentRepo struct {
	pool Pool
}

// NewOverpaymentRepo creates a new OverpaymentRepo.
func NewOverpaymentRepo(pool Pool) *OverpaymentRepo {
	return &OverpaymentRepo{pool: pool}
}

// Create inserts a new customer credit within the unit of work.
func (r *OverpaymentRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment) error {
	query := `INSERT INTO customer_overpayments (` + overpaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		o.ID, o.CustomerID, o.SaleID, o.ReturnTransactionID, o.Amount, o.Balance, o.Status,
		o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert overpayment: %w", err)
	}
	return nil
}

// ListActiveByCustomerForUpdate locks the customer's active credits, oldest first.
func (r *OverpaymentRepo) ListActiveByCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) ([]domain.CustomerOverpayment, error) {
	query := `SELECT ` + overpaymentColumns + ` FROM customer_overpayments
		WHERE customer_id = $1 AND status = 'active' AND balance > 0
		ORDER BY created_at ASC, id ASC FOR UPDATE`
	return r.list(ctx, tx, query, customerID, false)
}

// ApplyUsage decrements the balance in place and appends the usage row.
// The balance guard refuses to go below zero.
func (r *OverpaymentRepo) ApplyUsage(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment, usage domain.OverpaymentUsage) error {
	tag, err := tx.Exec(ctx, `UPDATE customer_overpayments
		SET balance = balance - $2, status = $3, updated_at = $4
		WHERE id = $1 AND balance >= $2`,
		o.ID, usage.UsedAmount, o.Status, usage.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("update overpayment balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("overpayment %s: insufficient balance", o.ID)
	}

	_, err = tx.Exec(ctx, `INSERT INTO overpayment_usages
		(id, overpayment_id, used_amount, balance_after, sale_id, used_by, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		usage.ID, usage.OverpaymentID, usage.UsedAmount, usage.BalanceAfter,
		usage.SaleID, usage.UsedBy, usage.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert overpayment usage: %w", err)
	}
	return nil
}

// ListByCustomer returns every credit of the customer with its usage history.
func (r *OverpaymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerOverpayment, error) {
	query := `SELECT ` + overpaymentColumns + ` FROM customer_overpayments
		WHERE customer_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(ctx, r.pool, query, customerID, true)
}

func (r *OverpaymentRepo) list(ctx context.Context, q querier, query string, customerID uuid.UUID, withHistory bool) ([]domain.CustomerOverpayment, error) {
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list overpayments: %w", err)
	}

	var credits []domain.CustomerOverpayment
	for rows.Next() {
		var o domain.CustomerOverpayment
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.SaleID, &o.ReturnTransactionID, &o.Amount, &o.Balance,
			&o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan overpayment: %w", err)
		}
		credits = append(credits, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overpayments: %w", err)
	}

	if !withHistory || len(credits) == 0 {
		return credits, nil
	}

	index := make(map[uuid.UUID]int, len(credits))
	ids := make([]uuid.UUID, len(credits))
	for i, o := range credits {
		ids[i] = o.ID
		index[o.ID] = i
	}

	usageRows, err := q.Query(ctx, `SELECT id, overpayment_id, used_amount, balance_after, sale_id, used_by, used_at
		FROM overpayment_usages WHERE overpayment_id = ANY($1) ORDER BY used_at ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("list overpayment usages: %w", err)
	}
	defer usageRows.Close()
	for usageRows.Next() {
		var u domain.OverpaymentUsage
		if err := usageRows.Scan(&u.ID, &u.OverpaymentID, &u.UsedAmount, &u.BalanceAfter,
			&u.SaleID, &u.UsedBy, &u.UsedAt); err != nil {
			return nil, fmt.Errorf("scan overpayment usage: %w", err)
		}
		if i, ok := index[u.OverpaymentID]; ok {
			credits[i].UsageHistory = append(credits[i].UsageHistory, u)
		}
	}
	return credits, usageRows.Err()
}
