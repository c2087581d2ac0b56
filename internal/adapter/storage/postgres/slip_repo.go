package postgres

import (
	"context"
	"errors"
	"fmt"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const slipColumns = `id, slip_no, sale_id, return_transaction_id, customer_id, items, total_value,
	issued_at, expires_at, status, issued_by, redeemed_sale_id, redeemed_by, redeemed_at,
	cancelled_by, cancelled_at, cancel_reason`

// SlipRepo implements ports.ExchangeSlipRepository.
type SlipRepo struct {
	pool Pool
}

// NewSlipRepo creates a new SlipRepo.
func NewSlipRepo(pool Pool) *SlipRepo {
	return &SlipRepo{pool: pool}
}

// Create inserts a new exchange slip within the unit of work.
func (r *SlipRepo) Create(ctx context.Context, tx pgx.Tx, s *domain.ExchangeSlip) error {
	query := `INSERT INTO exchange_slips (` + slipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := tx.Exec(ctx, query,
		s.ID, s.SlipNo, s.SaleID, s.ReturnTransactionID, s.CustomerID, s.Items, s.TotalValue,
		s.IssuedAt, s.ExpiresAt, s.Status, s.IssuedBy, s.RedeemedSaleID, s.RedeemedBy, s.RedeemedAt,
		s.CancelledBy, s.CancelledAt, s.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("insert exchange slip: %w", err)
	}
	return nil
}

// GetBySlipNoForUpdate fetches and locks a slip by its human-readable number.
func (r *SlipRepo) GetBySlipNoForUpdate(ctx context.Context, tx pgx.Tx, slipNo string) (*domain.ExchangeSlip, error) {
	query := `SELECT ` + slipColumns + ` FROM exchange_slips WHERE slip_no = $1 FOR UPDATE`
	return getSlip(tx.QueryRow(ctx, query, slipNo))
}

// GetByIDForUpdate fetches and locks a slip by ID.
func (r *SlipRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ExchangeSlip, error) {
	query := `SELECT ` + slipColumns + ` FROM exchange_slips WHERE id = $1 FOR UPDATE`
	return getSlip(tx.QueryRow(ctx, query, id))
}

// Transition persists the slip's terminal fields if it is still in status from.
func (r *SlipRepo) Transition(ctx context.Context, tx pgx.Tx, s *domain.ExchangeSlip, from domain.SlipStatus) (bool, error) {
	query := `UPDATE exchange_slips SET status = $1,
		redeemed_sale_id = $2, redeemed_by = $3, redeemed_at = $4,
		cancelled_by = $5, cancelled_at = $6, cancel_reason = $7
		WHERE id = $8 AND status = $9`

	tag, err := tx.Exec(ctx, query,
		s.Status, s.RedeemedSaleID, s.RedeemedBy, s.RedeemedAt,
		s.CancelledBy, s.CancelledAt, s.CancelReason, s.ID, from,
	)
	if err != nil {
		return false, fmt.Errorf("transition exchange slip: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCustomer returns the customer's slips, newest first.
func (r *SlipRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.ExchangeSlip, error) {
	query := `SELECT ` + slipColumns + ` FROM exchange_slips WHERE customer_id = $1 ORDER BY issued_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list exchange slips: %w", err)
	}
	defer rows.Close()

	var slips []domain.ExchangeSlip
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exchange slip: %w", err)
		}
		slips = append(slips, *s)
	}
	return slips, rows.Err()
}

func getSlip(row pgx.Row) (*domain.ExchangeSlip, error) {
	s, err := scanSlip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange slip: %w", err)
	}
	return s, nil
}

func scanSlip(row pgx.Row) (*domain.ExchangeSlip, error) {
	s := &domain.ExchangeSlip{}
	err := row.Scan(
		&s.ID, &s.SlipNo, &s.SaleID, &s.ReturnTransactionID, &s.CustomerID, &s.Items, &s.TotalValue,
		&s.IssuedAt, &s.ExpiresAt, &s.Status, &s.IssuedBy, &s.RedeemedSaleID, &s.RedeemedBy, &s.RedeemedAt,
		&s.CancelledBy, &s.CancelledAt, &s.CancelReason,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
