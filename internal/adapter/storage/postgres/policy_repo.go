package postgres

import (
	"context"
	"fmt"

	"returns-settlement-engine/internal/core/domain"
)

// PolicyRepo implements ports.PolicyRepository.
type PolicyRepo struct {
	pool Pool
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(pool Pool) *PolicyRepo {
	return &PolicyRepo{pool: pool}
}

// ListActive returns active policies, lowest priority number first.
func (r *PolicyRepo) ListActive(ctx context.Context) ([]domain.ReturnPolicy, error) {
	query := `SELECT id, name, active, priority, return_window_days,
		allow_cash, allow_card, allow_bank_transfer, allow_digital_wallet, allow_store_credit, allow_exchange,
		manager_approval_threshold, require_receipt,
		max_returns_per_customer, max_return_amount_per_customer, restriction_period_days,
		auto_restock, default_disposition, exchange_slip_validity_days, applicable_to
		FROM return_policies WHERE active = TRUE ORDER BY priority ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active policies: %w", err)
	}
	defer rows.Close()

	var policies []domain.ReturnPolicy
	for rows.Next() {
		var p domain.ReturnPolicy
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Active, &p.Priority, &p.ReturnWindow.Days,
			&p.RefundMethods.AllowCash, &p.RefundMethods.AllowCard, &p.RefundMethods.AllowBankTransfer,
			&p.RefundMethods.AllowDigitalWallet, &p.RefundMethods.AllowStoreCredit, &p.RefundMethods.AllowExchange,
			&p.Approval.ManagerApprovalThreshold, &p.Approval.RequireReceipt,
			&p.Restrictions.MaxReturnsPerCustomer, &p.Restrictions.MaxReturnAmountPerCustomer, &p.Restrictions.PeriodDays,
			&p.StockHandling.AutoRestock, &p.StockHandling.DefaultDisposition, &p.ExchangeSlipValidityDays,
			&p.ApplicableTo,
		); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
