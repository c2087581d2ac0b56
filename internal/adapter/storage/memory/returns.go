package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReturnRepo implements ports.ReturnRepository.
type ReturnRepo struct {
	store *Store
}

func NewReturnRepo(s *Store) *ReturnRepo {
	return &ReturnRepo{store: s}
}

func (r *ReturnRepo) Create(ctx context.Context, tx pgx.Tx, rt *domain.ReturnTransaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, dup := r.store.returnNumbers[rt.ReturnNumber]; dup {
		return fmt.Errorf("insert return transaction: duplicate return number %s", rt.ReturnNumber)
	}
	r.store.returns[rt.ID] = cloneReturn(rt)
	r.store.returnNumbers[rt.ReturnNumber] = rt.ID
	t.stage(returnKey(rt.ID), nil)
	t.record(func() {
		delete(r.store.returns, rt.ID)
		delete(r.store.returnNumbers, rt.ReturnNumber)
	})
	return nil
}

func (r *ReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReturnTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rt := visible(r.store, returnKey(id), r.store.returns[id])
	if rt == nil {
		return nil, nil
	}
	return cloneReturn(rt), nil
}

// committed lists the return transactions visible outside open units of
// work. Callers hold store.mu.
func (r *ReturnRepo) committed() []*domain.ReturnTransaction {
	out := make([]*domain.ReturnTransaction, 0, len(r.store.returns))
	for id, cur := range r.store.returns {
		if rt := visible(r.store, returnKey(id), cur); rt != nil {
			out = append(out, rt)
		}
	}
	return out
}

func returnKey(id uuid.UUID) string { return "return:" + id.String() }

func (r *ReturnRepo) CustomerStats(ctx context.Context, customerID uuid.UUID, since time.Time) (*domain.CustomerReturnStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &domain.CustomerReturnStats{}
	for _, rt := range r.committed() {
		if rt.CustomerID == nil || *rt.CustomerID != customerID {
			continue
		}
		if rt.CreatedAt.Before(since) || !rt.Status.CountsTowardLimits() {
			continue
		}
		stats.Count++
		stats.Amount += rt.TotalAmount
	}
	return stats, nil
}

func (r *ReturnRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ReturnTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.ReturnTransaction
	for _, rt := range r.committed() {
		if rt.CustomerID != nil && *rt.CustomerID == customerID {
			out = append(out, *cloneReturn(rt))
		}
	}
	slices.SortFunc(out, func(a, b domain.ReturnTransaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReturnRepo) Analytics(ctx context.Context, from, to time.Time) (*domain.ReturnAnalytics, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a := &domain.ReturnAnalytics{From: from, To: to}
	byType := map[string]*domain.AnalyticsGroup{}
	byMethod := map[string]*domain.AnalyticsGroup{}
	byReason := map[string]*domain.AnalyticsGroup{}

	bump := func(m map[string]*domain.AnalyticsGroup, key string, amount int64) {
		g, ok := m[key]
		if !ok {
			g = &domain.AnalyticsGroup{Key: key}
			m[key] = g
		}
		g.Count++
		g.Amount += amount
	}

	for _, rt := range r.committed() {
		if !rt.Status.CountsTowardLimits() || rt.CreatedAt.Before(from) || rt.CreatedAt.After(to) {
			continue
		}
		a.TotalReturns++
		a.TotalAmount += rt.TotalAmount
		bump(byType, string(rt.ReturnType), rt.TotalAmount)
		bump(byMethod, string(rt.RefundMethod), rt.TotalAmount)
		for _, it := range rt.Items {
			a.TotalItems += int64(it.Quantity)
			reason := it.Reason
			if reason == "" {
				reason = "unspecified"
			}
			bump(byReason, reason, it.ReturnAmount)
		}
	}

	a.ByReturnType = sortedGroups(byType)
	a.ByRefundMethod = sortedGroups(byMethod)
	a.ByReason = sortedGroups(byReason)
	return a, nil
}

func sortedGroups(m map[string]*domain.AnalyticsGroup) []domain.AnalyticsGroup {
	out := make([]domain.AnalyticsGroup, 0, len(m))
	for _, g := range m {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b domain.AnalyticsGroup) int {
		if a.Count != b.Count {
			return int(b.Count - a.Count)
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// SlipRepo implements ports.ExchangeSlipRepository.
type SlipRepo struct {
	store *Store
}

func NewSlipRepo(s *Store) *SlipRepo {
	return &SlipRepo{store: s}
}

// Create holds the new slip's row lock until the unit of work ends, so no
// other unit of work can redeem a slip that may still be rolled back.
func (r *SlipRepo) Create(ctx context.Context, tx pgx.Tx, slip *domain.ExchangeSlip) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, slipKey(slip.ID)); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, dup := r.store.slipNumbers[slip.SlipNo]; dup {
		return fmt.Errorf("insert exchange slip: duplicate slip number %s", slip.SlipNo)
	}
	r.store.slips[slip.ID] = cloneSlip(slip)
	r.store.slipNumbers[slip.SlipNo] = slip.ID
	t.stage(slipKey(slip.ID), nil)
	t.record(func() {
		delete(r.store.slips, slip.ID)
		delete(r.store.slipNumbers, slip.SlipNo)
	})
	return nil
}

func (r *SlipRepo) GetBySlipNoForUpdate(ctx context.Context, tx pgx.Tx, slipNo string) (*domain.ExchangeSlip, error) {
	r.store.mu.Lock()
	id, ok := r.store.slipNumbers[slipNo]
	r.store.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.GetByIDForUpdate(ctx, tx, id)
}

func (r *SlipRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ExchangeSlip, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, slipKey(id)); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slips[id]
	if !ok {
		return nil, nil
	}
	return cloneSlip(s), nil
}

// Transition is a compare-and-set on the stored status.
func (r *SlipRepo) Transition(ctx context.Context, tx pgx.Tx, slip *domain.ExchangeSlip, from domain.SlipStatus) (bool, error) {
	t, err := asTx(tx)
	if err != nil {
		return false, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.slips[slip.ID]
	if !ok || cur.Status != from {
		return false, nil
	}
	r.store.slips[slip.ID] = cloneSlip(slip)
	t.stage(slipKey(slip.ID), cur)
	t.record(func() { r.store.slips[slip.ID] = cur })
	return true, nil
}

func slipKey(id uuid.UUID) string { return "slip:" + id.String() }

func (r *SlipRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.ExchangeSlip, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.ExchangeSlip
	for id, cur := range r.store.slips {
		s := visible(r.store, slipKey(id), cur)
		if s != nil && s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, *cloneSlip(s))
		}
	}
	slices.SortFunc(out, func(a, b domain.ExchangeSlip) int { return b.IssuedAt.Compare(a.IssuedAt) })
	return out, nil
}

// OverpaymentRepo implements ports.OverpaymentRepository.
type OverpaymentRepo struct {
	store *Store
}

func NewOverpaymentRepo(s *Store) *OverpaymentRepo {
	return &OverpaymentRepo{store: s}
}

// Create takes the customer's credit lock, like ListActiveByCustomerForUpdate.
func (r *OverpaymentRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, "credits:"+o.CustomerID.String()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.credits[o.ID] = cloneCredit(o)
	t.stage(creditKey(o.ID), nil)
	t.record(func() { delete(r.store.credits, o.ID) })
	return nil
}

// ListActiveByCustomerForUpdate locks the customer's credits as a group.
func (r *OverpaymentRepo) ListActiveByCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) ([]domain.CustomerOverpayment, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, "credits:"+customerID.String()); err != nil {
		return nil, err
	}

	credits := r.byCustomer(customerID, false)
	return slices.DeleteFunc(credits, func(o domain.CustomerOverpayment) bool {
		return o.Status != domain.OverpaymentStatusActive || o.Balance <= 0
	}), nil
}

func (r *OverpaymentRepo) ApplyUsage(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment, usage domain.OverpaymentUsage) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.credits[o.ID]
	if !ok {
		return fmt.Errorf("overpayment %s not found", o.ID)
	}
	if cur.Balance < usage.UsedAmount {
		return fmt.Errorf("overpayment %s: insufficient balance", o.ID)
	}
	next := cloneCredit(cur)
	next.Balance -= usage.UsedAmount
	next.Status = o.Status
	next.UpdatedAt = usage.UsedAt
	next.UsageHistory = append(next.UsageHistory, usage)
	r.store.credits[o.ID] = next
	t.stage(creditKey(o.ID), cur)
	t.record(func() { r.store.credits[o.ID] = cur })
	return nil
}

func (r *OverpaymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerOverpayment, error) {
	return r.byCustomer(customerID, true), nil
}

// byCustomer returns the customer's credits oldest first. Unless committed
// is set it includes the writes of open units of work, which the credit
// lock keeps to the caller's own.
func (r *OverpaymentRepo) byCustomer(customerID uuid.UUID, committed bool) []domain.CustomerOverpayment {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.CustomerOverpayment
	for id, o := range r.store.credits {
		if committed {
			o = visible(r.store, creditKey(id), o)
		}
		if o != nil && o.CustomerID == customerID {
			out = append(out, *cloneCredit(o))
		}
	}
	slices.SortFunc(out, func(a, b domain.CustomerOverpayment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func creditKey(id uuid.UUID) string { return "credit:" + id.String() }
