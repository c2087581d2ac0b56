package service

import (
	"context"
	"fmt"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
)

// PolicyResolver picks the one return policy that governs a sale.
type PolicyResolver struct {
	policyRepo ports.PolicyRepository
	saleRepo   ports.SaleRepository
}

// NewPolicyResolver creates a new PolicyResolver.
func NewPolicyResolver(policyRepo ports.PolicyRepository, saleRepo ports.SaleRepository) *PolicyResolver {
	return &PolicyResolver{policyRepo: policyRepo, saleRepo: saleRepo}
}

// Resolve loads the sale and resolves its policy.
func (r *PolicyResolver) Resolve(ctx context.Context, saleID uuid.UUID) (*domain.ReturnPolicy, error) {
	sale, err := r.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get sale: %w", err))
	}
	if sale == nil {
		return nil, apperror.ErrNotFound("sale")
	}
	return r.ResolveForSale(ctx, sale)
}

// ResolveForSale walks active policies in ascending priority and returns the
// first one whose scope covers any line of the sale. A policy scoped to all
// products matches immediately. With no match the built-in default applies.
func (r *PolicyResolver) ResolveForSale(ctx context.Context, sale *domain.Sale) (*domain.ReturnPolicy, error) {
	policies, err := r.policyRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list active policies: %w", err))
	}

	for i := range policies {
		p := policies[i]
		if !p.Active || !p.ApplicableTo.Matches(sale) {
			continue
		}
		if err := checkPolicy(&p); err != nil {
			return nil, apperror.ErrConfiguration(fmt.Sprintf("return policy %q is malformed: %v", p.Name, err))
		}
		return &p, nil
	}
	return domain.DefaultReturnPolicy(), nil
}

func checkPolicy(p *domain.ReturnPolicy) error {
	switch {
	case p.ReturnWindow.Days < 0:
		return fmt.Errorf("negative return window")
	case p.Approval.ManagerApprovalThreshold < 0:
		return fmt.Errorf("negative approval threshold")
	case p.Restrictions.MaxReturnsPerCustomer < 0, p.Restrictions.MaxReturnAmountPerCustomer < 0, p.Restrictions.PeriodDays < 0:
		return fmt.Errorf("negative customer restriction")
	case p.ExchangeSlipValidityDays < 0:
		return fmt.Errorf("negative exchange slip validity")
	case p.StockHandling.DefaultDisposition != "" && !p.StockHandling.DefaultDisposition.Valid():
		return fmt.Errorf("unknown default disposition %q", p.StockHandling.DefaultDisposition)
	}
	return nil
}
