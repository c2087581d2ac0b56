package service

import (
	"context"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
)

// ReturnValidator checks a return request against the sale and its policy.
// It never writes and never stops at the first problem.
type ReturnValidator struct {
	saleRepo   ports.SaleRepository
	returnRepo ports.ReturnRepository
	resolver   *PolicyResolver
	now        func() time.Time
}

// NewReturnValidator creates a new ReturnValidator.
func NewReturnValidator(saleRepo ports.SaleRepository, returnRepo ports.ReturnRepository, resolver *PolicyResolver) *ReturnValidator {
	return &ReturnValidator{
		saleRepo:   saleRepo,
		returnRepo: returnRepo,
		resolver:   resolver,
		now:        time.Now,
	}
}

// checkedReturn is a verdict plus the priced lines it was computed from.
type checkedReturn struct {
	result   *ports.ValidationResult
	items    []domain.ReturnItem
	subtotal int64
	total    int64
	// approval lists the warnings that made manager approval necessary.
	approval []string
}

// Validate loads the sale, resolves its policy and checks the request.
func (v *ReturnValidator) Validate(ctx context.Context, req ports.ReturnRequest) (*ports.ValidationResult, error) {
	sale, err := v.saleRepo.GetByID(ctx, req.SaleID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get sale: %w", err))
	}
	if sale == nil {
		return nil, apperror.ErrNotFound("sale")
	}

	policy, err := v.resolver.ResolveForSale(ctx, sale)
	if err != nil {
		return nil, err
	}

	checked, err := v.check(ctx, req, sale, policy)
	if err != nil {
		return nil, err
	}
	return checked.result, nil
}

func (v *ReturnValidator) check(ctx context.Context, req ports.ReturnRequest, sale *domain.Sale, policy *domain.ReturnPolicy) (*checkedReturn, error) {
	c := &checkedReturn{
		result: &ports.ValidationResult{
			Errors:   []string{},
			Warnings: []string{},
			Policy:   policy,
		},
	}
	now := v.now()

	if !req.ReturnType.Valid() {
		c.fail("unknown return type %q", req.ReturnType)
	}
	if !sale.IsReturnable() {
		c.fail("sale %s is already fully refunded", sale.InvoiceNo)
	}
	if len(req.Items) == 0 {
		c.fail("at least one item is required")
	}

	// Window
	daysSinceSale := int(now.Sub(sale.SaleDate).Hours() / 24)
	if policy.ReturnWindow.Days > 0 && daysSinceSale > policy.ReturnWindow.Days {
		if req.ManagerOverride {
			c.needsApproval("return window of %d days exceeded (%d days since sale), manager override applied",
				policy.ReturnWindow.Days, daysSinceSale)
		} else {
			c.fail("return window of %d days exceeded (%d days since sale)", policy.ReturnWindow.Days, daysSinceSale)
		}
	}

	if policy.Approval.RequireReceipt && !req.ReceiptPresented {
		if req.ManagerOverride {
			c.needsApproval("receipt not presented, manager override applied")
		} else {
			c.fail("policy %s requires the original receipt", policy.Name)
		}
	}

	// Quantities and amounts
	returned := sale.AlreadyReturned()
	for _, it := range req.Items {
		line, ok := sale.Line(it.ProductID)
		if !ok {
			c.fail("product %s is not part of sale %s", it.ProductID, sale.InvoiceNo)
			continue
		}
		if it.Quantity <= 0 {
			c.fail("quantity for %s must be positive", line.ProductName)
			continue
		}

		available := sale.QuantitySold(it.ProductID) - returned[it.ProductID]
		if it.Quantity > available {
			c.fail("cannot return %d of %s (%s): only %d available", it.Quantity, line.ProductName, it.ProductID, available)
		}
		// A product listed twice draws on the same remaining quantity.
		returned[it.ProductID] += it.Quantity

		maxAmount := line.UnitPrice * int64(it.Quantity)
		amount := it.ReturnAmount
		switch {
		case amount < 0:
			c.fail("return amount for %s must not be negative", line.ProductName)
			continue
		case amount == 0:
			amount = maxAmount
		case amount > maxAmount:
			c.warn("return amount %d for %s exceeds unit price x quantity (%d)", amount, line.ProductName, maxAmount)
		}

		if it.Disposition != "" && !it.Disposition.Valid() {
			c.fail("unknown disposition %q for %s", it.Disposition, line.ProductName)
			continue
		}

		c.items = append(c.items, domain.ReturnItem{
			ProductID:     it.ProductID,
			ProductName:   line.ProductName,
			Quantity:      it.Quantity,
			OriginalPrice: line.UnitPrice,
			ReturnAmount:  amount,
			Reason:        it.Reason,
			Condition:     it.Condition,
			Disposition:   policy.DispositionFor(it.Disposition),
		})
		c.subtotal += amount
	}

	if req.Discount < 0 {
		c.fail("discount must not be negative")
	} else if req.Discount > c.subtotal {
		c.fail("discount %d exceeds the return subtotal %d", req.Discount, c.subtotal)
	}
	c.total = c.subtotal - max(req.Discount, 0)
	c.result.TotalAmount = c.total

	if remaining := sale.Total - sale.ReturnSummary.TotalReturned; c.total > remaining {
		c.fail("return total %d exceeds the remaining refundable amount %d", c.total, remaining)
	}

	if threshold := policy.Approval.ManagerApprovalThreshold; threshold > 0 && c.subtotal > threshold {
		c.needsApproval("return amount %d exceeds the manager approval threshold %d", c.subtotal, threshold)
	}

	// Refund method
	if flag, ok := domain.PolicyFlagFor(req.RefundMethod); !ok {
		c.fail("unknown refund method %q", req.RefundMethod)
	} else if !policy.RefundMethods.Allows(flag) {
		if req.ManagerOverride {
			c.needsApproval("refund method %s is not allowed by policy %s, manager override applied", req.RefundMethod, policy.Name)
		} else {
			c.fail("refund method %s is not allowed by policy %s", req.RefundMethod, policy.Name)
		}
	}
	if (req.RefundMethod.IsCredit() || req.RefundMethod == domain.RefundMethodExchangeSlip) && c.total <= 0 && len(c.items) > 0 {
		c.fail("refund method %s needs a positive settlement amount", req.RefundMethod)
	}

	// Per-customer limits
	if sale.CustomerID != nil && policy.Restrictions.Enabled() {
		if err := v.checkCustomerLimits(ctx, c, *sale.CustomerID, policy.Restrictions, now); err != nil {
			return nil, err
		}
	}

	c.result.Valid = len(c.result.Errors) == 0
	c.result.RequiresApproval = len(c.approval) > 0
	return c, nil
}

func (v *ReturnValidator) checkCustomerLimits(ctx context.Context, c *checkedReturn, customerID uuid.UUID, limits domain.CustomerLimits, now time.Time) error {
	stats, err := v.returnRepo.CustomerStats(ctx, customerID, now.AddDate(0, 0, -limits.PeriodDays))
	if err != nil {
		return apperror.InternalError(fmt.Errorf("customer return stats: %w", err))
	}
	if stats == nil {
		stats = &domain.CustomerReturnStats{}
	}

	if limits.MaxReturnsPerCustomer > 0 && stats.Count >= limits.MaxReturnsPerCustomer {
		c.fail("customer reached the limit of %d returns in %d days", limits.MaxReturnsPerCustomer, limits.PeriodDays)
	}
	if limits.MaxReturnAmountPerCustomer > 0 && stats.Amount+c.total > limits.MaxReturnAmountPerCustomer {
		c.fail("customer return amount would reach %d, above the limit of %d in %d days",
			stats.Amount+c.total, limits.MaxReturnAmountPerCustomer, limits.PeriodDays)
	}
	return nil
}

func (c *checkedReturn) fail(format string, args ...interface{}) {
	c.result.Errors = append(c.result.Errors, fmt.Sprintf(format, args...))
}

func (c *checkedReturn) warn(format string, args ...interface{}) {
	c.result.Warnings = append(c.result.Warnings, fmt.Sprintf(format, args...))
}

func (c *checkedReturn) needsApproval(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.result.Warnings = append(c.result.Warnings, msg)
	c.approval = append(c.approval, msg)
}
