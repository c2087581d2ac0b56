package service

import (
	"context"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultSlipValidityDays applies when neither the policy nor config set one.
const DefaultSlipValidityDays = 90

// SettlementInput is everything a strategy may read. Return is already
// numbered and priced but not yet persisted.
type SettlementInput struct {
	Return   *domain.ReturnTransaction
	Sale     *domain.Sale
	Policy   *domain.ReturnPolicy
	IssuedBy string
	Now      time.Time
}

// SettlementOutcome carries whatever the strategy created.
type SettlementOutcome struct {
	Slip   *domain.ExchangeSlip
	Credit *domain.CustomerOverpayment
}

// SettlementStrategy compensates the customer inside the unit of work.
// Strategies only ever create new rows.
type SettlementStrategy interface {
	Settle(ctx context.Context, tx pgx.Tx, in SettlementInput) (*SettlementOutcome, error)
}

var (
	_ SettlementStrategy = (*ExchangeSlipIssuer)(nil)
	_ SettlementStrategy = (*CustomerCreditIssuer)(nil)
)

// ExchangeSlipIssuer settles a return with a redeemable slip.
type ExchangeSlipIssuer struct {
	slipRepo     ports.ExchangeSlipRepository
	numbers      numberer
	prefix       string
	validityDays int
}

// NewExchangeSlipIssuer creates a new ExchangeSlipIssuer.
func NewExchangeSlipIssuer(slipRepo ports.ExchangeSlipRepository, seqRepo ports.SequenceRepository, prefix string, validityDays int, loc *time.Location) *ExchangeSlipIssuer {
	if validityDays <= 0 {
		validityDays = DefaultSlipValidityDays
	}
	return &ExchangeSlipIssuer{
		slipRepo:     slipRepo,
		numbers:      numberer{seqRepo: seqRepo, loc: loc},
		prefix:       prefix,
		validityDays: validityDays,
	}
}

func (i *ExchangeSlipIssuer) Settle(ctx context.Context, tx pgx.Tx, in SettlementInput) (*SettlementOutcome, error) {
	slipNo, err := i.numbers.next(ctx, tx, i.prefix, in.Now)
	if err != nil {
		return nil, err
	}

	days := i.validityDays
	if in.Policy != nil && in.Policy.ExchangeSlipValidityDays > 0 {
		days = in.Policy.ExchangeSlipValidityDays
	}

	rt := in.Return
	amounts := make([]int64, len(rt.Items))
	for k, it := range rt.Items {
		amounts[k] = it.ReturnAmount
	}
	values := domain.AllocateDiscount(amounts, rt.Discount)

	items := make([]domain.SlipItem, len(rt.Items))
	for k, it := range rt.Items {
		items[k] = domain.SlipItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			ExchangeValue: values[k],
		}
	}

	slip := &domain.ExchangeSlip{
		ID:                  uuid.New(),
		SlipNo:              slipNo,
		SaleID:              in.Sale.ID,
		ReturnTransactionID: rt.ID,
		CustomerID:          in.Sale.CustomerID,
		Items:               items,
		TotalValue:          rt.TotalAmount,
		IssuedAt:            in.Now,
		ExpiresAt:           in.Now.AddDate(0, 0, days),
		Status:              domain.SlipStatusActive,
		IssuedBy:            in.IssuedBy,
	}
	if slip.ItemsValue() != slip.TotalValue {
		return nil, fmt.Errorf("slip %s: item values %d do not add up to %d", slipNo, slip.ItemsValue(), slip.TotalValue)
	}

	if err := i.slipRepo.Create(ctx, tx, slip); err != nil {
		return nil, fmt.Errorf("create exchange slip: %w", err)
	}
	return &SettlementOutcome{Slip: slip}, nil
}

// CustomerCreditIssuer settles a return into a new store-credit row.
type CustomerCreditIssuer struct {
	creditRepo ports.OverpaymentRepository
}

// NewCustomerCreditIssuer creates a new CustomerCreditIssuer.
func NewCustomerCreditIssuer(creditRepo ports.OverpaymentRepository) *CustomerCreditIssuer {
	return &CustomerCreditIssuer{creditRepo: creditRepo}
}

func (i *CustomerCreditIssuer) Settle(ctx context.Context, tx pgx.Tx, in SettlementInput) (*SettlementOutcome, error) {
	if in.Sale.CustomerID == nil {
		return nil, apperror.ErrConfiguration(
			fmt.Sprintf("refund method %s requires a sale with a customer", in.Return.RefundMethod))
	}

	returnID := in.Return.ID
	credit := &domain.CustomerOverpayment{
		ID:                  uuid.New(),
		CustomerID:          *in.Sale.CustomerID,
		SaleID:              in.Sale.ID,
		ReturnTransactionID: &returnID,
		Amount:              in.Return.TotalAmount,
		Balance:             in.Return.TotalAmount,
		Status:              domain.OverpaymentStatusActive,
		UsageHistory:        []domain.OverpaymentUsage{},
		CreatedBy:           in.IssuedBy,
		CreatedAt:           in.Now,
		UpdatedAt:           in.Now,
	}
	if err := i.creditRepo.Create(ctx, tx, credit); err != nil {
		return nil, fmt.Errorf("create customer credit: %w", err)
	}
	return &SettlementOutcome{Credit: credit}, nil
}
