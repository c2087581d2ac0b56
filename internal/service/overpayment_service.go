package service

import (
	"context"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OverpaymentServiceImpl implements ports.OverpaymentService.
type OverpaymentServiceImpl struct {
	creditRepo   ports.OverpaymentRepository
	customerRepo ports.CustomerRepository
	transactor   ports.DBTransactor
	cache        ports.LookupCache
	notifier     ports.Notifier
	now          func() time.Time
	log          zerolog.Logger
}

// NewOverpaymentService creates a new OverpaymentServiceImpl.
func NewOverpaymentService(
	creditRepo ports.OverpaymentRepository,
	customerRepo ports.CustomerRepository,
	transactor ports.DBTransactor,
	cache ports.LookupCache,
	notifier ports.Notifier,
	log zerolog.Logger,
) *OverpaymentServiceImpl {
	return &OverpaymentServiceImpl{
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		transactor:   transactor,
		cache:        cache,
		notifier:     notifier,
		now:          time.Now,
		log:          logger.WithComponent(log, "overpayment_service"),
	}
}

// UseOverpayment draws req.Amount from the customer's active credits, oldest
// first. Either the whole amount is covered or nothing is taken.
func (s *OverpaymentServiceImpl) UseOverpayment(ctx context.Context, req ports.UseOverpaymentRequest) (*ports.UseOverpaymentResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be positive")
	}
	if err := s.ensureCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, txFailure("begin credit usage", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	credits, err := s.creditRepo.ListActiveByCustomerForUpdate(ctx, dbTx, req.CustomerID)
	if err != nil {
		return nil, txFailure("lock customer credits", err)
	}

	var available int64
	for _, c := range credits {
		available += c.Balance
	}
	if available < req.Amount {
		return nil, apperror.ErrInsufficientCredit(available, req.Amount)
	}

	now := s.now()
	remaining := req.Amount
	usages := make([]domain.OverpaymentUsage, 0, len(credits))
	for i := range credits {
		if remaining == 0 {
			break
		}
		credit := &credits[i]
		usage, err := credit.Consume(remaining, req.SaleID, req.UsedBy, now)
		if err != nil {
			continue
		}
		if err := s.creditRepo.ApplyUsage(ctx, dbTx, credit, usage); err != nil {
			return nil, txFailure("apply credit usage", err)
		}
		usages = append(usages, usage)
		remaining -= usage.UsedAmount
	}
	if remaining != 0 {
		return nil, apperror.ErrInsufficientCredit(req.Amount-remaining, req.Amount)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, txFailure("commit credit usage", err)
	}

	result := &ports.UseOverpaymentResult{
		CustomerID:       req.CustomerID,
		AmountUsed:       req.Amount,
		RemainingBalance: available - req.Amount,
		Usages:           usages,
	}

	invalidate(ctx, s.cache, s.log, customerTag(req.CustomerID))
	if s.notifier != nil {
		customerID := req.CustomerID
		s.notifier.Notify(ctx, domain.Event{
			ID:         uuid.New(),
			Type:       domain.EventCreditUsed,
			ResourceID: customerID.String(),
			CustomerID: &customerID,
			Data:       result,
			OccurredAt: now,
		})
	}

	s.log.Info().
		Str("customer_id", req.CustomerID.String()).
		Str("sale_id", req.SaleID.String()).
		Int64("amount", req.Amount).
		Int64("remaining_balance", result.RemainingBalance).
		Int("credits_touched", len(usages)).
		Msg("customer credit used")
	return result, nil
}

// ListCredits returns every credit of the customer and the usable total.
func (s *OverpaymentServiceImpl) ListCredits(ctx context.Context, customerID uuid.UUID) (*ports.CreditBalance, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	credits, err := s.creditRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list customer credits: %w", err))
	}

	balance := &ports.CreditBalance{CustomerID: customerID, Credits: credits}
	if balance.Credits == nil {
		balance.Credits = []domain.CustomerOverpayment{}
	}
	for _, c := range credits {
		if c.Status == domain.OverpaymentStatusActive {
			balance.Available += c.Balance
		}
	}
	return balance, nil
}

func (s *OverpaymentServiceImpl) ensureCustomer(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get customer: %w", err))
	}
	if customer == nil {
		return apperror.ErrNotFound("customer")
	}
	return nil
}

var _ ports.OverpaymentService = (*OverpaymentServiceImpl)(nil)
