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

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	defaultReportDays   = 30
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	returnRepo   ports.ReturnRepository
	customerRepo ports.CustomerRepository
	now          func() time.Time
}

// NewReportingService creates a new reporting service.
func NewReportingService(returnRepo ports.ReturnRepository, customerRepo ports.CustomerRepository) ports.ReportingService {
	return &reportingService{
		returnRepo:   returnRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// GetCustomerReturnHistory returns the customer's latest returns, newest first.
func (s *reportingService) GetCustomerReturnHistory(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ReturnTransaction, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	returns, err := s.returnRepo.ListByCustomer(ctx, customerID, limit)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if returns == nil {
		returns = []domain.ReturnTransaction{}
	}
	return returns, nil
}

// GetReturnAnalytics aggregates returns created in [from, to]. Zero bounds
// default to the last 30 days.
func (s *reportingService) GetReturnAnalytics(ctx context.Context, from, to time.Time) (*domain.ReturnAnalytics, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultReportDays)
	}
	if to.Before(from) {
		return nil, apperror.Validation("invalid range: to must not be before from")
	}

	analytics, err := s.returnRepo.Analytics(ctx, from, to)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if analytics == nil {
		analytics = &domain.ReturnAnalytics{}
	}
	analytics.From = from
	analytics.To = to
	return analytics, nil
}
