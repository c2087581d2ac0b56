package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ExchangeSlipServiceImpl implements ports.ExchangeSlipService.
type ExchangeSlipServiceImpl struct {
	slipRepo     ports.ExchangeSlipRepository
	customerRepo ports.CustomerRepository
	transactor   ports.DBTransactor
	cache        ports.LookupCache
	notifier     ports.Notifier
	cacheTTL     time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewExchangeSlipService creates a new ExchangeSlipServiceImpl. cache may be nil.
func NewExchangeSlipService(
	slipRepo ports.ExchangeSlipRepository,
	customerRepo ports.CustomerRepository,
	transactor ports.DBTransactor,
	cache ports.LookupCache,
	notifier ports.Notifier,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *ExchangeSlipServiceImpl {
	return &ExchangeSlipServiceImpl{
		slipRepo:     slipRepo,
		customerRepo: customerRepo,
		transactor:   transactor,
		cache:        cache,
		notifier:     notifier,
		cacheTTL:     cacheTTL,
		now:          time.Now,
		log:          logger.WithComponent(log, "exchange_slip_service"),
	}
}

// SearchExchangeSlips lists a customer's slips, newest first. Searching by
// phone covers every customer registered with that number. Active slips past
// their expiry are reported as expired.
func (s *ExchangeSlipServiceImpl) SearchExchangeSlips(ctx context.Context, q ports.SlipSearch) ([]domain.ExchangeSlip, error) {
	var customerIDs []uuid.UUID
	switch {
	case q.CustomerID != nil:
		customerIDs = []uuid.UUID{*q.CustomerID}
	case q.Phone != "":
		ids, err := s.customerRepo.FindIDs(ctx, domain.CustomerFilter{Phone: q.Phone})
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find customers by phone: %w", err))
		}
		customerIDs = ids
	default:
		return nil, apperror.BadRequest("customer_id or phone is required")
	}

	slips := []domain.ExchangeSlip{}
	for _, id := range customerIDs {
		found, err := s.customerSlips(ctx, id)
		if err != nil {
			return nil, err
		}
		slips = append(slips, found...)
	}

	now := s.now()
	for i := range slips {
		if slips[i].Status == domain.SlipStatusActive && slips[i].IsExpired(now) {
			slips[i].Status = domain.SlipStatusExpired
		}
	}
	slices.SortStableFunc(slips, func(a, b domain.ExchangeSlip) int {
		return b.IssuedAt.Compare(a.IssuedAt)
	})
	return slips, nil
}

func (s *ExchangeSlipServiceImpl) customerSlips(ctx context.Context, customerID uuid.UUID) ([]domain.ExchangeSlip, error) {
	key := "slips:customer:" + customerID.String()
	var slips []domain.ExchangeSlip
	if readCached(ctx, s.cache, s.log, key, &slips) {
		return slips, nil
	}

	slips, err := s.slipRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list exchange slips: %w", err))
	}
	writeCached(ctx, s.cache, s.log, key, slips, s.cacheTTL, []string{customerTag(customerID)})
	return slips, nil
}

// RedeemExchangeSlip consumes an active, unexpired slip exactly once.
func (s *ExchangeSlipServiceImpl) RedeemExchangeSlip(ctx context.Context, slipNo string, saleID uuid.UUID, redeemedBy string) (*domain.ExchangeSlip, error) {
	slip, err := s.transition(ctx, "redeem", func(ctx context.Context, tx pgx.Tx) (*domain.ExchangeSlip, error) {
		return s.slipRepo.GetBySlipNoForUpdate(ctx, tx, slipNo)
	}, func(slip *domain.ExchangeSlip, now time.Time) error {
		return slip.Redeem(saleID, redeemedBy, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("slip_no", slip.SlipNo).
		Str("sale_id", saleID.String()).
		Int64("value", slip.TotalValue).
		Str("redeemed_by", redeemedBy).
		Msg("exchange slip redeemed")
	s.published(ctx, slip, domain.EventSlipRedeemed)
	return slip, nil
}

// CancelExchangeSlip voids an active slip. identifier is a slip number or ID.
func (s *ExchangeSlipServiceImpl) CancelExchangeSlip(ctx context.Context, identifier string, cancelledBy string, reason string) (*domain.ExchangeSlip, error) {
	slip, err := s.transition(ctx, "cancel", func(ctx context.Context, tx pgx.Tx) (*domain.ExchangeSlip, error) {
		if id, err := uuid.Parse(identifier); err == nil {
			return s.slipRepo.GetByIDForUpdate(ctx, tx, id)
		}
		return s.slipRepo.GetBySlipNoForUpdate(ctx, tx, identifier)
	}, func(slip *domain.ExchangeSlip, now time.Time) error {
		return slip.Cancel(cancelledBy, reason, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("slip_no", slip.SlipNo).
		Str("cancelled_by", cancelledBy).
		Str("reason", reason).
		Msg("exchange slip cancelled")
	s.published(ctx, slip, domain.EventSlipCancelled)
	return slip, nil
}

// transition locks the slip, applies change and writes it with a status
// compare-and-set, all in one unit of work.
func (s *ExchangeSlipServiceImpl) transition(
	ctx context.Context,
	op string,
	load func(context.Context, pgx.Tx) (*domain.ExchangeSlip, error),
	change func(*domain.ExchangeSlip, time.Time) error,
) (*domain.ExchangeSlip, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, txFailure("begin slip "+op, err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	slip, err := load(ctx, dbTx)
	if err != nil {
		return nil, txFailure("lock exchange slip", err)
	}
	if slip == nil {
		return nil, apperror.ErrNotFound("exchange slip")
	}

	from := slip.Status
	if err := change(slip, s.now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrSlipExpired):
			return nil, apperror.ErrSlipExpired()
		case errors.Is(err, domain.ErrSlipNotActive):
			return nil, apperror.ErrSlipNotActive(string(from))
		}
		return nil, apperror.InternalError(err)
	}

	ok, err := s.slipRepo.Transition(ctx, dbTx, slip, from)
	if err != nil {
		return nil, txFailure("write exchange slip", err)
	}
	if !ok {
		return nil, apperror.ErrSlipNotActive(string(from))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, txFailure("commit slip "+op, err)
	}
	return slip, nil
}

func (s *ExchangeSlipServiceImpl) published(ctx context.Context, slip *domain.ExchangeSlip, event domain.EventType) {
	tags := []string{saleTag(slip.SaleID)}
	if slip.CustomerID != nil {
		tags = append(tags, customerTag(*slip.CustomerID))
	}
	invalidate(ctx, s.cache, s.log, tags...)

	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.Event{
			ID:         uuid.New(),
			Type:       event,
			ResourceID: slip.SlipNo,
			CustomerID: slip.CustomerID,
			Data:       slip,
			OccurredAt: s.now(),
		})
	}
}

var _ ports.ExchangeSlipService = (*ExchangeSlipServiceImpl)(nil)
