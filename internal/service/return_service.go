package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReturnSettings tunes numbering, expiry and timeouts of the settlement.
type ReturnSettings struct {
	ReturnPrefix      string
	SlipPrefix        string
	SlipValidityDays  int
	SettlementTimeout time.Duration
	IdempotencyTTL    time.Duration
	InFlightTTL       time.Duration
	Location          *time.Location
}

// ReturnDeps lists the collaborators of ReturnServiceImpl. IdempCache,
// LookupCache and Authorizer may be nil.
type ReturnDeps struct {
	SaleRepo    ports.SaleRepository
	PolicyRepo  ports.PolicyRepository
	ReturnRepo  ports.ReturnRepository
	SlipRepo    ports.ExchangeSlipRepository
	CreditRepo  ports.OverpaymentRepository
	InvRepo     ports.InventoryRepository
	BarcodeRepo ports.BarcodeRepository
	SeqRepo     ports.SequenceRepository
	IdempRepo   ports.IdempotencyRepository
	IdempCache  ports.IdempotencyCache
	InFlight    ports.InFlightGuard
	LookupCache ports.LookupCache
	Authorizer  ports.OverrideAuthorizer
	Notifier    ports.Notifier
	Transactor  ports.DBTransactor
}

// ReturnServiceImpl implements ports.ReturnService.
type ReturnServiceImpl struct {
	saleRepo    ports.SaleRepository
	returnRepo  ports.ReturnRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	inFlight    ports.InFlightGuard
	lookupCache ports.LookupCache
	authorizer  ports.OverrideAuthorizer
	notifier    ports.Notifier
	transactor  ports.DBTransactor

	resolver   *PolicyResolver
	validator  *ReturnValidator
	strategies map[domain.RefundMethod]SettlementStrategy
	inventory  *InventoryAdjuster
	barcodes   *UnitBarcodeTracker
	ledger     *SaleLedgerUpdater
	numbers    numberer

	cfg ReturnSettings
	now func() time.Time
	log zerolog.Logger
}

// NewReturnService wires the settlement pipeline.
func NewReturnService(d ReturnDeps, cfg ReturnSettings, log zerolog.Logger) *ReturnServiceImpl {
	log = logger.WithComponent(log, "return_service")
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	resolver := NewPolicyResolver(d.PolicyRepo, d.SaleRepo)
	slips := NewExchangeSlipIssuer(d.SlipRepo, d.SeqRepo, cfg.SlipPrefix, cfg.SlipValidityDays, cfg.Location)
	credits := NewCustomerCreditIssuer(d.CreditRepo)

	return &ReturnServiceImpl{
		saleRepo:    d.SaleRepo,
		returnRepo:  d.ReturnRepo,
		idempRepo:   d.IdempRepo,
		idempCache:  d.IdempCache,
		inFlight:    d.InFlight,
		lookupCache: d.LookupCache,
		authorizer:  d.Authorizer,
		notifier:    d.Notifier,
		transactor:  d.Transactor,
		resolver:    resolver,
		validator:   NewReturnValidator(d.SaleRepo, d.ReturnRepo, resolver),
		strategies: map[domain.RefundMethod]SettlementStrategy{
			domain.RefundMethodExchangeSlip: slips,
			domain.RefundMethodStoreCredit:  credits,
			domain.RefundMethodOverpayment:  credits,
		},
		inventory: NewInventoryAdjuster(d.InvRepo),
		barcodes:  NewUnitBarcodeTracker(d.BarcodeRepo, log),
		ledger:    NewSaleLedgerUpdater(d.SaleRepo),
		numbers:   numberer{seqRepo: d.SeqRepo, loc: cfg.Location},
		cfg:       cfg,
		now:       time.Now,
		log:       log,
	}
}

// ValidateReturn runs the read-only checks.
func (s *ReturnServiceImpl) ValidateReturn(ctx context.Context, req ports.ReturnRequest) (*ports.ValidationResult, error) {
	return s.validator.Validate(ctx, req)
}

// ProcessReturn settles a return as one unit of work. With an idempotency
// key, a committed result is replayed and a concurrent duplicate is rejected.
func (s *ReturnServiceImpl) ProcessReturn(ctx context.Context, req ports.ReturnRequest, processedBy string) (*ports.ProcessReturnResult, error) {
	if processedBy == "" {
		return nil, apperror.BadRequest("processed_by is required")
	}
	if req.ManagerOverride && s.authorizer != nil {
		if err := s.authorizer.Authorize(ctx, req.ManagerPIN); err != nil {
			return nil, err
		}
	}

	var idempKey string
	if req.IdempotencyKey != "" {
		idempKey = domain.BuildReturnIdempotencyKey(processedBy, req.IdempotencyKey)

		// Layer 1: Redis, Layer 2: DB
		if replay, err := s.replay(ctx, idempKey, true); err != nil || replay != nil {
			return replay, err
		}

		release, err := s.claim(ctx, idempKey)
		if err != nil {
			return nil, err
		}
		defer release()

		// The first request may have committed between the check and the claim.
		if replay, err := s.replay(ctx, idempKey, false); err != nil || replay != nil {
			return replay, err
		}
	}

	result, err := s.settle(ctx, req, processedBy, idempKey)
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, result, idempKey)
	return result, nil
}

func (s *ReturnServiceImpl) settle(ctx context.Context, req ports.ReturnRequest, processedBy, idempKey string) (*ports.ProcessReturnResult, error) {
	if s.cfg.SettlementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SettlementTimeout)
		defer cancel()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, txFailure("begin settlement", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the sale; concurrent returns for it wait here and then see our writes.
	sale, err := s.saleRepo.GetByIDForUpdate(ctx, dbTx, req.SaleID)
	if err != nil {
		return nil, txFailure("lock sale", err)
	}
	if sale == nil {
		return nil, apperror.ErrNotFound("sale")
	}

	policy, err := s.resolver.ResolveForSale(ctx, sale)
	if err != nil {
		return nil, err
	}
	checked, err := s.validator.check(ctx, req, sale, policy)
	if err != nil {
		return nil, err
	}
	if !checked.result.Valid {
		return nil, apperror.ErrValidation(checked.result.Errors)
	}
	if checked.result.RequiresApproval && !req.ManagerOverride {
		return nil, apperror.ErrApprovalRequired(checked.approval)
	}

	now := s.now()
	returnNo, err := s.numbers.next(ctx, dbTx, s.cfg.ReturnPrefix, now)
	if err != nil {
		return nil, txFailure("number return", err)
	}

	rt := &domain.ReturnTransaction{
		ID:               uuid.New(),
		ReturnNumber:     returnNo,
		SaleID:           sale.ID,
		InvoiceNo:        sale.InvoiceNo,
		CustomerID:       sale.CustomerID,
		ReturnType:       req.ReturnType,
		Items:            checked.items,
		Subtotal:         checked.subtotal,
		Discount:         req.Discount,
		TotalAmount:      checked.total,
		RefundMethod:     req.RefundMethod,
		PolicyID:         policyID(policy),
		Status:           domain.ReturnStatusProcessed,
		RequiresApproval: checked.result.RequiresApproval,
		ProcessedBy:      processedBy,
		ProcessedAt:      now,
		Notes:            req.Notes,
		CreatedAt:        now,
	}
	if rt.RequiresApproval {
		approver := processedBy
		rt.ApprovedBy = &approver
	}

	result := &ports.ProcessReturnResult{
		ReturnTransaction: rt,
		Warnings:          checked.result.Warnings,
	}

	if strategy, ok := s.strategies[req.RefundMethod]; ok {
		outcome, err := strategy.Settle(ctx, dbTx, SettlementInput{
			Return:   rt,
			Sale:     sale,
			Policy:   policy,
			IssuedBy: processedBy,
			Now:      now,
		})
		if err != nil {
			return nil, txFailure("settle return", err)
		}
		if outcome.Slip != nil {
			rt.ExchangeSlipID = &outcome.Slip.ID
			result.ExchangeSlip = outcome.Slip
		}
		if outcome.Credit != nil {
			rt.OverpaymentID = &outcome.Credit.ID
			result.Overpayment = outcome.Credit
		}
	}

	if err := s.returnRepo.Create(ctx, dbTx, rt); err != nil {
		return nil, txFailure("create return transaction", err)
	}

	status, err := s.ledger.Append(ctx, dbTx, sale, rt)
	if err != nil {
		return nil, txFailure("update sale ledger", err)
	}
	result.SaleStatus = status

	if _, err := s.inventory.Apply(ctx, dbTx, rt, processedBy, now); err != nil {
		return nil, txFailure("adjust inventory", err)
	}

	units := s.barcodes.Track(ctx, dbTx, rt, now)

	if idempKey != "" {
		respJSON, err := json.Marshal(result)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal return result: %w", err))
		}
		if err := s.idempRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
			Key:                 idempKey,
			ReturnTransactionID: rt.ID,
			ResponseJSON:        respJSON,
			CreatedAt:           now,
		}); err != nil {
			return nil, txFailure("save idempotency log", err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, txFailure("commit settlement", err)
	}

	s.log.Info().
		Str("return_number", rt.ReturnNumber).
		Str("sale_id", sale.ID.String()).
		Str("invoice_no", sale.InvoiceNo).
		Int64("amount", rt.TotalAmount).
		Str("refund_method", string(rt.RefundMethod)).
		Str("sale_status", string(status)).
		Int("barcodes_returned", units).
		Str("processed_by", processedBy).
		Msg("return processed successfully")

	return result, nil
}

// afterCommit runs the best-effort hooks. None of them can fail the request.
func (s *ReturnServiceImpl) afterCommit(ctx context.Context, result *ports.ProcessReturnResult, idempKey string) {
	rt := result.ReturnTransaction

	tags := []string{saleTag(rt.SaleID)}
	if rt.CustomerID != nil {
		tags = append(tags, customerTag(*rt.CustomerID))
	}
	invalidate(ctx, s.lookupCache, s.log, tags...)

	if idempKey != "" && s.idempCache != nil {
		respJSON, err := json.Marshal(result)
		if err == nil {
			err = s.idempCache.Set(ctx, idempKey, respJSON, s.cfg.IdempotencyTTL)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency result in redis")
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.Event{
			ID:         uuid.New(),
			Type:       domain.EventReturnProcessed,
			ResourceID: rt.ReturnNumber,
			CustomerID: rt.CustomerID,
			Data:       result,
			OccurredAt: rt.ProcessedAt,
		})
	}
}

// replay returns the stored result for key, if any. The Redis layer is only
// consulted when useCache is set; its failures fall through to the DB.
func (s *ReturnServiceImpl) replay(ctx context.Context, key string, useCache bool) (*ports.ProcessReturnResult, error) {
	if useCache && s.idempCache != nil {
		cached, err := s.idempCache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return decodeReturnResult(cached)
		}
	}

	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog == nil {
		return nil, nil
	}

	if s.idempCache != nil {
		if err := s.idempCache.Set(ctx, key, idempLog.ResponseJSON, s.cfg.IdempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to backfill idempotency cache")
		}
	}
	return decodeReturnResult(idempLog.ResponseJSON)
}

// claim takes the in-flight guard for key. When the guard store is down the
// request proceeds; the idempotency log's primary key still rejects a
// duplicate commit.
func (s *ReturnServiceImpl) claim(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if s.inFlight == nil {
		return noop, nil
	}

	acquired, err := s.inFlight.Acquire(ctx, key, s.cfg.InFlightTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("in-flight guard unavailable, continuing")
		return noop, nil
	}
	if !acquired {
		return nil, apperror.ErrRequestInFlight()
	}

	return func() {
		if err := s.inFlight.Release(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to release in-flight guard")
		}
	}, nil
}

func decodeReturnResult(data []byte) (*ports.ProcessReturnResult, error) {
	var result ports.ProcessReturnResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal stored return result: %w", err))
	}
	return &result, nil
}

func policyID(p *domain.ReturnPolicy) *uuid.UUID {
	if p == nil || p.IsDefault || p.ID == uuid.Nil {
		return nil
	}
	id := p.ID
	return &id
}

var _ ports.ReturnService = (*ReturnServiceImpl)(nil)
