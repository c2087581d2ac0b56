package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/logger"

	"github.com/rs/zerolog"
)

const maxLookupLimit = 200

// SaleLookupServiceImpl implements ports.SaleLookupService.
type SaleLookupServiceImpl struct {
	saleRepo     ports.SaleRepository
	customerRepo ports.CustomerRepository
	productRepo  ports.ProductRepository
	cache        ports.LookupCache
	cacheTTL     time.Duration
	log          zerolog.Logger
}

// NewSaleLookupService creates a new SaleLookupServiceImpl. cache may be nil.
func NewSaleLookupService(
	saleRepo ports.SaleRepository,
	customerRepo ports.CustomerRepository,
	productRepo ports.ProductRepository,
	cache ports.LookupCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *SaleLookupServiceImpl {
	return &SaleLookupServiceImpl{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		log:          logger.WithComponent(log, "sale_lookup"),
	}
}

// LookupSales finds sales matching every supplied criterion. Customer and
// product criteria are resolved to IDs first; no match there means no sales.
func (s *SaleLookupServiceImpl) LookupSales(ctx context.Context, c domain.SaleLookupCriteria) ([]domain.Sale, error) {
	if c.IsEmpty() {
		return nil, apperror.BadRequest("at least one search criterion is required")
	}
	if c.From != nil && c.To != nil && c.To.Before(*c.From) {
		return nil, apperror.BadRequest("to must not be before from")
	}
	if c.Limit <= 0 || c.Limit > maxLookupLimit {
		c.Limit = defaultLookupLimit(c.Limit)
	}

	key := cacheKey("sales", c)
	var cached []domain.Sale
	if readCached(ctx, s.cache, s.log, key, &cached) {
		return cached, nil
	}

	q := domain.SaleSearch{
		InvoiceNo: strings.TrimSpace(c.InvoiceNo),
		From:      c.From,
		To:        c.To,
		Limit:     c.Limit,
	}

	if !c.Customer.IsEmpty() {
		ids, err := s.customerRepo.FindIDs(ctx, c.Customer)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find customers: %w", err))
		}
		if len(ids) == 0 {
			return []domain.Sale{}, nil
		}
		q.CustomerIDs = ids
	}

	if name := strings.TrimSpace(c.ProductName); name != "" {
		ids, err := s.productRepo.FindIDsByName(ctx, name)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find products: %w", err))
		}
		if len(ids) == 0 {
			return []domain.Sale{}, nil
		}
		q.ProductIDs = ids
	}

	sales, err := s.saleRepo.Search(ctx, q)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("search sales: %w", err))
	}
	if sales == nil {
		sales = []domain.Sale{}
	}

	tags := make([]string, 0, len(sales)*2)
	for _, sale := range sales {
		tags = append(tags, saleTag(sale.ID))
		if sale.CustomerID != nil {
			tags = append(tags, customerTag(*sale.CustomerID))
		}
	}
	// An empty result is not cached: nothing would invalidate it.
	if len(tags) > 0 {
		writeCached(ctx, s.cache, s.log, key, sales, s.cacheTTL, tags)
	}
	return sales, nil
}

func defaultLookupLimit(requested int) int {
	if requested > maxLookupLimit {
		return maxLookupLimit
	}
	return 50
}

var _ ports.SaleLookupService = (*SaleLookupServiceImpl)(nil)
