package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultSearchLimit = 50

// SaleRepo implements ports.SaleRepository.
type SaleRepo struct {
	store *Store
}

func NewSaleRepo(s *Store) *SaleRepo {
	return &SaleRepo{store: s}
}

func (r *SaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s := visible(r.store, saleKey(id), r.store.sales[id])
	if s == nil {
		return nil, nil
	}
	return cloneSale(s), nil
}

// GetByIDForUpdate takes the sale's row lock before reading it.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Sale, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, saleKey(id)); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *SaleRepo) Search(ctx context.Context, q domain.SaleSearch) ([]domain.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	invoice := strings.ToLower(q.InvoiceNo)
	var out []domain.Sale
	for id, cur := range r.store.sales {
		s := visible(r.store, saleKey(id), cur)
		if s == nil {
			continue
		}
		if invoice != "" && !strings.Contains(strings.ToLower(s.InvoiceNo), invoice) {
			continue
		}
		if q.CustomerIDs != nil && (s.CustomerID == nil || !slices.Contains(q.CustomerIDs, *s.CustomerID)) {
			continue
		}
		if q.ProductIDs != nil && !slices.ContainsFunc(s.Items, func(it domain.SaleItem) bool {
			return slices.Contains(q.ProductIDs, it.ProductID)
		}) {
			continue
		}
		if q.From != nil && s.SaleDate.Before(*q.From) {
			continue
		}
		if q.To != nil && s.SaleDate.After(*q.To) {
			continue
		}
		out = append(out, *cloneSale(s))
	}

	slices.SortFunc(out, func(a, b domain.Sale) int { return b.SaleDate.Compare(a.SaleDate) })
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AppendReturn mirrors the guarded UPDATE of the SQL store: the summary may
// never exceed the sale total.
func (r *SaleRepo) AppendReturn(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, entry domain.SaleReturnEntry, status domain.SaleStatus) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.sales[saleID]
	if !ok {
		return fmt.Errorf("sale %s not found", saleID)
	}
	if s.ReturnSummary.TotalReturned+entry.Amount > s.Total {
		return fmt.Errorf("sale %s: return would exceed sale total", saleID)
	}

	next := cloneSale(s)
	entry.Items = slices.Clone(entry.Items)
	units := 0
	for _, it := range entry.Items {
		units += it.Quantity
	}
	at := entry.ProcessedAt
	next.Returns = append(next.Returns, entry)
	next.ReturnSummary.TotalReturned += entry.Amount
	next.ReturnSummary.TotalReturnedItems += units
	next.ReturnSummary.LastReturnAt = &at
	next.Status = status

	r.store.sales[saleID] = next
	t.stage(saleKey(saleID), s)
	t.record(func() { r.store.sales[saleID] = s })
	return nil
}

func saleKey(id uuid.UUID) string { return "sale:" + id.String() }

// PolicyRepo implements ports.PolicyRepository.
type PolicyRepo struct {
	store *Store
}

func NewPolicyRepo(s *Store) *PolicyRepo {
	return &PolicyRepo{store: s}
}

func (r *PolicyRepo) ListActive(ctx context.Context) ([]domain.ReturnPolicy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.ReturnPolicy
	for _, p := range r.store.policies {
		if p.Active {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ReturnPolicy) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	store *Store
}

func NewCustomerRepo(s *Store) *CustomerRepo {
	return &CustomerRepo{store: s}
}

func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

// FindIDs matches name and email partially, phone and NIC exactly.
func (r *CustomerRepo) FindIDs(ctx context.Context, f domain.CustomerFilter) ([]uuid.UUID, error) {
	if f.IsEmpty() {
		return nil, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := []uuid.UUID{}
	for _, c := range r.store.customers {
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		if f.Email != "" && !containsFold(c.Email, f.Email) {
			continue
		}
		if f.Phone != "" && c.Phone != f.Phone {
			continue
		}
		if f.NIC != "" && c.NIC != f.NIC {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	store *Store
}

func NewProductRepo(s *Store) *ProductRepo {
	return &ProductRepo{store: s}
}

func (r *ProductRepo) FindIDsByName(ctx context.Context, name string) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := []uuid.UUID{}
	for _, p := range r.store.products {
		if containsFold(p.name, name) {
			ids = append(ids, p.id)
		}
	}
	return ids, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
