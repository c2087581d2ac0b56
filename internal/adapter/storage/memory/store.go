package memory

import (
	"slices"
	"sync"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

type product struct {
	id         uuid.UUID
	name       string
	categoryID *uuid.UUID
}

// Store keeps every table in process. It backs the memory storage driver
// and the scenario tests.
type Store struct {
	mu            sync.Mutex
	locks         keyLocks
	sales         map[uuid.UUID]*domain.Sale
	policies      []domain.ReturnPolicy
	returns       map[uuid.UUID]*domain.ReturnTransaction
	returnNumbers map[string]uuid.UUID
	slips         map[uuid.UUID]*domain.ExchangeSlip
	slipNumbers   map[string]uuid.UUID
	credits       map[uuid.UUID]*domain.CustomerOverpayment
	inventory     map[uuid.UUID]*domain.InventoryRecord
	movements     map[uuid.UUID]domain.StockMovement
	barcodes      map[uuid.UUID]*domain.UnitBarcode
	customers     map[uuid.UUID]*domain.Customer
	products      map[uuid.UUID]product
	sequences     map[string]int64
	idempotency   map[string]domain.IdempotencyLog
	auditLogs     []domain.AuditLog
	notifications []domain.NotificationDeliveryLog

	// pending holds the committed image of rows written by open units of
	// work; pendingStock the uncommitted stock deltas per product.
	pending      map[string]pendingRow
	pendingStock map[uuid.UUID]int
}

// pendingRow is the image outside readers see. A nil prev marks a row the
// unit of work inserted.
type pendingRow struct {
	owner *Tx
	prev  any
}

// visible returns the committed image of the row stored under key. Callers
// hold s.mu.
func visible[T any](s *Store, key string, cur *T) *T {
	if p, ok := s.pending[key]; ok {
		prev, _ := p.prev.(*T)
		return prev
	}
	return cur
}

// New returns an empty store.
func New() *Store {
	return &Store{
		sales:         make(map[uuid.UUID]*domain.Sale),
		returns:       make(map[uuid.UUID]*domain.ReturnTransaction),
		returnNumbers: make(map[string]uuid.UUID),
		slips:         make(map[uuid.UUID]*domain.ExchangeSlip),
		slipNumbers:   make(map[string]uuid.UUID),
		credits:       make(map[uuid.UUID]*domain.CustomerOverpayment),
		inventory:     make(map[uuid.UUID]*domain.InventoryRecord),
		movements:     make(map[uuid.UUID]domain.StockMovement),
		barcodes:      make(map[uuid.UUID]*domain.UnitBarcode),
		customers:     make(map[uuid.UUID]*domain.Customer),
		products:      make(map[uuid.UUID]product),
		sequences:     make(map[string]int64),
		idempotency:   make(map[string]domain.IdempotencyLog),
		pending:       make(map[string]pendingRow),
		pendingStock:  make(map[uuid.UUID]int),
	}
}

// NewSeeded returns a store with a small demo catalogue for dev mode.
func NewSeeded(now time.Time) *Store {
	s := New()

	electronics := uuid.MustParse("7d1c0f7e-3f0a-4a59-9d0e-0c6b8f1a2b01")
	lamp := uuid.MustParse("a4f1d2c3-0000-4000-8000-000000000001")
	kettle := uuid.MustParse("a4f1d2c3-0000-4000-8000-000000000002")
	customer := uuid.MustParse("c0ffee00-0000-4000-8000-000000000001")

	s.PutProduct(lamp, "Desk Lamp", &electronics)
	s.PutProduct(kettle, "Electric Kettle", nil)
	s.PutCustomer(domain.Customer{ID: customer, Name: "Nimal Perera", Phone: "0771234567", Type: "retail"})
	s.PutInventory(domain.InventoryRecord{ProductID: lamp, CurrentStock: 20, AvailableStock: 20, MinimumStock: 5})
	s.PutInventory(domain.InventoryRecord{ProductID: kettle, CurrentStock: 8, AvailableStock: 8, MinimumStock: 2})

	s.PutSale(domain.Sale{
		ID:         uuid.MustParse("5a1e0000-0000-4000-8000-000000000001"),
		InvoiceNo:  "INV-000001",
		CustomerID: &customer,
		SaleDate:   now.AddDate(0, 0, -3),
		Items: []domain.SaleItem{
			{ProductID: lamp, CategoryID: &electronics, ProductName: "Desk Lamp", Quantity: 2, UnitPrice: 4500, UnitCost: 3000, LineTotal: 9000},
			{ProductID: kettle, ProductName: "Electric Kettle", Quantity: 1, UnitPrice: 6000, UnitCost: 4200, LineTotal: 6000},
		},
		Total: 15000,
	})

	policy := *domain.DefaultReturnPolicy()
	policy.ID = uuid.MustParse("b0000000-0000-4000-8000-000000000001")
	policy.Name = "Standard"
	policy.Priority = 100
	policy.IsDefault = false
	policy.Approval.ManagerApprovalThreshold = 50000
	s.PutPolicy(policy)
	return s
}

// PutSale inserts or replaces a sale.
func (s *Store) PutSale(sale domain.Sale) {
	if sale.Status == "" {
		sale.Status = domain.SaleStatusCompleted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[sale.ID] = cloneSale(&sale)
}

// PutPolicy inserts or replaces a policy.
func (s *Store) PutPolicy(p domain.ReturnPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = slices.DeleteFunc(s.policies, func(e domain.ReturnPolicy) bool { return e.ID == p.ID })
	s.policies = append(s.policies, p)
}

func (s *Store) PutCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = &c
}

func (s *Store) PutProduct(id uuid.UUID, name string, categoryID *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = product{id: id, name: name, categoryID: categoryID}
}

func (s *Store) PutInventory(r domain.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[r.ProductID] = &r
}

func (s *Store) PutBarcode(b domain.UnitBarcode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes[b.ID] = &b
}

// PutCredit inserts a customer credit outside any unit of work.
func (s *Store) PutCredit(o domain.CustomerOverpayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits[o.ID] = cloneCredit(&o)
}

// Inventory returns the committed stock counters for a product.
func (s *Store) Inventory(productID uuid.UUID) (domain.InventoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.inventory[productID]
	if !ok {
		return domain.InventoryRecord{}, false
	}
	out := *r
	out.CurrentStock -= s.pendingStock[productID]
	out.AvailableStock -= s.pendingStock[productID]
	return out, true
}

// StockMovements returns the movement ledger in creation order.
func (s *Store) StockMovements() []domain.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StockMovement, 0, len(s.movements))
	for id, m := range s.movements {
		if _, open := s.pending["movement:"+id.String()]; open {
			continue
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b domain.StockMovement) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (s *Store) Barcode(id uuid.UUID) (domain.UnitBarcode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := visible(s, "barcode:"+id.String(), s.barcodes[id])
	if b == nil {
		return domain.UnitBarcode{}, false
	}
	return *b, true
}

func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.auditLogs)
}

func (s *Store) NotificationLogs() []domain.NotificationDeliveryLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

func cloneSale(src *domain.Sale) *domain.Sale {
	dst := *src
	dst.Items = slices.Clone(src.Items)
	dst.Returns = make([]domain.SaleReturnEntry, len(src.Returns))
	for i, r := range src.Returns {
		r.Items = slices.Clone(r.Items)
		dst.Returns[i] = r
	}
	return &dst
}

func cloneReturn(src *domain.ReturnTransaction) *domain.ReturnTransaction {
	dst := *src
	dst.Items = slices.Clone(src.Items)
	return &dst
}

func cloneSlip(src *domain.ExchangeSlip) *domain.ExchangeSlip {
	dst := *src
	dst.Items = slices.Clone(src.Items)
	return &dst
}

func cloneCredit(src *domain.CustomerOverpayment) *domain.CustomerOverpayment {
	dst := *src
	dst.UsageHistory = slices.Clone(src.UsageHistory)
	return &dst
}
