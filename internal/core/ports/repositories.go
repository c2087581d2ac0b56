package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Every write-side method takes the unit of work (pgx.Tx) explicitly.
// Read methods return (nil, nil) when the row does not exist.

// SaleRepository is the sale read/write collaborator.
type SaleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	// GetByIDForUpdate locks the sale row until the unit of work ends.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Sale, error)
	Search(ctx context.Context, q domain.SaleSearch) ([]domain.Sale, error)
	// AppendReturn appends the ledger entry and increments the return summary in place.
	AppendReturn(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, entry domain.SaleReturnEntry, status domain.SaleStatus) error
}

// PolicyRepository reads return policy configuration.
type PolicyRepository interface {
	// ListActive returns active policies ordered by ascending priority.
	ListActive(ctx context.Context) ([]domain.ReturnPolicy, error)
}

// ReturnRepository persists return transactions.
type ReturnRepository interface {
	Create(ctx context.Context, tx pgx.Tx, rt *domain.ReturnTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReturnTransaction, error)
	// CustomerStats counts approved/processed returns created at or after since.
	CustomerStats(ctx context.Context, customerID uuid.UUID, since time.Time) (*domain.CustomerReturnStats, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ReturnTransaction, error)
	Analytics(ctx context.Context, from, to time.Time) (*domain.ReturnAnalytics, error)
}

// ExchangeSlipRepository persists exchange slips.
type ExchangeSlipRepository interface {
	Create(ctx context.Context, tx pgx.Tx, slip *domain.ExchangeSlip) error
	GetBySlipNoForUpdate(ctx context.Context, tx pgx.Tx, slipNo string) (*domain.ExchangeSlip, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ExchangeSlip, error)
	// Transition writes the slip's new status only if it is still in from.
	Transition(ctx context.Context, tx pgx.Tx, slip *domain.ExchangeSlip, from domain.SlipStatus) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.ExchangeSlip, error)
}

// OverpaymentRepository persists customer credits and their usage history.
type OverpaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment) error
	// ListActiveByCustomerForUpdate locks active credits, oldest first.
	ListActiveByCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) ([]domain.CustomerOverpayment, error)
	// ApplyUsage decrements the balance in place and appends the usage row.
	ApplyUsage(ctx context.Context, tx pgx.Tx, o *domain.CustomerOverpayment, usage domain.OverpaymentUsage) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerOverpayment, error)
}

// InventoryRepository owns stock counters and the movement ledger.
type InventoryRepository interface {
	// AdjustStock increments stock in place and returns the before/after values.
	AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, delta int) (domain.StockChange, error)
	CreateMovement(ctx context.Context, tx pgx.Tx, movement *domain.StockMovement) error
}

// BarcodeRepository tracks serialized units.
type BarcodeRepository interface {
	// MarkReturned flips up to req.Limit sold units of the sale to returned.
	MarkReturned(ctx context.Context, tx pgx.Tx, req domain.BarcodeReturn) (int, error)
}

// CustomerRepository is the customer lookup collaborator.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindIDs(ctx context.Context, f domain.CustomerFilter) ([]uuid.UUID, error)
}

// ProductRepository is the product lookup collaborator.
type ProductRepository interface {
	FindIDsByName(ctx context.Context, name string) ([]uuid.UUID, error)
}

// SequenceRepository hands out per-(prefix, day) counters atomically.
type SequenceRepository interface {
	Next(ctx context.Context, tx pgx.Tx, prefix string, day string) (int64, error)
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// NotificationLogRepository persists notification delivery attempts.
type NotificationLogRepository interface {
	Create(ctx context.Context, log *domain.NotificationDeliveryLog) error
}

// DBTransactor starts a unit of work.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
