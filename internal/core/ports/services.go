package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// HashService handles secret hashing (Argon2id).
type HashService interface {
	Hash(secret string) (string, error)
	Verify(secret string, hash string) (bool, error)
}

// TokenService handles staff JWTs.
type TokenService interface {
	Generate(staffID string, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	StaffID string
	Role    string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// InFlightGuard claims a key for the duration of one request.
type InFlightGuard interface {
	// Acquire returns false when another request already holds the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// LookupCache caches read paths. Entries are grouped under tags so a
// mutation can drop every entry that mentions an affected sale or customer.
type LookupCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error
	Invalidate(ctx context.Context, tags []string) error
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// OverrideAuthorizer checks the manager credential sent with an override.
type OverrideAuthorizer interface {
	Authorize(ctx context.Context, pin string) error
}

// Notifier is the fire-and-forget notification collaborator. It never blocks
// the caller and never reports failure.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event)
}

// AuditService records staff actions asynchronously.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// ReturnService validates and settles returns.
type ReturnService interface {
	ValidateReturn(ctx context.Context, req ReturnRequest) (*ValidationResult, error)
	ProcessReturn(ctx context.Context, req ReturnRequest, processedBy string) (*ProcessReturnResult, error)
}

// ReturnRequest is the validated input for both validation and processing.
type ReturnRequest struct {
	SaleID           uuid.UUID
	Items            []ReturnRequestItem
	ReturnType       domain.ReturnType
	RefundMethod     domain.RefundMethod
	Discount         int64
	ManagerOverride  bool
	ManagerPIN       string
	ReceiptPresented bool
	Notes            string
	IdempotencyKey   string
}

// ReturnRequestItem is one requested product line. A zero ReturnAmount
// defaults to unit price times quantity.
type ReturnRequestItem struct {
	ProductID    uuid.UUID
	Quantity     int
	ReturnAmount int64
	Reason       string
	Condition    string
	Disposition  domain.Disposition
}

// ValidationResult is the validator verdict. Errors and Warnings are never nil.
type ValidationResult struct {
	Valid            bool                 `json:"valid"`
	Errors           []string             `json:"errors"`
	Warnings         []string             `json:"warnings"`
	RequiresApproval bool                 `json:"requires_approval"`
	Policy           *domain.ReturnPolicy `json:"policy"`
	TotalAmount      int64                `json:"total_amount"`
}

// ProcessReturnResult is what a committed settlement produced.
type ProcessReturnResult struct {
	ReturnTransaction *domain.ReturnTransaction   `json:"return_transaction"`
	ExchangeSlip      *domain.ExchangeSlip        `json:"exchange_slip,omitempty"`
	Overpayment       *domain.CustomerOverpayment `json:"overpayment,omitempty"`
	SaleStatus        domain.SaleStatus           `json:"sale_status"`
	Warnings          []string                    `json:"warnings,omitempty"`
}

// ExchangeSlipService searches and settles exchange slips.
type ExchangeSlipService interface {
	SearchExchangeSlips(ctx context.Context, q SlipSearch) ([]domain.ExchangeSlip, error)
	RedeemExchangeSlip(ctx context.Context, slipNo string, saleID uuid.UUID, redeemedBy string) (*domain.ExchangeSlip, error)
	CancelExchangeSlip(ctx context.Context, identifier string, cancelledBy string, reason string) (*domain.ExchangeSlip, error)
}

// SlipSearch finds slips by customer ID or phone; one must be set.
type SlipSearch struct {
	CustomerID *uuid.UUID
	Phone      string
}

// OverpaymentService consumes customer credit.
type OverpaymentService interface {
	UseOverpayment(ctx context.Context, req UseOverpaymentRequest) (*UseOverpaymentResult, error)
	ListCredits(ctx context.Context, customerID uuid.UUID) (*CreditBalance, error)
}

type UseOverpaymentRequest struct {
	CustomerID uuid.UUID
	Amount     int64
	SaleID     uuid.UUID
	UsedBy     string
}

type UseOverpaymentResult struct {
	CustomerID       uuid.UUID                 `json:"customer_id"`
	AmountUsed       int64                     `json:"amount_used"`
	RemainingBalance int64                     `json:"remaining_balance"`
	Usages           []domain.OverpaymentUsage `json:"usages"`
}

type CreditBalance struct {
	CustomerID uuid.UUID                    `json:"customer_id"`
	Available  int64                        `json:"available"`
	Credits    []domain.CustomerOverpayment `json:"credits"`
}

// SaleLookupService finds sales eligible for a return.
type SaleLookupService interface {
	LookupSales(ctx context.Context, criteria domain.SaleLookupCriteria) ([]domain.Sale, error)
}

// ReportingService serves read-only return reporting.
type ReportingService interface {
	GetCustomerReturnHistory(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ReturnTransaction, error)
	GetReturnAnalytics(ctx context.Context, from, to time.Time) (*domain.ReturnAnalytics, error)
}
