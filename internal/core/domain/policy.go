package domain

import (
	"github.com/google/uuid"
)

// RefundMethod is how the customer is paid back.
type RefundMethod string

const (
	RefundMethodCash          RefundMethod = "cash"
	RefundMethodCard          RefundMethod = "card"
	RefundMethodBankTransfer  RefundMethod = "bank_transfer"
	RefundMethodDigitalWallet RefundMethod = "digital_wallet"
	RefundMethodStoreCredit   RefundMethod = "store_credit"
	RefundMethodOverpayment   RefundMethod = "overpayment"
	RefundMethodExchangeSlip  RefundMethod = "exchange_slip"
)

// PolicyFlag names one allow-switch on a policy.
type PolicyFlag string

const (
	FlagAllowCash          PolicyFlag = "allow_cash"
	FlagAllowCard          PolicyFlag = "allow_card"
	FlagAllowBankTransfer  PolicyFlag = "allow_bank_transfer"
	FlagAllowDigitalWallet PolicyFlag = "allow_digital_wallet"
	FlagAllowStoreCredit   PolicyFlag = "allow_store_credit"
	FlagAllowExchange      PolicyFlag = "allow_exchange"
)

// refundMethodFlags must list every RefundMethod.
var refundMethodFlags = map[RefundMethod]PolicyFlag{
	RefundMethodCash:          FlagAllowCash,
	RefundMethodCard:          FlagAllowCard,
	RefundMethodBankTransfer:  FlagAllowBankTransfer,
	RefundMethodDigitalWallet: FlagAllowDigitalWallet,
	RefundMethodStoreCredit:   FlagAllowStoreCredit,
	RefundMethodOverpayment:   FlagAllowStoreCredit,
	RefundMethodExchangeSlip:  FlagAllowExchange,
}

// RefundMethods lists every supported method in a stable order.
func RefundMethods() []RefundMethod {
	return []RefundMethod{
		RefundMethodCash, RefundMethodCard, RefundMethodBankTransfer, RefundMethodDigitalWallet,
		RefundMethodStoreCredit, RefundMethodOverpayment, RefundMethodExchangeSlip,
	}
}

// PolicyFlagFor maps a refund method to the allow-flag that governs it.
func PolicyFlagFor(m RefundMethod) (PolicyFlag, bool) {
	f, ok := refundMethodFlags[m]
	return f, ok
}

// Valid reports whether m is a known refund method.
func (m RefundMethod) Valid() bool {
	_, ok := refundMethodFlags[m]
	return ok
}

// IsCredit reports whether the method settles into a customer credit row.
func (m RefundMethod) IsCredit() bool {
	return m == RefundMethodStoreCredit || m == RefundMethodOverpayment
}

// Disposition decides what happens to a returned unit physically.
type Disposition string

const (
	DispositionRestock          Disposition = "restock"
	DispositionDamaged          Disposition = "damaged"
	DispositionWriteOff         Disposition = "write_off"
	DispositionReturnToSupplier Disposition = "return_to_supplier"
)

func (d Disposition) Valid() bool {
	switch d {
	case DispositionRestock, DispositionDamaged, DispositionWriteOff, DispositionReturnToSupplier:
		return true
	}
	return false
}

// ReturnPolicy is read-only configuration selected once per return.
type ReturnPolicy struct {
	ID                       uuid.UUID          `json:"id"`
	Name                     string             `json:"name"`
	Active                   bool               `json:"active"`
	Priority                 int                `json:"priority"`
	ReturnWindow             ReturnWindow       `json:"return_window"`
	RefundMethods            RefundMethodPolicy `json:"refund_methods"`
	Approval                 ApprovalRules      `json:"approval"`
	Restrictions             CustomerLimits     `json:"restrictions"`
	StockHandling            StockHandling      `json:"stock_handling"`
	ExchangeSlipValidityDays int                `json:"exchange_slip_validity_days,omitempty"`
	ApplicableTo             Applicability      `json:"applicable_to"`
	IsDefault                bool               `json:"is_default,omitempty"`
}

type ReturnWindow struct {
	Days int `json:"days"`
}

type RefundMethodPolicy struct {
	AllowCash          bool `json:"allow_cash"`
	AllowCard          bool `json:"allow_card"`
	AllowBankTransfer  bool `json:"allow_bank_transfer"`
	AllowDigitalWallet bool `json:"allow_digital_wallet"`
	AllowStoreCredit   bool `json:"allow_store_credit"`
	AllowExchange      bool `json:"allow_exchange"`
}

// Allows reads a single flag.
func (r RefundMethodPolicy) Allows(f PolicyFlag) bool {
	switch f {
	case FlagAllowCash:
		return r.AllowCash
	case FlagAllowCard:
		return r.AllowCard
	case FlagAllowBankTransfer:
		return r.AllowBankTransfer
	case FlagAllowDigitalWallet:
		return r.AllowDigitalWallet
	case FlagAllowStoreCredit:
		return r.AllowStoreCredit
	case FlagAllowExchange:
		return r.AllowExchange
	}
	return false
}

type ApprovalRules struct {
	ManagerApprovalThreshold int64 `json:"manager_approval_threshold"` // 0 = no threshold
	RequireReceipt           bool  `json:"require_receipt"`
}

// CustomerLimits caps returns per customer over a rolling window.
type CustomerLimits struct {
	MaxReturnsPerCustomer      int   `json:"max_returns_per_customer"`
	MaxReturnAmountPerCustomer int64 `json:"max_return_amount_per_customer"`
	PeriodDays                 int   `json:"period_days"`
}

// Enabled reports whether any per-customer cap applies.
func (c CustomerLimits) Enabled() bool {
	return c.PeriodDays > 0 && (c.MaxReturnsPerCustomer > 0 || c.MaxReturnAmountPerCustomer > 0)
}

type StockHandling struct {
	AutoRestock        bool        `json:"auto_restock"`
	DefaultDisposition Disposition `json:"default_disposition"`
}

// Applicability scopes a policy to products, categories or customer types.
type Applicability struct {
	AllProducts   bool        `json:"all_products"`
	CategoryIDs   []uuid.UUID `json:"category_ids,omitempty"`
	ProductIDs    []uuid.UUID `json:"product_ids,omitempty"`
	CustomerTypes []string    `json:"customer_types,omitempty"`
}

// Matches reports whether any sale line falls inside the scope.
func (a Applicability) Matches(sale *Sale) bool {
	if a.AllProducts {
		return true
	}
	for _, it := range sale.Items {
		for _, id := range a.ProductIDs {
			if id == it.ProductID {
				return true
			}
		}
		if it.CategoryID == nil {
			continue
		}
		for _, id := range a.CategoryIDs {
			if id == *it.CategoryID {
				return true
			}
		}
	}
	return false
}

// DispositionFor picks the per-item override or falls back to the policy.
func (p *ReturnPolicy) DispositionFor(override Disposition) Disposition {
	if override != "" {
		return override
	}
	if p.StockHandling.AutoRestock {
		return DispositionRestock
	}
	if p.StockHandling.DefaultDisposition != "" {
		return p.StockHandling.DefaultDisposition
	}
	return DispositionDamaged
}

// DefaultReturnPolicy is used when no configured policy applies.
func DefaultReturnPolicy() *ReturnPolicy {
	return &ReturnPolicy{
		Name:         "Default Return Policy",
		Active:       true,
		ReturnWindow: ReturnWindow{Days: 30},
		RefundMethods: RefundMethodPolicy{
			AllowCash:        true,
			AllowCard:        true,
			AllowStoreCredit: true,
			AllowExchange:    true,
		},
		StockHandling: StockHandling{
			AutoRestock:        true,
			DefaultDisposition: DispositionRestock,
		},
		ApplicableTo: Applicability{AllProducts: true},
		IsDefault:    true,
	}
}
