package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may safely retry the same request.
func (e *AppError) Retryable() bool {
	return e.Code == CodeTransaction
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

const (
	CodeValidation       = "RET_001"
	CodeApprovalRequired = "RET_002"
	CodeSlipNotActive    = "RET_010"
	CodeSlipExpired      = "RET_011"
	CodeInsufficient     = "RET_020"
	CodeInFlight         = "RET_030"
	CodeNotFound         = "RET_404"
	CodeBadRequest       = "REQ_001"
	CodeConfiguration    = "CFG_001"
	CodeInternal         = "SYS_001"
	CodeTransaction      = "SYS_002"
)

// ---- Returns domain (RET) ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrValidation carries every problem found, never only the first.
func ErrValidation(details []string) *AppError {
	e := New(CodeValidation, "Return request failed validation", http.StatusUnprocessableEntity)
	e.Details = details
	return e
}

func ErrApprovalRequired(reasons []string) *AppError {
	e := New(CodeApprovalRequired, "Manager approval required", http.StatusUnprocessableEntity)
	e.Details = reasons
	return e
}

func ErrSlipNotActive(status string) *AppError {
	return New(CodeSlipNotActive, fmt.Sprintf("Exchange slip is not active (status: %s)", status), http.StatusConflict)
}

func ErrSlipExpired() *AppError {
	return New(CodeSlipExpired, "Exchange slip has expired", http.StatusConflict)
}

func ErrInsufficientCredit(available, requested int64) *AppError {
	return New(CodeInsufficient,
		fmt.Sprintf("Insufficient credit balance: available %d, requested %d", available, requested),
		http.StatusConflict)
}

func ErrRequestInFlight() *AppError {
	return New(CodeInFlight, "A request with this idempotency key is already being processed", http.StatusConflict)
}

// ---- Request (REQ) ----

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrOverrideDenied() *AppError {
	return New("AUTH_005", "Manager override could not be authorized", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Configuration (CFG) ----

func ErrConfiguration(message string) *AppError {
	return New(CodeConfiguration, message, http.StatusUnprocessableEntity)
}

// ---- System & Infrastructure (SYS) ----

// ErrTransaction marks a failed unit of work. Nothing was committed.
func ErrTransaction(err error) *AppError {
	return Wrap(CodeTransaction, "Settlement could not be completed, please retry", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a single-message validation error.
func Validation(message string) *AppError {
	return ErrValidation([]string{message})
}
