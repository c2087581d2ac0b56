package service

import (
	"context"
	"errors"
	"fmt"

	"returns-settlement-engine/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes that mean "nothing was committed, try again".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// txFailure turns an error raised inside a unit of work into the error the
// caller sees. AppErrors pass through untouched.
func txFailure(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	wrapped := fmt.Errorf("%s: %w", op, err)
	if isTransient(err) {
		return apperror.ErrTransaction(wrapped)
	}
	return apperror.InternalError(wrapped)
}

// isTransient reports whether err is contention or a timeout rather than a bug.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
	}
	return false
}
