package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
)

const uniqueViolationCode = "23505"

// UniqueViolation reports the violated constraint name for a unique-key error.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// HandleQueryError records the query outcome and maps pgx.ErrNoRows to
// notFoundErr. Other errors are wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation string, startTime time.Time) error {
	ObserveQuery(operation, startTime, err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return notFoundErr
	default:
		return fmt.Errorf("failed to %s: %w", describe(operation), err)
	}
}

func HandleExecError(err error, operation string, startTime time.Time) error {
	ObserveQuery(operation, startTime, err)

	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", describe(operation), err)
}

// ObserveQuery records latency under a result label of ok, not_found,
// conflict or error. Only the last one counts as a store error.
func ObserveQuery(operation string, startTime time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, pgx.ErrNoRows) {
			result = "not_found"
		} else if _, ok := UniqueViolation(err); ok {
			result = "conflict"
		} else {
			metrics.StoreOperationErrors.WithLabelValues(metrics.StorePostgres, operation, errorKind(err)).Inc()
		}
	}
	metrics.StoreOperationDurationSeconds.WithLabelValues(metrics.StorePostgres, operation, result).Observe(time.Since(startTime).Seconds())
}

func errorKind(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "sqlstate_" + pgErr.Code
	}
	if pgconn.Timeout(err) {
		return "timeout"
	}
	return "connection"
}

func describe(operation string) string {
	return strings.ReplaceAll(operation, "_", " ")
}
