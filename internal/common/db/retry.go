package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	"github.com/AlibekovAA/user-profile/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig applies to user lookups. Writes are not retried.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
	Multiplier:   2.0,
}

// Transient SQLSTATE classes and codes.
var (
	retryableClasses = map[string]struct{}{
		"08": {}, // connection exception
		"57": {}, // operator intervention, e.g. admin shutdown
	}
	retryableCodes = map[string]struct{}{
		"40001": {}, // serialization_failure
		"40P01": {}, // deadlock_detected
		"55P03": {}, // lock_not_available
	}
)

func IsRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) != 5 {
		return false
	}
	if _, ok := retryableCodes[pgErr.Code]; ok {
		return true
	}
	_, ok := retryableClasses[pgErr.Code[:2]]
	return ok
}

func (c RetryConfig) nextDelay(delay time.Duration) time.Duration {
	next := time.Duration(float64(delay) * c.Multiplier)
	if c.MaxDelay > 0 && next > c.MaxDelay {
		return c.MaxDelay
	}
	return next
}

// RetryWithBackoff runs operation until it succeeds, fails permanently or
// MaxAttempts is reached.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation func() error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				log.WithFields(ctx, logger.Fields{
					"action":  "db_retry_recovered",
					"attempt": attempt,
				}).Info("store query recovered after retry")
			}
			return nil
		}
		if !IsRetryableError(lastErr) || attempt == config.MaxAttempts {
			break
		}

		log.WithFields(ctx, logger.Fields{
			"action":  "db_retry",
			"attempt": attempt,
			"delay":   delay.String(),
		}).Warnf("transient store error: %v", lastErr)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay = config.nextDelay(delay)
	}

	if IsRetryableError(lastErr) {
		return fmt.Errorf("store query failed after %d attempts: %w", config.MaxAttempts, lastErr)
	}
	return lastErr
}
