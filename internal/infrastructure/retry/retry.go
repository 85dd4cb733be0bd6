// Package retry wraps data-access calls that may fail due to transient
// contention with bounded, jittered retry. Only operations that are safe to
// repeat may be wrapped: idempotent reads, or writes guarded by the
// optimistic version check.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/worktrack/worktrack-api/internal/pkg/metrics"
	"github.com/worktrack/worktrack-api/internal/core/domain"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 200 * time.Millisecond
)

// Executor retries operations whose failures classify as transient, with
// exponential backoff (base delay, x2 multiplier, randomized jitter) up to a
// fixed attempt count. Non-transient errors propagate immediately.
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	log         zerolog.Logger
}

func NewExecutor(maxAttempts int, baseDelay time.Duration, log zerolog.Logger) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &Executor{maxAttempts: maxAttempts, baseDelay: baseDelay, log: log}
}

// Do runs op, retrying transient failures. On exhausting all attempts it
// returns domain.ErrBackendUnavailable; the underlying cause is logged
// server-side, never surfaced to callers. The operation name is used for
// logging and metrics only.
func (e *Executor) Do(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.RetryAttemptsTotal.WithLabelValues(operation).Inc()
			if err := e.sleep(ctx, attempt); err != nil {
				return err
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !Transient(err) {
			return err
		}

		lastErr = err
		e.log.Warn().Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Msg("transient data-access failure")
	}

	metrics.RetryExhaustedTotal.WithLabelValues(operation).Inc()
	e.log.Error().Err(lastErr).
		Str("operation", operation).
		Int("attempts", e.maxAttempts).
		Msg("retries exhausted")
	return fmt.Errorf("%s: %w", operation, domain.ErrBackendUnavailable)
}

// Transient reports whether err belongs to the retryable failure classes:
// lock contention, query timeout, or transient connection loss.
func Transient(err error) bool {
	if errors.Is(err, domain.ErrLockContention) ||
		errors.Is(err, domain.ErrQueryTimeout) ||
		errors.Is(err, domain.ErrConnectionLost) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// sleep blocks for the backoff delay before the given attempt, or until ctx
// is cancelled. Delay doubles per attempt; jitter keeps it in [delay/2, delay].
func (e *Executor) sleep(ctx context.Context, attempt int) error {
	delay := e.baseDelay << (attempt - 2)
	delay = delay/2 + time.Duration(rand.Int63n(int64(delay/2)+1))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
