package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Class tells the executor what to do with a failed attempt.
type Class struct {
	Retryable     bool
	RecordFailure bool
}

type Classifier func(err error) Class

// Observer receives retry and breaker transitions, typically for metrics.
type Observer interface {
	RecordRetry(operation string)
	RecordBreakerState(operation, state string)
}

type Executor struct {
	policy   Policy
	observer Observer

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

type ExecutorOption func(*Executor)

func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) {
		e.observer = o
	}
}

func NewExecutor(policy Policy, opts ...ExecutorOption) *Executor {
	e := &Executor{
		policy:   policy.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes fn under the retry policy and, when enabled, the breaker for
// operation. A nil classifier treats every error as permanent.
func (e *Executor) Run(ctx context.Context, operation string, fn func(context.Context) error, classify Classifier) error {
	_, err := Call(ctx, e, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, classify)
	return err
}

// Call is Run for operations that return a value.
func Call[T any](ctx context.Context, e *Executor, operation string, fn func(context.Context) (T, error), classify Classifier) (T, error) {
	var zero T
	if fn == nil {
		return zero, fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = permanent
	}

	if !e.policy.BreakerEnabled {
		return retry(ctx, e, op, fn, classify)
	}

	out, err := e.breaker(op, classify).Execute(func() (any, error) {
		return retry(ctx, e, op, fn, classify)
	})
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func retry[T any](ctx context.Context, e *Executor, op string, fn func(context.Context) (T, error), classify Classifier) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		if !classify(err).Retryable || attempt >= e.policy.MaxAttempts {
			return zero, err
		}

		wait := e.policy.backoff(attempt)
		slog.Warn("retry_attempt",
			"operation", op,
			"attempt", attempt,
			"max_attempts", e.policy.MaxAttempts,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", err,
		)
		if e.observer != nil {
			e.observer.RecordRetry(op)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

func (e *Executor) breaker(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[operation]; ok {
		return cb
	}

	p := e.policy
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: p.BreakerHalfOpenMax,
		Timeout:     p.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < p.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= p.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
			if e.observer != nil {
				e.observer.RecordBreakerState(name, to.String())
			}
		},
	})
	e.breakers[operation] = cb
	return cb
}

// State reports the breaker state for operation, or "closed" if it never ran.
func (e *Executor) State(operation string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cb, ok := e.breakers[operation]; ok {
		return cb.State().String()
	}
	return gobreaker.StateClosed.String()
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func permanent(error) Class {
	return Class{Retryable: false, RecordFailure: true}
}
