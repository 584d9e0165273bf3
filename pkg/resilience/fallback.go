// SPDX-License-Identifier: Apache-2.0

// Package resilience keeps run failures inside the process boundary.
//
// The entry point's contract is that every invocation yields a usable
// string, so the one pattern here is the fallback: run the primary and,
// on failure, hand the typed error to a strategy that produces the
// degraded value. There is no retry or circuit breaking; a run either
// completes or falls back in a single pass.
package resilience

import "context"

// FallbackStrategy produces a degraded value when the primary operation fails.
type FallbackStrategy[T any] interface {
	// Execute runs the fallback operation. It receives the primary error
	// so diagnostics stay structured up to the boundary.
	Execute(ctx context.Context, primaryErr error) (T, error)
}

// FallbackFunc wraps a function as a FallbackStrategy.
type FallbackFunc[T any] func(ctx context.Context, primaryErr error) (T, error)

// Execute implements FallbackStrategy.
func (f FallbackFunc[T]) Execute(ctx context.Context, err error) (T, error) {
	return f(ctx, err)
}

// StaticFallback returns a fixed value on failure.
type StaticFallback[T any] struct {
	Value T
}

// Execute implements FallbackStrategy.
func (s *StaticFallback[T]) Execute(ctx context.Context, primaryErr error) (T, error) {
	return s.Value, nil
}

// WithFallback executes fn and, on error, consults the fallback strategy.
// The primary error escapes only if the strategy itself returns one.
func WithFallback[T any](ctx context.Context, fn func() (T, error), fallback FallbackStrategy[T]) (T, error) {
	value, err := fn()
	if err == nil {
		return value, nil
	}

	return fallback.Execute(ctx, err)
}
