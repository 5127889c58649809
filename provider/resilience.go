package provider

import (
	"context"

	"github.com/kbukum/transcriber/resilience"
)

// ResilienceConfig bundles optional resilience policies for a provider.
// Nil fields are skipped; an empty config is a passthrough.
type ResilienceConfig struct {
	// CircuitBreaker stops calls after repeated errors.
	CircuitBreaker *resilience.CircuitBreakerConfig
	// Bulkhead limits concurrent calls.
	Bulkhead *resilience.BulkheadConfig
}

// IsEmpty returns true if no resilience policies are configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig.
// It is shared across calls so breaker and bulkhead state persists.
type ResilienceState struct {
	cb *resilience.CircuitBreaker
	bh *resilience.Bulkhead
}

// BuildResilience creates resilience primitives from config.
// Returns nil for an empty config.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{}
	if cfg.CircuitBreaker != nil {
		s.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.Bulkhead != nil {
		s.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return s
}

// WithResilience returns a Middleware that runs Execute through cfg's policies.
func WithResilience[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	state := BuildResilience(cfg)
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if state == nil {
			return inner
		}
		return &resilientRR[I, O]{inner: inner, state: state}
	}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through Bulkhead then CircuitBreaker.
// Errors from the primitives (resilience.ErrBulkheadFull, resilience.ErrCircuitOpen, ...)
// are returned unchanged so callers can classify them in their own taxonomy.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	call := fn
	if s.cb != nil {
		inner := call
		call = func() (T, error) {
			var result T
			err := s.cb.Execute(func() error {
				var fnErr error
				result, fnErr = inner()
				return fnErr
			})
			return result, err
		}
	}

	if s.bh != nil {
		return resilience.ExecuteWithResult(ctx, s.bh, call)
	}
	return call()
}
