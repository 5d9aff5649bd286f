package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDependency = errors.New("dependency failed")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := newCircuitBreaker("test", CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          time.Second,
		SuccessThreshold: 2,
	}, clock.Now)

	fail := func() error { return errDependency }
	ok := func() error { return nil }

	require.ErrorIs(t, cb.Execute(ctx, fail), errDependency)
	assert.Equal(t, StateClosed, cb.State())
	require.ErrorIs(t, cb.Execute(ctx, fail), errDependency)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open breaker must not call the dependency")

	clock.Advance(time.Second)
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := newCircuitBreaker("test", CircuitBreakerConfig{ErrorThreshold: 1, Timeout: time.Second, SuccessThreshold: 1}, clock.Now)

	require.Error(t, cb.Execute(ctx, func() error { return errDependency }))
	clock.Advance(2 * time.Second)
	require.Error(t, cb.Execute(ctx, func() error { return errDependency }))

	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{ErrorThreshold: 2, Timeout: time.Minute, SuccessThreshold: 1})

	_ = cb.Execute(ctx, func() error { return errDependency })
	_ = cb.Execute(ctx, func() error { return nil })
	_ = cb.Execute(ctx, func() error { return errDependency })

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CanceledIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{ErrorThreshold: 1, Timeout: time.Minute, SuccessThreshold: 1})

	require.ErrorIs(t, cb.Execute(ctx, func() error { return context.Canceled }), context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(42).String())
}

func fastRetry(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestRetry_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := NewRetry("test", fastRetry(3)).Execute(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errDependency
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after max attempts", func(t *testing.T) {
		calls := 0
		err := NewRetry("test", fastRetry(2)).Execute(ctx, func(context.Context) error {
			calls++
			return errDependency
		})

		require.ErrorIs(t, err, errDependency)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry non-retryable errors", func(t *testing.T) {
		calls := 0
		err := NewRetry("test", fastRetry(5)).Execute(ctx, func(context.Context) error {
			calls++
			return context.DeadlineExceeded
		})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		cfg := fastRetry(5)
		cfg.InitialBackoff = time.Hour
		cctx, cancel := context.WithCancel(ctx)

		err := NewRetry("test", cfg).Execute(cctx, func(context.Context) error {
			cancel()
			return errDependency
		})

		require.ErrorIs(t, err, ErrContextCanceled)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_ = NewRetry("test", RetryConfig{}).Execute(ctx, func(context.Context) error {
			calls++
			return errDependency
		})
		assert.Equal(t, 1, calls)
	})
}
