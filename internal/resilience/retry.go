// Package resilience provides bounded retry with capped exponential backoff
// for the enrichment steps.
package resilience

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	// StepBaseDelay is the delay after the first failed attempt.
	StepBaseDelay = 1 * time.Second

	// StepMaxDelay caps the step backoff.
	StepMaxDelay = 30 * time.Second
)

// RetryConfig controls a retry loop. Zero fields fall back to the step
// policy.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the first included.
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// ShouldRetry reports whether an error is worth another attempt.
	// Nil means IsTransient.
	ShouldRetry func(err error) bool

	// OnRetry is called before each backoff sleep with the 1-based number
	// of the attempt that failed.
	OnRetry func(attempt int, err error)
}

// StepRetryConfig returns the deterministic step policy: the delay after
// zero-based attempt a is min(2^a, 30) seconds.
func StepRetryConfig(maxAttempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: StepBaseDelay,
		MaxBackoff:     StepMaxDelay,
		Multiplier:     2.0,
	}
}

// Backoff returns the step delay for a zero-based attempt index.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return StepRetryConfig(1).delay(attempt)
}

// RetryAlways treats every failure as retryable.
func RetryAlways(error) bool { return true }

// DoVal calls fn until it succeeds, ShouldRetry rejects the error, the
// attempts run out or ctx is done. There is no sleep after the final
// attempt. On failure the last error is returned.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !cfg.ShouldRetry(err) || attempt == cfg.MaxAttempts-1 {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err)
		}
		if Sleep(ctx, cfg.delay(attempt)) != nil {
			break
		}
	}
	return zero, lastErr
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	def := StepRetryConfig(1)
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = IsTransient
	}
	return cfg
}

func (cfg RetryConfig) delay(attempt int) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if math.IsInf(d, 1) || math.IsNaN(d) || d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	return time.Duration(d)
}

// RetryLogger returns an OnRetry callback that logs the failed attempt.
func RetryLogger(service, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
