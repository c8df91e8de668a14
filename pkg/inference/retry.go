package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

// ErrRetriesExhausted marks an inference failure that persisted through every
// allowed attempt.
var ErrRetriesExhausted = errors.New("inference retries exhausted")

// RetryConfig holds the tuning parameters for the retrying wrapper. Zero
// values are replaced with the defaults documented below.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first failure.
	// Default: 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Subsequent waits
	// grow by BackoffFactor, capped at MaxBackoff. Defaults: 2s, 2.0, 30s.
	InitialBackoff time.Duration
	BackoffFactor  float64
	MaxBackoff     time.Duration

	// JitterFraction adds random noise in [0, JitterFraction*backoff].
	// Default: 0.1.
	JitterFraction float64

	// RetryableFunc reports whether an error should trigger another attempt.
	// The default retries every error: gateway failures surface as generic
	// transport errors as often as typed rate-limit responses.
	RetryableFunc func(error) bool
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 2 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
	if c.RetryableFunc == nil {
		c.RetryableFunc = func(error) bool { return true }
	}
}

// backoff returns the wait duration for the given attempt (0-indexed).
func (c RetryConfig) backoff(attempt int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt))
	if base > float64(c.MaxBackoff) {
		base = float64(c.MaxBackoff)
	}
	jitter := base * c.JitterFraction * rand.Float64()
	return time.Duration(base + jitter)
}

// Retrier wraps an Inferencer with a bounded retry loop. The core parsing
// pipeline never retries; regenerating a bad reply is this layer's job.
type Retrier struct {
	inner  Inferencer
	config RetryConfig
}

// NewRetrier wraps inner with the supplied retry policy. Zero-valued config
// fields get safe defaults.
func NewRetrier(inner Inferencer, config RetryConfig) *Retrier {
	config.applyDefaults()
	return &Retrier{inner: inner, config: config}
}

// Infer calls the wrapped inferencer, waiting out the backoff schedule
// between failed attempts. Context cancellation is honored between attempts.
// On exhaustion the returned error wraps both ErrRetriesExhausted and the
// last provider error.
func (r *Retrier) Infer(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := r.config.backoff(attempt - 1)
			log.Warn("retrying inference", "attempt", attempt, "max", r.config.MaxRetries, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := r.inner.Infer(ctx, system, user)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !r.config.RetryableFunc(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("%w after %d retries: %w", ErrRetriesExhausted, r.config.MaxRetries, lastErr)
}

// Verify delegates to the wrapped inferencer.
func (r *Retrier) Verify(ctx context.Context, result string) (bool, error) {
	return r.inner.Verify(ctx, result)
}
