package retry

import (
	"context"
	"fmt"
	"time"

	"playharvest/pkg/config"
	"playharvest/pkg/logger"
)

// Config holds retry configuration
type Config struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// OnRetry is called before each wait
	OnRetry func(attempt int, err error, delay time.Duration)
	// Logger for retry attempts; nil disables logging
	Logger logger.Logger
}

// DefaultConfig returns three attempts with the default exponential backoff
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     DefaultExponentialBackoff(),
	}
}

// FromConfig builds a retry Config from the retry section of the
// application configuration. cfg.Backoff selects exponential (the default),
// linear or constant waits based on cfg.BaseDelay.
func FromConfig(cfg config.RetryConfig, log logger.Logger) *Config {
	var backoff BackoffStrategy
	switch cfg.Backoff {
	case "linear":
		backoff = &LinearBackoff{
			BaseDelay: cfg.BaseDelay,
			Increment: cfg.BaseDelay,
			MaxJitter: cfg.MaxJitter,
		}
	case "constant":
		backoff = &ConstantBackoff{Delay: cfg.BaseDelay}
	default:
		backoff = &ExponentialBackoff{
			BaseDelay:  cfg.BaseDelay,
			Multiplier: 2.0,
			MaxJitter:  cfg.MaxJitter,
		}
	}

	return &Config{
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     backoff,
		Logger:      log,
	}
}

// Do runs op until it succeeds or cfg.MaxAttempts attempts have failed.
// Every error is retried the same way. There is no wait after the final
// attempt. The returned error wraps the last failure, so errors.Is and
// errors.As still see it. A cancelled ctx stops the loop immediately and
// its error is returned.
func Do[T any](ctx context.Context, cfg *Config, op func(context.Context) (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = DefaultExponentialBackoff()
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return result, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if attempt == maxAttempts {
			break
		}

		delay := backoff.NextDelay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if cfg.Logger != nil {
			logger.LogRetry(cfg.Logger, attempt, delay, err)
		}

		if err := Wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
