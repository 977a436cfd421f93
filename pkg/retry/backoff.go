package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy yields the wait after a failed attempt. attempt is
// 1-based: NextDelay(1) is the wait after the first failure.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff waits BaseDelay * Multiplier^(attempt-1), capped at
// MaxDelay when set, plus a uniform random jitter in [0, MaxJitter).
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	MaxJitter  time.Duration

	// Rand returns a value in [0, 1). Defaults to math/rand.
	Rand func() float64
}

// DefaultExponentialBackoff returns 1s, 2s, 4s, ... each plus up to 1s of
// jitter
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  time.Second,
		Multiplier: 2.0,
		MaxJitter:  time.Second,
	}
}

// NextDelay calculates the next delay with exponential backoff and jitter
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	multiplier := eb.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	delay := float64(eb.BaseDelay) * math.Pow(multiplier, float64(attempt-1))
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	return time.Duration(delay) + jitter(eb.MaxJitter, eb.Rand)
}

// LinearBackoff waits BaseDelay + Increment*(attempt-1), capped at MaxDelay
// when set, plus jitter in [0, MaxJitter)
type LinearBackoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Increment time.Duration
	MaxJitter time.Duration
	Rand      func() float64
}

// NextDelay calculates the next delay with linear backoff
func (lb *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := lb.BaseDelay + lb.Increment*time.Duration(attempt-1)
	if lb.MaxDelay > 0 && delay > lb.MaxDelay {
		delay = lb.MaxDelay
	}

	return delay + jitter(lb.MaxJitter, lb.Rand)
}

// ConstantBackoff implements constant delay backoff
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

func jitter(max time.Duration, rnd func() float64) time.Duration {
	if max <= 0 {
		return 0
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	return time.Duration(rnd() * float64(max))
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
