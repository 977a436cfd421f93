package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"playharvest/pkg/config"
	errs "playharvest/pkg/errors"
	"playharvest/pkg/logger"
)

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second}, // capped
		{6, time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDefaultExponentialBackoffSchedule(t *testing.T) {
	backoff := DefaultExponentialBackoff()
	backoff.Rand = fixedRand(0.5)

	// 2^n seconds plus half of the one second jitter
	assert.Equal(t, 1500*time.Millisecond, backoff.NextDelay(1))
	assert.Equal(t, 2500*time.Millisecond, backoff.NextDelay(2))
	assert.Equal(t, 4500*time.Millisecond, backoff.NextDelay(3))
}

func TestJitterBounds(t *testing.T) {
	backoff := DefaultExponentialBackoff()

	for i := 0; i < 100; i++ {
		d := backoff.NextDelay(1)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 2*time.Second)
	}
}

func TestLinearBackoff(t *testing.T) {
	backoff := &LinearBackoff{
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  500 * time.Millisecond,
		Increment: 100 * time.Millisecond,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{5, 500 * time.Millisecond},
		{6, 500 * time.Millisecond}, // capped
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	var waits []time.Duration

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			waits = append(waits, delay)
		},
	}

	result, err := Do(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("temporary error")
		}
		return "page", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "page", result)
	assert.Equal(t, 3, attempts)
	assert.Len(t, waits, 2)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	retries := 0
	cause := errs.New(errs.ErrorTypeServerError, 503, "unavailable")

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		OnRetry:     func(int, error, time.Duration) { retries++ },
	}

	_, err := Do(context.Background(), cfg, func(ctx context.Context) (int, error) {
		attempts++
		return 0, cause
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	// No wait after the final attempt
	assert.Equal(t, 2, retries)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, errs.ErrorTypeServerError, errs.TypeOf(err))
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestDoRetriesEveryErrorType(t *testing.T) {
	attempts := 0
	cfg := &Config{MaxAttempts: 2, Backoff: &ConstantBackoff{}}

	_, err := Do(context.Background(), cfg, func(ctx context.Context) (bool, error) {
		attempts++
		return false, errs.New(errs.ErrorTypeAuth, 401, "bad key")
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := Do(ctx, cfg, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errors.New("error")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestDoAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Do(ctx, nil, func(ctx context.Context) (int, error) {
		called = true
		return 1, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDoLogsRetries(t *testing.T) {
	log := logger.NewTestLogger()
	cfg := &Config{
		MaxAttempts: 2,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		Logger:      log,
	}

	attempts := 0
	_, err := Do(context.Background(), cfg, func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("flaky")
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, log.CountMessage("attempt failed, retrying"))
	assert.True(t, log.HasMessage("operation succeeded after retry"))
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   2 * time.Second,
		MaxJitter:   0,
	}, nil)

	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Backoff.NextDelay(1))
	assert.Equal(t, 8*time.Second, cfg.Backoff.NextDelay(3))
}

func TestFromConfigBackoffStrategies(t *testing.T) {
	linear := FromConfig(config.RetryConfig{MaxAttempts: 3, Backoff: "linear", BaseDelay: time.Second}, nil)
	assert.Equal(t, time.Second, linear.Backoff.NextDelay(1))
	assert.Equal(t, 3*time.Second, linear.Backoff.NextDelay(3))

	constant := FromConfig(config.RetryConfig{MaxAttempts: 3, Backoff: "constant", BaseDelay: time.Second}, nil)
	assert.Equal(t, time.Second, constant.Backoff.NextDelay(1))
	assert.Equal(t, time.Second, constant.Backoff.NextDelay(4))
}

func TestWait(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), 0))
	assert.NoError(t, Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
}
