// Package ratelimit paces requests to the catalog gateway.
//
// Two algorithms are available behind the Limiter interface:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Allows short bursts followed by quiet periods
//   - Default strategy
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Smoother pacing over time
//
// Usage:
//
//	limiter, err := ratelimit.New(ratelimit.StrategyTokenBucket, 120)
//	if err != nil {
//	    return err
//	}
//
//	// Block until allowed or the context is cancelled
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
