// Package retry runs fallible operations with exponential backoff.
//
// The harvester treats every failure of a catalog request the same way:
// retry up to a fixed number of attempts, waiting 1s, 2s, 4s, ... plus up to
// one second of random jitter between them. Cancelling the context stops
// the loop at once.
//
// Usage:
//
//	apps, err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) ([]catalog.App, error) {
//		return source.Fetch(ctx, query)
//	})
//
// Linear and constant backoff strategies are available for tests and
// custom configurations.
package retry
