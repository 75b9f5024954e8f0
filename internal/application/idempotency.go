package application

import "context"

// IdempotencyStore deduplicates retried write requests for a short time.
type IdempotencyStore interface {
	// TryReserve returns true if key was absent and is now reserved.
	// Returns false if the key already exists (duplicate).
	TryReserve(ctx context.Context, key string) (bool, error)
	// Release frees a reservation whose request failed.
	Release(ctx context.Context, key string) error
}

// NoopIdempotency always succeeds; used when Redis is disabled.
type NoopIdempotency struct{}

func (NoopIdempotency) TryReserve(context.Context, string) (bool, error) { return true, nil }
func (NoopIdempotency) Release(context.Context, string) error            { return nil }

// IdempotencyKey scopes a client supplied key to its sender so that two callers
// cannot collide on the same key.
func IdempotencyKey(sender, key string) string {
	return "rateoracle:idem:" + sender + ":" + key
}
