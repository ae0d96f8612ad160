package usecase

import (
	"context"
	"time"
)

// Cache is the slice of the Redis wrapper the usecases depend on.
// cache.Redis implements it; every method degrades to a miss or a no-op
// when the backing client is unavailable.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	InvalidateUser(ctx context.Context, userID string) error
}
