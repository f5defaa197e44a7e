package domain

import "context"

type ReviewRepository interface {
	// Write paths
	Create(ctx context.Context, f ReviewFields) (string, error)
	Update(ctx context.Context, id string, p ReviewPatch) (UpdateResult, error)
	Delete(ctx context.Context, id string) (int64, error)

	// Read paths
	List(ctx context.Context) ([]Review, error)
	Get(ctx context.Context, id string) (Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}
