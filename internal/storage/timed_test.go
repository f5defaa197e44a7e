package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quivato_reviews/internal/domain"
	"quivato_reviews/internal/storage"
)

// blockingRepo waits for the context on every call.
type blockingRepo struct{}

func (blockingRepo) Create(ctx context.Context, _ domain.ReviewFields) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
func (blockingRepo) Update(ctx context.Context, _ string, _ domain.ReviewPatch) (domain.UpdateResult, error) {
	<-ctx.Done()
	return domain.UpdateResult{}, ctx.Err()
}
func (blockingRepo) Delete(ctx context.Context, _ string) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}
func (blockingRepo) List(ctx context.Context) ([]domain.Review, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingRepo) Get(ctx context.Context, _ string) (domain.Review, error) {
	<-ctx.Done()
	return domain.Review{}, ctx.Err()
}

func TestTimed_BoundsStoreCalls(t *testing.T) {
	repo := storage.NewTimed(blockingRepo{}, 20*time.Millisecond)

	start := time.Now()
	_, err := repo.Get(context.Background(), "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not applied")
	}
	if _, err := repo.Delete(context.Background(), "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on delete, got %v", err)
	}
}
