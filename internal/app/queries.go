package app

import (
	"context"
	"encoding/json"
	"time"

	"quivato_reviews/internal/domain"
)

const (
	listKey      = "reviews:all"
	maxCacheSize = 1_000_000
)

func reviewKey(id string) string { return "review:" + id }

type ReviewQueries struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewReviewQueries(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *ReviewQueries {
	return &ReviewQueries{repo: r, cache: c, cacheTTL: ttl}
}

func (s *ReviewQueries) List(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, listKey, &out); ok {
		return out, nil
	}
	rs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	s.store(ctx, listKey, rs)
	return rs, nil
}

func (s *ReviewQueries) Get(ctx context.Context, id string) (domain.Review, error) {
	key := reviewKey(id)
	var rv domain.Review
	if ok, _ := s.cache.Get(ctx, key, &rv); ok {
		return rv, nil
	}
	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	// writes invalidate by the stored id, so cache under it too
	s.store(ctx, reviewKey(rv.ID), rv)
	return rv, nil
}

// store caches v unless it is too large; embedded images can be big.
func (s *ReviewQueries) store(ctx context.Context, key string, v any) {
	if b, _ := json.Marshal(v); len(b) < maxCacheSize {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
}
