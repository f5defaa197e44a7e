package storage

import (
	"context"
	"time"

	"quivato_reviews/internal/adapters/observability"
	"quivato_reviews/internal/domain"
)

// Timed bounds every repository call with a deadline and records its latency.
type Timed struct {
	next    domain.ReviewRepository
	timeout time.Duration
}

func NewTimed(next domain.ReviewRepository, timeout time.Duration) *Timed {
	return &Timed{next: next, timeout: timeout}
}

func (t *Timed) begin(ctx context.Context) (context.Context, context.CancelFunc, time.Time) {
	if t.timeout <= 0 {
		return ctx, func() {}, time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return ctx, cancel, time.Now()
}

func (t *Timed) Create(ctx context.Context, f domain.ReviewFields) (string, error) {
	ctx, cancel, start := t.begin(ctx)
	defer cancel()
	id, err := t.next.Create(ctx, f)
	observability.ObserveStore("create", err, time.Since(start))
	return id, err
}

func (t *Timed) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.UpdateResult, error) {
	ctx, cancel, start := t.begin(ctx)
	defer cancel()
	res, err := t.next.Update(ctx, id, p)
	observability.ObserveStore("update", err, time.Since(start))
	return res, err
}

func (t *Timed) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel, start := t.begin(ctx)
	defer cancel()
	n, err := t.next.Delete(ctx, id)
	observability.ObserveStore("delete", err, time.Since(start))
	return n, err
}

func (t *Timed) List(ctx context.Context) ([]domain.Review, error) {
	ctx, cancel, start := t.begin(ctx)
	defer cancel()
	rs, err := t.next.List(ctx)
	observability.ObserveStore("list", err, time.Since(start))
	return rs, err
}

func (t *Timed) Get(ctx context.Context, id string) (domain.Review, error) {
	ctx, cancel, start := t.begin(ctx)
	defer cancel()
	rv, err := t.next.Get(ctx, id)
	observability.ObserveStore("get", err, time.Since(start))
	return rv, err
}
