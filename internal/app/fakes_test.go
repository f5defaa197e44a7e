package app_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"quivato_reviews/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu    sync.Mutex
	seq   int
	docs  map[string]domain.Review
	calls int
	err   error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{docs: map[string]domain.Review{}} }

func (f *fakeRepo) Create(ctx context.Context, fl domain.ReviewFields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.seq++
	id := strconv.Itoa(f.seq)
	f.docs[id] = domain.Review{ID: id, Text: fl.Text, Name: fl.Name, Designation: fl.Designation, Image: fl.Image}
	return id, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, p domain.ReviewPatch) (domain.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	rv, ok := f.docs[id]
	if !ok {
		return domain.UpdateResult{}, nil
	}
	before := rv
	if p.Text != nil {
		rv.Text = *p.Text
	}
	if p.Name != nil {
		rv.Name = *p.Name
	}
	if p.Designation != nil {
		rv.Designation = *p.Designation
	}
	if p.Image != nil {
		rv.Image = p.Image
	}
	f.docs[id] = rv
	res := domain.UpdateResult{Matched: 1}
	if before != rv {
		res.Modified = 1
	}
	return res, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.docs[id]; !ok {
		return 0, nil
	}
	delete(f.docs, id)
	return 1, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]domain.Review, 0, len(f.docs))
	for i := 1; i <= f.seq; i++ {
		if rv, ok := f.docs[strconv.Itoa(i)]; ok {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if id == "bad" {
		return domain.Review{}, domain.ErrInvalidID
	}
	rv, ok := f.docs[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

type fakeCache struct {
	store   map[string]any
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Review:
		*d = v.(domain.Review)
	case *[]domain.Review:
		*d = v.([]domain.Review)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.store, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

var errStore = errors.New("store down")

func ptr[T any](v T) *T { return &v }
