//go:build integration || !unit

package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"quivato_reviews/internal/domain"
	mongorepo "quivato_reviews/internal/storage/mongo"
)

func pstr(s string) *string { return &s }

func startMongo(t *testing.T) *mongorepo.Repo {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var repo *mongorepo.Repo
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := mongorepo.Connect(ctx, uri)
		if err != nil {
			return err
		}
		t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
		repo = mongorepo.New(client.Database("quivato_test").Collection("reviews"))
		return nil
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	return repo
}

func TestRepo_Mongo_Lifecycle(t *testing.T) {
	repo := startMongo(t)
	ctx := context.Background()

	img := "iVBORw0KGgo="
	id, err := repo.Create(ctx, domain.ReviewFields{Text: "Great service", Name: "Alice", Designation: "CEO", Image: &img})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	noPhoto, err := repo.Create(ctx, domain.ReviewFields{Text: "Fine", Name: "Bob", Designation: "CTO"})
	if err != nil {
		t.Fatalf("Create without image: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id || got.Text != "Great service" || got.Image == nil || *got.Image != img {
		t.Fatalf("unexpected review: %+v", got)
	}
	if rv, _ := repo.Get(ctx, noPhoto); rv.Image != nil {
		t.Fatalf("absent image must stay absent, got %q", *rv.Image)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d items, err=%v", len(all), err)
	}

	res, err := repo.Update(ctx, id, domain.ReviewPatch{Text: pstr("Updated text")})
	if err != nil || res.Matched != 1 || res.Modified != 1 {
		t.Fatalf("Update: %+v err=%v", res, err)
	}
	res, _ = repo.Update(ctx, id, domain.ReviewPatch{Text: pstr("Updated text")})
	if res.Matched != 1 || res.Modified != 0 {
		t.Fatalf("repeat Update should be a no-op: %+v", res)
	}
	got, _ = repo.Get(ctx, id)
	if got.Text != "Updated text" || got.Name != "Alice" || got.Designation != "CEO" || *got.Image != img {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	missing := "65a1f0c2e4b0a1b2c3d4e5f6"
	res, err = repo.Update(ctx, missing, domain.ReviewPatch{Name: pstr("Ghost")})
	if err != nil || res.Matched != 0 {
		t.Fatalf("Update missing: %+v err=%v", res, err)
	}
	if _, err := repo.Get(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update must not upsert, Get err=%v", err)
	}

	n, err := repo.Delete(ctx, missing)
	if err != nil || n != 0 {
		t.Fatalf("Delete missing: n=%d err=%v", n, err)
	}
	n, err = repo.Delete(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
