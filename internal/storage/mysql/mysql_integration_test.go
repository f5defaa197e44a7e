//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"quivato_reviews/internal/domain"
	mysqlrepo "quivato_reviews/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations", "mysql")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_Lifecycle(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=quivato",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/quivato?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
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
	if err != nil || got.Image == nil || *got.Image != img {
		t.Fatalf("Get: %+v err=%v", got, err)
	}
	if rv, _ := repo.Get(ctx, noPhoto); rv.Image != nil {
		t.Fatalf("NULL image must read back as absent")
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d items err=%v", len(all), err)
	}

	res, err := repo.Update(ctx, id, domain.ReviewPatch{Text: pstr("Updated text")})
	if err != nil || res.Matched != 1 || res.Modified != 1 {
		t.Fatalf("Update: %+v err=%v", res, err)
	}
	res, err = repo.Update(ctx, id, domain.ReviewPatch{Text: pstr("Updated text")})
	if err != nil || res.Matched != 1 || res.Modified != 0 {
		t.Fatalf("repeat Update: %+v err=%v", res, err)
	}
	got, _ = repo.Get(ctx, id)
	if got.Text != "Updated text" || got.Name != "Alice" || got.Designation != "CEO" {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	missing := "00000000-0000-4000-8000-000000000000"
	if res, _ := repo.Update(ctx, missing, domain.ReviewPatch{Name: pstr("Ghost")}); res.Matched != 0 {
		t.Fatalf("Update missing matched: %+v", res)
	}
	if n, err := repo.Delete(ctx, missing); err != nil || n != 0 {
		t.Fatalf("Delete missing: n=%d err=%v", n, err)
	}
	if n, err := repo.Delete(ctx, id); err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
