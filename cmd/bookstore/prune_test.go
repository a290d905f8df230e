package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/erazemk/bookstore/internal/config"
	"github.com/erazemk/bookstore/internal/db"
	"github.com/erazemk/bookstore/internal/images"
	"github.com/erazemk/bookstore/internal/model"
	"github.com/erazemk/bookstore/internal/store"
)

func TestOrphans(t *testing.T) {
	books := []model.Book{{Image: "a.png"}, {Image: "c.jpg"}}

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"none stored", nil, nil},
		{"all used", []string{"a.png", "c.jpg"}, nil},
		{"some unused", []string{"z.png", "a.png", "b.gif"}, []string{"b.gif", "z.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orphans(tt.names, books)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("orphans = %v, want %v", got, tt.want)
			}
		})
	}
}

func setupPrune(t *testing.T) (store.Books, *images.Disk, string) {
	t.Helper()
	ctx := context.Background()

	books := &store.SQLite{DB: db.NewTestDB(t)}
	imgs, err := images.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	used, err := imgs.Save(ctx, "used.png", strings.NewReader("used"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := books.Create(ctx, &model.Book{Title: "Dune", Image: used}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(imgs.Dir, "stale.png"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	return books, imgs, used
}

func TestPruneDryRun(t *testing.T) {
	books, imgs, _ := setupPrune(t)
	ctx := context.Background()

	got, err := prune(ctx, books, imgs, true)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"stale.png"}) {
		t.Errorf("prune = %v, want [stale.png]", got)
	}
	if ok, _ := imgs.Exists(ctx, "stale.png"); !ok {
		t.Error("dry run removed the image")
	}
}

func TestPruneRemoves(t *testing.T) {
	books, imgs, used := setupPrune(t)
	ctx := context.Background()

	got, err := prune(ctx, books, imgs, false)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"stale.png"}) {
		t.Errorf("prune = %v, want [stale.png]", got)
	}

	names, _ := imgs.List(ctx)
	if !reflect.DeepEqual(names, []string{used}) {
		t.Errorf("remaining images = %v, want [%s]", names, used)
	}
}

func TestPruneCommand(t *testing.T) {
	dir := t.TempDir()
	public := filepath.Join(dir, "public")
	if err := os.MkdirAll(filepath.Join(public, "img"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(public, "img", "old.png"), []byte("old"), 0o644)

	cfg := &config.Config{MongoDatabase: "BookStore"}
	cmd := newRootCommand(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"prune", "--dry-run",
		"--db", filepath.Join(dir, "books.sqlite3"),
		"--public", public,
	})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("prune command: %v", err)
	}
	if out.String() != "old.png\n" {
		t.Errorf("output = %q, want %q", out.String(), "old.png\n")
	}
	if _, err := os.Stat(filepath.Join(public, "img", "old.png")); err != nil {
		t.Errorf("dry run removed the image: %v", err)
	}
}
