package images

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"
)

var pngName = regexp.MustCompile(`^[0-9a-f]{32}\.png$`)

func TestNewName(t *testing.T) {
	tests := []struct {
		original string
		pattern  string
	}{
		{"cover.png", `^[0-9a-f]{32}\.png$`},
		{"photo.JPG", `^[0-9a-f]{32}\.JPG$`},
		{"archive.tar.gz", `^[0-9a-f]{32}\.gz$`},
		{"noext", `^[0-9a-f]{32}$`},
		{`cover.p\ng`, `^[0-9a-f]{32}$`},
		{`dir.d\cover`, `^[0-9a-f]{32}$`},
	}

	for _, tt := range tests {
		name, err := NewName(tt.original)
		if err != nil {
			t.Fatalf("NewName(%q): %v", tt.original, err)
		}
		if !regexp.MustCompile(tt.pattern).MatchString(name) {
			t.Errorf("NewName(%q) = %q, want match %s", tt.original, name, tt.pattern)
		}
		if _, err := cleanName(name); err != nil {
			t.Errorf("NewName(%q) = %q, rejected by cleanName", tt.original, name)
		}
	}
}

func TestNewNameUnique(t *testing.T) {
	a, _ := NewName("cover.png")
	b, _ := NewName("cover.png")
	if a == b {
		t.Errorf("expected different names, got %q twice", a)
	}
}

func TestNewNameRandomFailure(t *testing.T) {
	orig := randRead
	randRead = func([]byte) (int, error) { return 0, errors.New("no entropy") }
	t.Cleanup(func() { randRead = orig })

	if _, err := NewName("cover.png"); err == nil {
		t.Error("expected error when random source fails")
	}
}

func TestDiskSaveRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "img")
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	ctx := context.Background()

	name, err := d.Save(ctx, "cover.png", bytes.NewReader([]byte("png bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !pngName.MatchString(name) {
		t.Errorf("unexpected name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("saved content = %q", data)
	}

	ok, err := d.Exists(ctx, name)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	if err := d.Remove(ctx, name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ok, _ = d.Exists(ctx, name)
	if ok {
		t.Error("expected file to be gone")
	}

	if err := d.Remove(ctx, name); err == nil {
		t.Error("expected error removing a missing file")
	}
}

func TestDiskList(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	ctx := context.Background()

	a, _ := d.Save(ctx, "a.png", bytes.NewReader([]byte("a")))
	b, _ := d.Save(ctx, "b.jpg", bytes.NewReader([]byte("b")))
	os.Mkdir(filepath.Join(d.Dir, "sub"), 0o755)

	names, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{a, b}
	sort.Strings(want)
	sort.Strings(names)
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestDiskRejectsPaths(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "../secret", "a/b.png", `a\b.png`} {
		if err := d.Remove(ctx, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Remove(%q) error = %v, want ErrInvalidName", name, err)
		}
		if _, err := d.Exists(ctx, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Exists(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestDiskServe(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	name, _ := d.Save(context.Background(), "cover.png", bytes.NewReader([]byte("image data")))

	rec := httptest.NewRecorder()
	d.Serve(rec, httptest.NewRequest(http.MethodGet, "/img/"+name, nil), name)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "image data" {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	d.Serve(rec, httptest.NewRequest(http.MethodGet, "/img/missing.png", nil), "missing.png")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing image, got %d", rec.Code)
	}
}
