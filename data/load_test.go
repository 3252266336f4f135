package data

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/hbctx/scope"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	root := filepath.Join(dir, "site.yaml")
	page := filepath.Join(dir, "page.json")

	write(t, root, "title: Site\nuser:\n  name: Ann\n")
	write(t, page, `{"heading": "Orders", "user": {"role": "admin"}}`)

	s, err := Load(t.Context(), nil, root, page)
	if err != nil {
		t.Fatal(err)
	}

	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}

	tests := map[string]any{
		"heading":   "Orders",
		"title":     "Site",
		"user.role": "admin",
		"user.name": nil,
	}

	for key, want := range tests {
		got, err := s.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}

		if got != want {
			t.Errorf("Get(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestLoad_NoPaths(t *testing.T) {
	s, err := Load(t.Context(), scope.NewFactory())
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := s.Get("anything"); v != nil {
		t.Errorf("Get(anything) = %v, want nil", v)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.Context(), nil, filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrDecode) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want %v wrapping %v", err, ErrDecode, fs.ErrNotExist)
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
