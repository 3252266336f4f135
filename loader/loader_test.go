package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ardnew/hbctx/log"
)

func TestLoader_Defaults(t *testing.T) {
	l := New(nil)

	if l.Prefix() != "/" || l.Suffix() != ".hbs" {
		t.Errorf("affixes = %q, %q; want /, .hbs", l.Prefix(), l.Suffix())
	}
}

func TestLoader_SetPrefix(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"/views", "/views/", nil},
		{"/views/", "/views/", nil},
		{"templates", "templates/", nil},
		{"", "/", ErrEmptyPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := New(nil)

			err := l.SetPrefix(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetPrefix(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}

			if l.Prefix() != tt.want {
				t.Errorf("Prefix() = %q, want %q", l.Prefix(), tt.want)
			}
		})
	}
}

func TestLoader_SetSuffix(t *testing.T) {
	l := New(nil)

	if err := l.SetSuffix(""); !errors.Is(err, ErrEmptySuffix) {
		t.Errorf("SetSuffix(\"\") error = %v, want %v", err, ErrEmptySuffix)
	}

	if err := l.SetSuffix(".html"); err != nil || l.Suffix() != ".html" {
		t.Errorf("SetSuffix(.html) = %v, suffix %q", err, l.Suffix())
	}
}

func TestLoader_Resolve(t *testing.T) {
	l := New(nil)

	tests := []struct {
		name string
		want string
	}{
		{"home", "/home.hbs"},
		{"/home", "/home.hbs"},
		{"partials/header", "/partials/header.hbs"},
	}

	for _, tt := range tests {
		if got := l.Resolve(tt.name); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if err := l.SetPrefix("/views"); err != nil {
		t.Fatal(err)
	}

	if got := l.Resolve("/home"); got != "/views/home.hbs" {
		t.Errorf("Resolve(/home) = %q, want /views/home.hbs", got)
	}
}

func TestLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"home.hbs":           {Data: []byte("Hello {{name}}")},
		"views/list.html":    {Data: []byte("<ul></ul>")},
		"partials/empty.hbs": {Data: nil},
	}

	var buf bytes.Buffer

	l := New(FS(fsys), WithLogger(log.Make(&buf,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
	)))

	got := mustRead(t, l, "/home")
	if got != "Hello {{name}}" {
		t.Errorf("Load(/home) = %q", got)
	}

	if !strings.Contains(buf.String(), "resource found") {
		t.Errorf("missing debug log: %s", buf.String())
	}

	// An empty resource exists and is not an error.
	if got := mustRead(t, l, "partials/empty"); got != "" {
		t.Errorf("Load(partials/empty) = %q, want empty", got)
	}

	if err := l.SetPrefix("views"); err != nil {
		t.Fatal(err)
	}

	if err := l.SetSuffix(".html"); err != nil {
		t.Fatal(err)
	}

	if got := mustRead(t, l, "list"); got != "<ul></ul>" {
		t.Errorf("Load(list) = %q", got)
	}
}

func TestLoader_Load_Errors(t *testing.T) {
	l := New(FS(fstest.MapFS{"dir/file.hbs": {Data: []byte("x")}}))

	if _, err := l.Load(t.Context(), ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Load(\"\") error = %v, want %v", err, ErrEmptyName)
	}

	for _, name := range []string{"missing", "../escape", "dir/file/"} {
		rc, err := l.Load(t.Context(), name)
		if rc != nil {
			t.Errorf("Load(%q) returned a reader", name)
		}

		if !errors.Is(err, ErrResourceNotFound) || !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load(%q) error = %v, want %v", name, err, ErrResourceNotFound)
		}
	}

	if _, err := New(nil).Load(t.Context(), "any"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Load with nil source error = %v, want %v", err, ErrResourceNotFound)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := l.Load(ctx, "dir/file"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load with canceled context error = %v, want %v", err, context.Canceled)
	}
}

func TestLoader_Load_NilReader(t *testing.T) {
	src := SourceFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, nil
	})

	if _, err := New(src).Load(t.Context(), "x"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("error = %v, want %v", err, ErrResourceNotFound)
	}
}

func TestLoader_Load_SourceError(t *testing.T) {
	boom := errors.New("boom")
	src := SourceFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, boom
	})

	_, err := New(src).Load(t.Context(), "x")
	if !errors.Is(err, boom) || errors.Is(err, ErrResourceNotFound) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestMap(t *testing.T) {
	l := New(Map(map[string]string{
		"/a.hbs": "rooted",
		"b.hbs":  "relative",
	}))

	if got := mustRead(t, l, "a"); got != "rooted" {
		t.Errorf("Load(a) = %q", got)
	}

	if got := mustRead(t, l, "b"); got != "relative" {
		t.Errorf("Load(b) = %q", got)
	}
}

func TestSearch(t *testing.T) {
	first := Map(map[string]string{"shared.hbs": "first"})
	second := FS(fstest.MapFS{
		"shared.hbs": {Data: []byte("second")},
		"only.hbs":   {Data: []byte("only second")},
	})

	l := New(Search(nil, first, second))

	if got := mustRead(t, l, "shared"); got != "first" {
		t.Errorf("Load(shared) = %q, want first", got)
	}

	if got := mustRead(t, l, "only"); got != "only second" {
		t.Errorf("Load(only) = %q, want only second", got)
	}

	if _, err := l.Load(t.Context(), "none"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Load(none) error = %v, want %v", err, ErrResourceNotFound)
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(b, "page.hbs"), "from b")
	writeFile(t, filepath.Join(a, "nested", "page.hbs"), "nested in a")

	l := New(SearchPath(strings.Join([]string{"", a, b}, string(os.PathListSeparator))))

	if got := mustRead(t, l, "page"); got != "from b" {
		t.Errorf("Load(page) = %q, want from b", got)
	}

	if got := mustRead(t, l, "nested/page"); got != "nested in a" {
		t.Errorf("Load(nested/page) = %q, want nested in a", got)
	}
}

func TestSearchPathEnv_NotFound(t *testing.T) {
	t.Setenv("HBCTX_TEST_PATH", "")

	l := New(SearchPathEnv("HBCTX_TEST_PATH", t.TempDir()))

	if _, err := l.Load(t.Context(), "missing"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, ErrResourceNotFound)
	}
}

func mustRead(t *testing.T, l *Loader, name string) string {
	t.Helper()

	rc, err := l.Load(t.Context(), name)
	if err != nil {
		t.Fatalf("Load(%q): %v", name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %q: %v", name, err)
	}

	return string(b)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
