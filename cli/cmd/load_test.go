package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/hbctx/loader"
)

func TestLoadCopy(t *testing.T) {
	src := loader.Map(map[string]string{
		"/partials/header.hbs": "<h1>{{title}}</h1>",
		"/page.tmpl":           "{{> header}}",
	})

	tests := []struct {
		name    string
		load    Load
		want    string
		wantErr error
	}{
		{
			name: "default suffix",
			load: Load{Templates: Templates{Prefix: "/", Suffix: ".hbs"}, Name: "partials/header"},
			want: "<h1>{{title}}</h1>",
		},
		{
			name: "custom suffix",
			load: Load{Templates: Templates{Prefix: "/", Suffix: ".tmpl"}, Name: "page"},
			want: "{{> header}}",
		},
		{
			name:    "not found",
			load:    Load{Templates: Templates{Prefix: "/", Suffix: ".hbs"}, Name: "page"},
			wantErr: loader.ErrResourceNotFound,
		},
		{
			name:    "empty prefix",
			load:    Load{Templates: Templates{Prefix: "", Suffix: ".hbs"}, Name: "page"},
			wantErr: loader.ErrEmptyPrefix,
		},
		{
			name:    "empty suffix",
			load:    Load{Templates: Templates{Prefix: "/", Suffix: ""}, Name: "page"},
			wantErr: loader.ErrEmptySuffix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := tt.load.copy(t.Context(), &buf, src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrLoadTemplate) {
					t.Errorf("copy() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("copy() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTemplatesSource tests that --dir directories are searched before
// those listed in the path environment variable.
func TestTemplatesSource(t *testing.T) {
	dir, env := t.TempDir(), t.TempDir()

	for path, content := range map[string]string{
		filepath.Join(dir, "shared.hbs"): "from dir",
		filepath.Join(env, "shared.hbs"): "from env",
		filepath.Join(env, "only.hbs"):   "only env",
	} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv(DefaultPathEnv, env)

	tmpl := Templates{Prefix: "/", Suffix: ".hbs", Dir: []string{dir}}
	src := tmpl.source(t.Context())

	for name, want := range map[string]string{
		"shared": "from dir",
		"only":   "only env",
	} {
		var buf bytes.Buffer

		l := Load{Templates: tmpl, Name: name}
		if err := l.copy(t.Context(), &buf, src); err != nil {
			t.Fatalf("copy(%q): %v", name, err)
		}

		if got := buf.String(); got != want {
			t.Errorf("copy(%q) = %q, want %q", name, got, want)
		}
	}
}
