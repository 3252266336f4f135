package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"a.b", modeEval},
		{"list", modeCtrl},
		{"a.b", modeEval}, // moves to the end
		{"a.b", modeEval}, // repeat of last is ignored
		{"   ", modeEval}, // blank is ignored
		{"list", modeEval},
	} {
		if _, err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("Write(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"a.b", modeEval},
		{"list", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(b), "C:list\nE:a.b\nE:list\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	reload := NewHistory(path)
	if err := reload.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, reload.Entries()); diff != "" {
		t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Load(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		h := NewHistory(filepath.Join(dir, "missing"))
		if err := h.Load(); err != nil {
			t.Errorf("Load() = %v, want nil", err)
		}

		if h.Len() != 0 {
			t.Errorf("Len() = %d, want 0", h.Len())
		}
	})

	t.Run("unprefixed lines", func(t *testing.T) {
		path := filepath.Join(dir, "legacy")
		if err := os.WriteFile(path, []byte("x + 1\n\nC:quit\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		h := NewHistory(path)
		if err := h.Load(); err != nil {
			t.Fatal(err)
		}

		want := []HistoryEntry{{"x + 1", modeEval}, {"quit", modeCtrl}}
		if diff := cmp.Diff(want, h.Entries()); diff != "" {
			t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("trimmed to limit", func(t *testing.T) {
		var b strings.Builder
		for i := range maxHistory + 5 {
			b.WriteString("E:")
			b.WriteString(strings.Repeat("x", i+1))
			b.WriteString("\n")
		}

		path := filepath.Join(dir, "long")
		if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
			t.Fatal(err)
		}

		h := NewHistory(path)
		if err := h.Load(); err != nil {
			t.Fatal(err)
		}

		if h.Len() != maxHistory {
			t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
		}

		first, err := h.GetEntry(0)
		if err != nil {
			t.Fatal(err)
		}

		if len(first.Line) != 6 {
			t.Errorf("oldest kept entry has length %d, want 6", len(first.Line))
		}
	})
}

func TestHistory_GetEntry(t *testing.T) {
	h := NewHistory("")

	if _, err := h.Write("a", modeEval); err != nil {
		t.Fatal(err)
	}

	if _, err := h.GetEntry(1); err != ErrOutOfBounds {
		t.Errorf("GetEntry(1) error = %v, want %v", err, ErrOutOfBounds)
	}

	if _, err := h.GetEntry(-1); err != ErrOutOfBounds {
		t.Errorf("GetEntry(-1) error = %v, want %v", err, ErrOutOfBounds)
	}

	e, err := h.GetEntry(0)
	if err != nil || e.Line != "a" {
		t.Errorf("GetEntry(0) = %v, %v", e, err)
	}
}
