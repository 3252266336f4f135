package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault_SetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithFormat(FormatText), WithPretty(false)))
	Config(WithLevel(LevelDebug))

	Debug("package debug", slog.String("k", "v"))
	With(slog.String("scope", "root")).Info("derived")

	out := buf.String()
	for _, want := range []string{"package debug", "k=v", "derived", "scope=root"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}

	if Default().Level() != LevelDebug {
		t.Errorf("Level() = %v, want %v", Default().Level(), LevelDebug)
	}
}
