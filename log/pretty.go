package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles for pretty printing. Colors are dropped automatically when the
// output is not a terminal.
//
//nolint:gochecknoglobals
var (
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	nullStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return falseStyle.Bold(true)
	case level >= slog.LevelWarn:
		return numberStyle.Bold(true)
	case level >= slog.LevelInfo:
		return trueStyle.Bold(true)
	default:
		return timeStyle.Bold(true)
	}
}

// prettyHandler holds the state shared by the pretty text and JSON handlers.
// Attributes added with WithAttrs are pre-qualified by the active groups and
// written before the record's own attributes.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	groups     []string
	attrs      []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h prettyHandler) enabled(level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)

	for _, a := range attrs {
		qualified = append(qualified, h.qualify(a))
	}

	h.attrs = qualified

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return h
}

// qualify prefixes the attribute key with the active group names.
func (h prettyHandler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}

	return a
}

// header returns the time, level, source, and message fields of r.
func (h prettyHandler) header(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(
				slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	return append(fields, slog.String(slog.MessageKey, r.Message))
}

// body returns the handler attributes followed by the record attributes.
func (h prettyHandler) body(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))

		return true
	})

	return attrs
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyHandler(w, opts, formatTime)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		writeTextAttr(buf, a)
	}

	for _, a := range h.body(r) {
		writeTextAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func writeTextAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, sub := range a.Value.Group() {
			if a.Key != "" {
				sub.Key = a.Key + "." + sub.Key
			}

			writeTextAttr(buf, sub)
		}

		return
	}

	if a.Key == "" {
		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(keyStyle.Render(a.Key))
	buf.WriteByte('=')
	buf.WriteString(renderValue(a.Value))
}

// prettyJSONHandler implements a pretty-printed JSON-like handler for log
// messages: one field per line, unquoted, colorized.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyHandler(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true

	for _, a := range h.header(r) {
		writeJSONAttr(buf, a, 1, &first)
	}

	for _, a := range h.body(r) {
		writeJSONAttr(buf, a, 1, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeJSONAttr(buf *bytes.Buffer, a slog.Attr, depth int, first *bool) {
	a.Value = a.Value.Resolve()

	if a.Key == "" && a.Value.Kind() != slog.KindGroup {
		return
	}

	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')

	for range depth {
		buf.WriteString("  ")
	}

	buf.WriteString(keyStyle.Render(a.Key))
	buf.WriteString(": ")

	if a.Value.Kind() != slog.KindGroup {
		buf.WriteString(renderValue(a.Value))

		return
	}

	buf.WriteString("{")

	nested := true

	for _, sub := range a.Value.Group() {
		writeJSONAttr(buf, sub, depth+1, &nested)
	}

	buf.WriteByte('\n')

	for range depth {
		buf.WriteString("  ")
	}

	buf.WriteString("}")
}

// renderValue renders a resolved slog value with a style chosen by its kind.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return durationStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().String())

	case slog.KindAny:
		switch val := v.Any().(type) {
		case slog.Level:
			return levelStyle(val).Render(Level(val).String())
		case nil:
			return nullStyle.Render("null")
		case error:
			return stringStyle.Render(val.Error())
		default:
			return stringStyle.Render(fmt.Sprint(val))
		}

	default:
		return stringStyle.Render(v.String())
	}
}
