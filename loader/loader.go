package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/ardnew/hbctx/log"
)

// Default location affixes.
const (
	DefaultPrefix = "/"
	DefaultSuffix = ".hbs"
)

// Loader resolves template names to locations and opens them from a
// [Source].
type Loader struct {
	source Source
	prefix string
	suffix string
	logger log.Logger
}

// Option configures a [Loader].
type Option func(*Loader)

// WithLogger sets the logger used to report loaded resources.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New returns a [Loader] reading from src with [DefaultPrefix] and
// [DefaultSuffix].
func New(src Source, opts ...Option) *Loader {
	l := &Loader{
		source: src,
		prefix: DefaultPrefix,
		suffix: DefaultSuffix,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Prefix returns the string prepended to every location.
func (l *Loader) Prefix() string { return l.prefix }

// Suffix returns the string appended to every location.
func (l *Loader) Suffix() string { return l.suffix }

// SetPrefix sets the location prefix, adding a trailing "/" if missing.
func (l *Loader) SetPrefix(prefix string) error {
	if prefix == "" {
		return ErrEmptyPrefix
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	l.prefix = prefix

	return nil
}

// SetSuffix sets the location suffix.
func (l *Loader) SetSuffix(suffix string) error {
	if suffix == "" {
		return ErrEmptySuffix
	}

	l.suffix = suffix

	return nil
}

// Resolve returns the location of the named resource.
func (l *Loader) Resolve(name string) string {
	return l.prefix + strings.TrimPrefix(name, "/") + l.suffix
}

// Load opens the named resource. The caller must close the returned reader.
//
// The error matches [ErrResourceNotFound] and [fs.ErrNotExist] if the
// resource does not exist.
func (l *Loader) Load(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	location := l.Resolve(name)

	if l.source == nil {
		return nil, notFound(location, fs.ErrNotExist)
	}

	rc, err := l.source.Open(ctx, location)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, notFound(location, err)
	case err != nil:
		return nil, err
	case rc == nil:
		return nil, notFound(location, fs.ErrNotExist)
	}

	l.logger.DebugContext(ctx, "resource found", slog.String("location", location))

	return rc, nil
}

func notFound(location string, cause error) error {
	return ErrResourceNotFound.Wrap(cause).With(slog.String("location", location))
}
