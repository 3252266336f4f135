package scope

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ardnew/hbctx/log"
)

// Factory creates [Scope] chains.
//
// Scopes created by a Factory share its [Accessor] and logger. The zero
// value is not usable; create one with [NewFactory].
type Factory struct {
	accessor *Accessor
	logger   log.Logger
	storage  Storage
}

// Option configures a [Factory].
type Option func(*Factory)

// WithAccessor sets the [Accessor] used to resolve properties.
func WithAccessor(a *Accessor) Option {
	return func(f *Factory) {
		if a != nil {
			f.accessor = a
		}
	}
}

// WithLogger sets the logger used to trace scope creation and lookups.
func WithLogger(logger log.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

// WithStorage sets the storage of every root scope the factory creates.
// The reserved partials slot is added if missing.
//
// Roots created by the same factory then share st, so it must not be used
// for scope trees rendered concurrently without external synchronization.
func WithStorage(st Storage) Option {
	return func(f *Factory) { f.storage = st }
}

// NewFactory returns a [Factory] configured with opts.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if f.accessor == nil {
		f.accessor = NewAccessor(nil)
	}

	return f
}

//nolint:gochecknoglobals
var defaultFactory = sync.OnceValue(func() *Factory { return NewFactory() })

// Wrap returns a root scope over candidate, or candidate itself if it is
// already a [*Scope].
func (f *Factory) Wrap(candidate any) *Scope {
	if s, ok := candidate.(*Scope); ok && s != nil {
		return s
	}

	s := &Scope{
		model:   candidate,
		storage: newStorage(f.storage),
		chain:   uuid.NewString(),
		factory: f,
	}

	f.logger.Trace("scope created",
		slog.String("chain", s.chain),
		slog.Int("depth", s.depth),
		slog.Int("storage", len(s.storage)),
	)

	return s
}

// WrapChild returns a scope over candidate whose parent is parent and whose
// storage is the parent's storage.
//
// If candidate is already a [*Scope] it is returned unchanged; it keeps its
// own parent and storage and parent is ignored. A nil parent yields
// [ErrParentRequired].
func (f *Factory) WrapChild(parent *Scope, candidate any) (*Scope, error) {
	if parent == nil {
		return nil, ErrParentRequired
	}

	if s, ok := candidate.(*Scope); ok && s != nil {
		return s, nil
	}

	s := &Scope{
		model:   candidate,
		parent:  parent,
		storage: parent.storage,
		chain:   parent.chain,
		depth:   parent.depth + 1,
		factory: parent.factoryOrDefault(),
	}

	f.logger.Trace("scope created",
		slog.String("chain", s.chain),
		slog.Int("depth", s.depth),
	)

	return s, nil
}

// Wrap returns a root scope over candidate using a default [Factory].
// See [Factory.Wrap].
func Wrap(candidate any) *Scope {
	return defaultFactory().Wrap(candidate)
}

// WrapChild returns a child of parent over candidate using a default
// [Factory]. See [Factory.WrapChild].
func WrapChild(parent *Scope, candidate any) (*Scope, error) {
	return defaultFactory().WrapChild(parent, candidate)
}
