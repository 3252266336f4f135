package scope

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/hbctx/log"
)

// Scope is one level of a rendering scope chain.
//
// A Scope is immutable after construction. Its [Storage] is shared with every
// other scope in the chain and may be mutated by callers.
type Scope struct {
	model   any
	parent  *Scope
	storage Storage
	chain   string
	depth   int
	factory *Factory
}

// outcome is the result of resolving a path on a single scope.
type outcome uint8

const (
	// missing means the scope has no value and the parent should be asked.
	missing outcome = iota
	// found means the scope resolved a value.
	found
	// stopped means the path navigated into the model and its leaf is
	// absent; the parent must not be asked.
	stopped
)

// Get resolves key against the scope chain and returns nil if it has no
// value.
//
// The keys "." and "this" return the model. Any other key is split on "."
// (empty segments are ignored) and resolved from the model. A key with a
// single segment that the model does not define, or whose intermediate
// segments are absent, is resolved on the parent instead. A key that
// navigated into a nested value and found no leaf there yields nil without
// consulting the parent.
func (s *Scope) Get(key string) (any, error) {
	v, _, err := s.Lookup(key)

	return v, err
}

// Lookup is like [Scope.Get] but also reports whether a value was found.
func (s *Scope) Lookup(key string) (any, bool, error) {
	if key == "." || key == "this" {
		return s.model, s.model != nil, nil
	}

	path := splitPath(key)

	for cur := s; cur != nil; cur = cur.parent {
		v, res, err := cur.resolve(path)
		if err != nil {
			return nil, false, err
		}

		switch res {
		case found:
			return v, true, nil

		case stopped:
			s.logger().Trace("lookup stopped",
				slog.String("key", key),
				slog.Int("depth", cur.depth),
			)

			return nil, false, nil

		case missing:
			if cur.parent != nil {
				s.logger().Trace("lookup fallback",
					slog.String("key", key),
					slog.Int("from", cur.depth),
					slog.Int("to", cur.parent.depth),
				)
			}
		}
	}

	return nil, false, nil
}

// resolve resolves path on this scope's model only.
func (s *Scope) resolve(path []string) (any, outcome, error) {
	if len(path) == 0 {
		return nil, missing, nil
	}

	acc := s.Accessor()
	current := s.model

	last := len(path) - 1
	for _, segment := range path[:last] {
		v, err := acc.Resolve(current, segment)
		if err != nil {
			return nil, missing, err
		}

		if v == nil {
			return nil, missing, nil
		}

		current = v
	}

	v, err := acc.Resolve(current, path[last])
	if err != nil {
		return nil, missing, err
	}

	switch {
	case v != nil:
		return v, found, nil
	case last > 0:
		return nil, stopped, nil
	default:
		return nil, missing, nil
	}
}

// splitPath splits key on "." discarding empty segments.
func splitPath(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool { return r == '.' })
}

// Model returns the value this scope resolves against.
func (s *Scope) Model() any { return s.model }

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Root returns the outermost scope of the chain.
func (s *Scope) Root() *Scope {
	root := s
	for root.parent != nil {
		root = root.parent
	}

	return root
}

// Depth returns the number of ancestors of s.
func (s *Scope) Depth() int { return s.depth }

// Chain returns the identifier shared by every scope in the chain.
func (s *Scope) Chain() string { return s.chain }

// Storage returns the map shared by every scope in the chain.
func (s *Scope) Storage() Storage { return s.storage }

// Partials returns the partial templates registered in the chain's storage,
// or nil if the slot was removed or replaced with an unsupported type.
func (s *Scope) Partials() Partials {
	switch p := s.storage[PartialsKey].(type) {
	case Partials:
		return p
	case map[string]any:
		return Partials(p)
	default:
		return nil
	}
}

// Child returns a scope over candidate whose parent is s.
// See [Factory.WrapChild].
func (s *Scope) Child(candidate any) *Scope {
	// WrapChild only fails for a nil parent.
	child, _ := s.factoryOrDefault().WrapChild(s, candidate)

	return child
}

// String formats the model.
func (s *Scope) String() string { return fmt.Sprint(s.model) }

// LogValue implements [slog.LogValuer].
func (s *Scope) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("chain", s.chain),
		slog.Int("depth", s.depth),
		slog.String("model", fmt.Sprintf("%T", s.model)),
	)
}

func (s *Scope) factoryOrDefault() *Factory {
	if s.factory == nil {
		return defaultFactory()
	}

	return s.factory
}

// Accessor returns the [Accessor] resolving properties for s.
func (s *Scope) Accessor() *Accessor { return s.factoryOrDefault().accessor }

// Names returns the sorted property names exposed by the models of s and its
// ancestors.
func (s *Scope) Names() []string {
	var names []string

	for cur := s; cur != nil; cur = cur.parent {
		names = append(names, cur.Accessor().Names(cur.model)...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func (s *Scope) logger() log.Logger { return s.factoryOrDefault().logger }
