package scope

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"slices"
	"sort"
	"strings"
)

// Getter is implemented by records that resolve their own properties.
// The boolean result reports whether name is defined.
type Getter interface {
	Property(name string) (any, bool)
}

// ErrorGetter is a [Getter] whose lookups can fail.
type ErrorGetter interface {
	Property(name string) (any, bool, error)
}

// Namer lists the properties of a [Getter] or [ErrorGetter] for completion.
type Namer interface {
	PropertyNames() []string
}

// Accessor resolves a single property name against a host value.
// An Accessor is safe for concurrent use.
type Accessor struct {
	registry *Registry
	cache    *reflectCache
}

// NewAccessor returns an [Accessor] using registry for registered property
// tables, or [DefaultRegistry] if registry is nil.
func NewAccessor(registry *Registry) *Accessor {
	if registry == nil {
		registry = DefaultRegistry
	}

	return &Accessor{registry: registry, cache: newReflectCache()}
}

// Resolve returns the value of property name on host, or nil if host does
// not define it.
//
// String-keyed maps are resolved by key alone. Other hosts are searched for,
// in order: a [Getter] or [ErrorGetter], a table registered for the host's
// type or an embedded type or an implemented interface, a zero-argument
// method named GetName, IsName, or Name, and an exported field Name.
//
// The error is non-nil only if a matched accessor panics or fails, in which
// case it matches [ErrPropertyAccess].
func (a *Accessor) Resolve(host any, name string) (any, error) {
	if isNil(host) {
		return nil, nil
	}

	switch h := host.(type) {
	case map[string]any:
		return normalize(h[name]), nil
	case Storage:
		return normalize(h[name]), nil
	case Partials:
		return normalize(h[name]), nil
	case Getter:
		return a.invoke(host, name, func() (any, error) {
			if v, ok := h.Property(name); ok {
				return v, nil
			}

			return nil, nil
		})
	case ErrorGetter:
		return a.invoke(host, name, func() (any, error) {
			v, ok, err := h.Property(name)
			if err != nil || !ok {
				return nil, err
			}

			return v, nil
		})
	}

	v := reflect.ValueOf(host)

	if m := indirect(v); m.Kind() == reflect.Map {
		return mapIndex(m, name), nil
	}

	if fn, recv, ok := a.registry.find(v, name); ok {
		return a.invoke(host, name, func() (any, error) { return fn(recv) })
	}

	if m, viaNil, ok := a.cache.method(v, name); ok {
		if viaNil {
			return a.invokeNil(host, name, m)
		}

		return a.invoke(host, name, func() (any, error) { return call(m) })
	}

	if f, ok := a.cache.field(v, name); ok && f.CanInterface() {
		return normalize(f.Interface()), nil
	}

	return nil, nil
}

// Names returns the sorted property names host exposes.
func (a *Accessor) Names(host any) []string {
	if isNil(host) {
		return nil
	}

	var names []string

	v := reflect.ValueOf(host)

	switch m := indirect(v); {
	case m.Kind() == reflect.Map:
		if m.Type().Key().Kind() != reflect.String {
			return nil
		}

		for _, k := range m.MapKeys() {
			names = append(names, k.String())
		}

	default:
		if n, ok := host.(Namer); ok {
			names = append(names, n.PropertyNames()...)
		}

		names = append(names, a.registry.names(v.Type())...)

		if v.Kind() == reflect.Pointer {
			names = append(names, a.registry.names(v.Type().Elem())...)
		}

		for _, it := range a.registry.interfaces(v.Type()) {
			names = append(names, a.registry.names(it)...)
		}

		names = append(names, a.cache.names(v.Type())...)
	}

	sort.Strings(names)

	return slices.Compact(names)
}

// invoke runs fn, converting a panic or error into [ErrPropertyAccess].
func (a *Accessor) invoke(
	host any,
	name string,
	fn func() (any, error),
) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = accessError(host, name, fmt.Errorf("panic: %v", r))
		}
	}()

	value, err = fn()
	if err != nil {
		return nil, accessError(host, name, err)
	}

	return normalize(value), nil
}

// invokeNil calls a method that may be promoted from a nil embedded field.
// A nil dereference means the field does not provide name, the same as a
// promoted field behind a nil embedded pointer.
func (a *Accessor) invokeNil(
	host any,
	name string,
	m reflect.Value,
) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok &&
				strings.Contains(re.Error(), "nil") {
				value, err = nil, nil

				return
			}

			err = accessError(host, name, fmt.Errorf("panic: %v", r))
		}
	}()

	value, err = call(m)
	if err != nil {
		return nil, accessError(host, name, err)
	}

	return normalize(value), nil
}

func accessError(host any, name string, cause error) error {
	return ErrPropertyAccess.Wrap(cause).With(
		slog.String("property", name),
		slog.String("type", fmt.Sprintf("%T", host)),
	)
}

// call invokes a zero-argument accessor method and interprets its results.
func call(m reflect.Value) (any, error) {
	out := m.Call(nil)

	if len(out) == 2 {
		switch second := out[1].Interface().(type) {
		case error:
			if second != nil {
				return nil, second
			}
		case bool:
			if !second {
				return nil, nil
			}
		}
	}

	return out[0].Interface(), nil
}

// mapIndex looks up name in a map whose key kind is string.
func mapIndex(m reflect.Value, name string) any {
	kt := m.Type().Key()
	if kt.Kind() != reflect.String {
		return nil
	}

	v := m.MapIndex(reflect.ValueOf(name).Convert(kt))
	if !v.IsValid() {
		return nil
	}

	return normalize(v.Interface())
}

// indirect dereferences non-nil pointers.
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	return v
}

// normalize maps typed nil values to an untyped nil so that absence is
// always reported as nil.
func normalize(v any) any {
	if isNil(v) {
		return nil
	}

	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func,
		reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
