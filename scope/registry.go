package scope

import (
	"reflect"
	"sync"
)

// accessorFunc reads one property from a host of a registered type.
type accessorFunc func(host any) (any, error)

// Registry maps types to named property accessors.
//
// Tables registered for concrete types are matched against the dynamic type
// of a host and of its embedded fields. Tables registered for interface types
// are matched against any host implementing the interface, in registration
// order.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[reflect.Type]map[string]accessorFunc
	ifaces []reflect.Type
}

// NewRegistry returns an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{tables: make(map[reflect.Type]map[string]accessorFunc)}
}

// DefaultRegistry is used by accessors created without an explicit registry.
//
//nolint:gochecknoglobals
var DefaultRegistry = NewRegistry()

// Register adds a property named name to the table of type T in r.
// A nil r registers with [DefaultRegistry].
func Register[T any](r *Registry, name string, fn func(T) any) {
	RegisterFunc(r, name, func(host T) (any, error) { return fn(host), nil })
}

// RegisterFunc is like [Register] for accessors that can fail.
func RegisterFunc[T any](r *Registry, name string, fn func(T) (any, error)) {
	if r == nil {
		r = DefaultRegistry
	}

	r.add(reflect.TypeFor[T](), name, func(host any) (any, error) {
		h, ok := host.(T)
		if !ok {
			return nil, nil
		}

		return fn(h)
	})
}

func (r *Registry) add(t reflect.Type, name string, fn accessorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[t]
	if !ok {
		table = make(map[string]accessorFunc)
		r.tables[t] = table

		if t.Kind() == reflect.Interface {
			r.ifaces = append(r.ifaces, t)
		}
	}

	table[name] = fn
}

// lookup returns the accessor registered for name on exactly type t.
func (r *Registry) lookup(t reflect.Type, name string) (accessorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.tables[t][name]

	return fn, ok
}

// interfaces returns the registered interface types implemented by t.
func (r *Registry) interfaces(t reflect.Type) []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var impl []reflect.Type

	for _, it := range r.ifaces {
		if t.Implements(it) {
			impl = append(impl, it)
		}
	}

	return impl
}

// names returns the property names registered on exactly type t.
func (r *Registry) names(t reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := r.tables[t]
	names := make([]string, 0, len(table))

	for name := range table {
		names = append(names, name)
	}

	return names
}

// find searches the tables for v's type, the types of its embedded fields
// (depth-first, in declaration order), and then registered interfaces v
// implements. The returned host is the value the accessor must be invoked
// with.
func (r *Registry) find(v reflect.Value, name string) (accessorFunc, any, bool) {
	if fn, host, ok := r.findConcrete(v, name); ok {
		return fn, host, true
	}

	for _, it := range r.interfaces(v.Type()) {
		if fn, ok := r.lookup(it, name); ok {
			return fn, v.Interface(), true
		}
	}

	return nil, nil, false
}

func (r *Registry) findConcrete(
	v reflect.Value,
	name string,
) (accessorFunc, any, bool) {
	if fn, ok := r.lookup(v.Type(), name); ok {
		return fn, v.Interface(), true
	}

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, false
		}

		v = v.Elem()

		if fn, ok := r.lookup(v.Type(), name); ok {
			return fn, v.Interface(), true
		}
	}

	if v.Kind() != reflect.Struct {
		return nil, nil, false
	}

	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}

		fv := v.Field(i)

		// Embedded interfaces are searched through their dynamic value.
		if fv.Kind() == reflect.Interface {
			fv = fv.Elem()
		}

		if !fv.IsValid() || !fv.CanInterface() || isNil(fv.Interface()) {
			continue
		}

		if fn, host, ok := r.find(fv, name); ok {
			return fn, host, true
		}
	}

	return nil, nil, false
}
