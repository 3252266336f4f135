package scope

import (
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// typeInfo caches the property-like members of one type.
type typeInfo struct {
	// methods maps a method name to its index in the method set of the
	// pointer type, so pointer receiver methods are found for values too.
	methods map[string]int
	// fields maps an exported field name, including promoted fields, to its
	// index path.
	fields map[string][]int
	// embeds maps a method name promoted from an embedded field to the index
	// path of the deepest embedded field on its promotion chain.
	embeds map[string][]int
}

// reflectCache memoizes [typeInfo] per [reflect.Type].
type reflectCache struct {
	sync.RWMutex

	cache map[reflect.Type]*typeInfo
}

func newReflectCache() *reflectCache {
	return &reflectCache{cache: make(map[reflect.Type]*typeInfo)}
}

var (
	errorType = reflect.TypeFor[error]()
	boolType  = reflect.TypeFor[bool]()
)

// analyze returns the cached [typeInfo] for t, which must not be a pointer.
func (r *reflectCache) analyze(t reflect.Type) *typeInfo {
	r.RLock()
	if info, ok := r.cache[t]; ok {
		r.RUnlock()

		return info
	}
	r.RUnlock()

	r.Lock()
	defer r.Unlock()

	if info, ok := r.cache[t]; ok {
		return info
	}

	info := &typeInfo{
		methods: make(map[string]int),
		fields:  make(map[string][]int),
		embeds:  make(map[string][]int),
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		if m.IsExported() && isAccessorMethod(m.Type) {
			info.methods[m.Name] = i
		}
	}

	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if !f.IsExported() || f.Anonymous {
				continue
			}

			// Shallower fields shadow promoted ones with the same name.
			if prev, ok := info.fields[f.Name]; ok && len(prev) <= len(f.Index) {
				continue
			}

			info.fields[f.Name] = f.Index
		}

		for name := range info.methods {
			if path := embedPath(t, name); path != nil {
				info.embeds[name] = path
			}
		}
	}

	r.cache[t] = info

	return info
}

// embedPath returns the index path of the deepest embedded field of struct t
// on the promotion chain of method name, or nil if no embedded field
// provides it. A method t declares itself may shadow the one found.
func embedPath(t reflect.Type, name string) []int {
	var embedded []reflect.StructField

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous {
			embedded = append(embedded, f)
		}
	}

	slices.SortStableFunc(embedded, func(a, b reflect.StructField) int {
		return len(a.Index) - len(b.Index)
	})

	var path []int

	for _, f := range embedded {
		if path != nil &&
			(len(f.Index) <= len(path) || !slices.Equal(f.Index[:len(path)], path)) {
			continue
		}

		if provides(f.Type, name) {
			path = f.Index
		}
	}

	return path
}

// provides reports whether the method set reachable through an embedded
// field of type t contains name.
func provides(t reflect.Type, name string) bool {
	if k := t.Kind(); k != reflect.Interface && k != reflect.Pointer {
		t = reflect.PointerTo(t)
	}

	_, ok := t.MethodByName(name)

	return ok
}

// isAccessorMethod reports whether a method type, including its receiver,
// takes no arguments and returns a value optionally followed by an error or
// an ok flag. Methods returning only an error are actions, not accessors.
func isAccessorMethod(mt reflect.Type) bool {
	if mt.NumIn() != 1 || mt.IsVariadic() {
		return false
	}

	switch mt.NumOut() {
	case 1:
		return mt.Out(0) != errorType
	case 2:
		out := mt.Out(1)

		return out == errorType || out == boolType
	default:
		return false
	}
}

// conventionNames returns the method names checked for property name, in
// order of preference.
func conventionNames(name string) []string {
	exported := capitalize(name)

	return []string{"Get" + exported, "Is" + exported, exported}
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}

// method returns the bound convention method for name on v, or false.
// v must be a non-nil value; pointer receivers are reached through an
// addressable copy when v is not already a pointer.
//
// viaNil reports that the method may be promoted from an embedded field
// that is nil in v.
func (r *reflectCache) method(
	v reflect.Value,
	name string,
) (m reflect.Value, viaNil, ok bool) {
	base := v
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	info := r.analyze(base.Type())

	for _, candidate := range conventionNames(name) {
		if _, ok := info.methods[candidate]; !ok {
			continue
		}

		if path, ok := info.embeds[candidate]; ok {
			viaNil = nilEmbed(base, path)
		}

		recv := v
		if recv.Kind() != reflect.Pointer {
			ptr := reflect.New(base.Type())
			ptr.Elem().Set(base)
			recv = ptr
		}

		return recv.MethodByName(candidate), viaNil, true
	}

	return reflect.Value{}, false, false
}

// nilEmbed reports whether the embedded field at path in struct v, or any
// embedded pointer leading to it, is nil.
func nilEmbed(v reflect.Value, path []int) bool {
	fv, err := v.FieldByIndexErr(path)
	if err != nil {
		return true
	}

	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	default:
		return false
	}
}

// field returns the exported field named name, or its capitalized form, on
// struct value v. Promoted fields behind nil embedded pointers are absent.
func (r *reflectCache) field(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	info := r.analyze(v.Type())

	index, ok := info.fields[name]
	if !ok {
		index, ok = info.fields[capitalize(name)]
	}

	if !ok {
		return reflect.Value{}, false
	}

	fv, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}, false
	}

	return fv, true
}

// names returns the property names exposed by methods and fields of t.
func (r *reflectCache) names(t reflect.Type) []string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	info := r.analyze(t)
	names := make([]string, 0, len(info.methods)+len(info.fields))

	for m := range info.methods {
		names = append(names, propertyName(m))
	}

	for f := range info.fields {
		names = append(names, lowerFirst(f))
	}

	sort.Strings(names)

	return names
}

// propertyName maps an exported member name to the property name a template
// would use: GetCity and City become city, IsActive becomes active.
func propertyName(member string) string {
	for _, prefix := range []string{"Get", "Is"} {
		rest, ok := strings.CutPrefix(member, prefix)
		if ok && rest != "" {
			if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
				member = rest

				break
			}
		}
	}

	return lowerFirst(member)
}

func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToLower(r)) + name[size:]
}
