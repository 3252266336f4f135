// Package scope resolves dotted property paths against a chain of nested
// rendering scopes.
//
// A [Scope] pairs a model value with an optional parent and a [Storage] map
// shared by every scope in the chain. [Scope.Get] splits a key on ".",
// walks the intermediate segments from the model, and resolves the last one
// with an [Accessor]:
//
//	root := scope.Wrap(map[string]any{"title": "Orders"})
//	child, _ := scope.WrapChild(root, order)
//	title, _ := child.Get("title")        // found on root
//	city, _ := child.Get("customer.city") // resolved on order only
//
// A single-segment key that is absent on a scope's model is retried on the
// parent. A dotted key that navigated into a nested value and found nothing
// there is definitive: the parent is not consulted.
//
// # Property access
//
// Maps with string keys are resolved by key. Other values are searched for a
// [Getter] or [ErrorGetter] implementation, a table registered with
// [Register], zero-argument methods named GetName, IsName, or Name, and
// finally an exported field. An accessor that panics or returns an error
// yields [ErrPropertyAccess].
//
// # Storage
//
// Storage is not synchronized. Callers rendering scope trees concurrently
// must either synchronize access to the shared map or give each tree its
// own storage with [WithStorage].
package scope
