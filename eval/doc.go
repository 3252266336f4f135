// Package eval evaluates expr-lang expressions against a [scope.Scope].
//
// Free identifiers and their member chains are resolved through
// [scope.Scope.Get], so "user.address.city" follows the same parent fallback
// rules as a template variable:
//
//	v, err := eval.Evaluate(ctx, s, `user.age >= 18 ? user.name : "minor"`)
//
// Function names, let bindings, and closure variables are left to expr-lang.
package eval
