package eval

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/hbctx/log"
)

const (
	// lookupFunc is the environment function patched in place of scope
	// references.
	lookupFunc = "$scope"
	// thisFunc is the environment function patched in place of members of
	// "this". It resolves on the model only.
	thisFunc = "$this"
)

// scopePatcher rewrites free identifiers into calls of [lookupFunc] with the
// identifier's dotted path, merging member accesses with constant property
// names into the path:
//
//	user.address.city  =>  $scope("user.address.city")
//	items[0].name      =>  $scope("items")[0].name
//	this.user.name     =>  $this("user.name")
//
// ast.Walk visits children before parents, so a member node always sees its
// operand already rewritten.
type scopePatcher struct {
	// bound holds identifiers that must not be rewritten: function callees
	// and let bindings.
	bound  map[string]bool
	logger log.Logger
}

func newScopePatcher(tree *ast.Node, logger log.Logger) *scopePatcher {
	c := &boundCollector{names: make(map[string]bool)}
	ast.Walk(tree, c)

	return &scopePatcher{bound: c.names, logger: logger}
}

// Visit implements ast.Visitor.
func (p *scopePatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if p.bound[n.Value] || strings.HasPrefix(n.Value, "$") {
			return
		}

		ast.Patch(node, lookupCall(lookupFunc, n.Value))

		p.logger.Trace("patch identifier", slog.String("path", n.Value))

	case *ast.MemberNode:
		if n.Method {
			return
		}

		fn, base, ok := lookupPath(n.Node)
		if !ok {
			return
		}

		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return
		}

		path := base + "." + prop.Value

		// Members of "this" never fall back to a parent scope.
		if fn == lookupFunc && base == "this" {
			fn, path = thisFunc, prop.Value
		}

		ast.Patch(node, lookupCall(fn, path))

		p.logger.Trace("patch member",
			slog.String("func", fn),
			slog.String("path", path),
		)
	}
}

// lookupCall returns a call of fn with path.
func lookupCall(fn, path string) ast.Node {
	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: fn},
		Arguments: []ast.Node{&ast.StringNode{Value: path}},
	}
}

// lookupPath returns the function and path of a node created by
// [lookupCall].
func lookupPath(node ast.Node) (fn, path string, ok bool) {
	call, ok := node.(*ast.CallNode)
	if !ok || len(call.Arguments) != 1 {
		return "", "", false
	}

	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || (callee.Value != lookupFunc && callee.Value != thisFunc) {
		return "", "", false
	}

	arg, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		return "", "", false
	}

	return callee.Value, arg.Value, true
}

// boundCollector records identifiers that are not scope references.
type boundCollector struct {
	names map[string]bool
}

// Visit implements ast.Visitor.
func (c *boundCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.names[id.Value] = true
		}

	case *ast.VariableDeclaratorNode:
		c.names[n.Name] = true
	}
}
