package eval

import "github.com/ardnew/hbctx/pkg"

// Sentinel errors.
var (
	ErrCompile  = pkg.NewError("expression compilation failed")
	ErrEvaluate = pkg.NewError("expression evaluation failed")
)
