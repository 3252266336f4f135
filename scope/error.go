package scope

import "github.com/ardnew/hbctx/pkg"

// Sentinel errors.
var (
	ErrParentRequired = pkg.NewError("parent scope required")
	ErrPropertyAccess = pkg.NewError("property accessor failed")
)
