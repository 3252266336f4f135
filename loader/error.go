package loader

import "github.com/ardnew/hbctx/pkg"

// Sentinel errors.
var (
	ErrEmptyName        = pkg.NewError("resource name required")
	ErrEmptyPrefix      = pkg.NewError("resource prefix required")
	ErrEmptySuffix      = pkg.NewError("resource suffix required")
	ErrResourceNotFound = pkg.NewError("resource not found")
)
