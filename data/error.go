package data

import "github.com/ardnew/hbctx/pkg"

// Sentinel errors.
var (
	ErrDecode        = pkg.NewError("failed to decode data")
	ErrEncode        = pkg.NewError("failed to encode data")
	ErrUnknownFormat = pkg.NewError("unknown data format")
)
