package cmd

import "github.com/ardnew/hbctx/pkg"

// Sentinel errors.
var (
	ErrLoadData     = pkg.NewError("load data files")
	ErrResolve      = pkg.NewError("resolve path")
	ErrEvaluate     = pkg.NewError("evaluate expression")
	ErrLoadTemplate = pkg.NewError("load template")
	ErrWriteOutput  = pkg.NewError("write output")
)

// Configuration file errors.
var (
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
