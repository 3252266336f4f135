// Package cli contains the command line interface for hbctx.
//
// # Usage
//
//	hbctx [flags] <command>
//
// Data files given with --data (or -d) form a scope chain: the first file is
// the outermost scope and each following file is a child of the one before.
// The value "-" reads YAML from stdin as the innermost scope.
//
//	hbctx -d site.yaml -d page.yaml get title author.name
//	hbctx -d site.yaml eval 'upper(title) + " by " + author.name'
//	hbctx load -I ./templates partials/header
//	hbctx -d site.yaml repl
//
// # Commands
//
//   - get: resolve property paths and print their values (the default)
//   - eval: evaluate an expression whose free identifiers resolve through
//     the scope chain
//   - load: resolve a template by name and print it
//   - repl: interactive prompt with completion of property names
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (e.g., ~/.config/hbctx/config.yaml). Command-line flags override
// config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/hbctx/pprof)
package cli
