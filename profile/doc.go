// Package profile provides optional runtime profiling for hbctx.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread, trace.
//
// # Usage
//
//	p := profile.Make(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	    profile.WithQuiet(true),
//	).Start()
//	defer p.Stop()
//
// From the command line:
//
//	hbctx --pprof-mode=heap --pprof-dir=./profiles get user.name
//
// Profile files are written to the output directory with names matching the
// mode (cpu.pprof, mem.pprof) and can be inspected with:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// The pprof build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux].
package profile
