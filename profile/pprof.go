//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Enabled reports whether profiling support is compiled in.
const Enabled = true

// Modes returns the list of supported profiling modes when built with the
// pprof build tag. The special mode "quiet" is omitted from the list.
var Modes = sync.OnceValue(
	func() []string {
		m := maps.Clone(mode)
		delete(m, "quiet")

		return slices.Sorted(maps.Keys(m))
	},
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
	"quiet":     profile.Quiet,
}

// option appends profile options derived from one setting.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func start(m, path string, quiet bool) interface{ Stop() } {
	fn, ok := mode[m]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){fn}

	for _, opt := range []option{withPath(path), withQuiet(quiet)} {
		opts = opt(opts)
	}

	return profile.Start(opts...)
}

func withPath(p string) option {
	return func(opts []func(*profile.Profile)) []func(*profile.Profile) {
		if p != "" {
			opts = append(opts, profile.ProfilePath(p))
		}

		return opts
	}
}

func withQuiet(v bool) option {
	return func(opts []func(*profile.Profile)) []func(*profile.Profile) {
		if v {
			opts = append(opts, profile.Quiet)
		}

		return opts
	}
}
