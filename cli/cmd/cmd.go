package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hbctx/data"
	"github.com/ardnew/hbctx/log"
	"github.com/ardnew/hbctx/scope"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" if ctx carries no
// kong.Context.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

type (
	dataFilesKey struct{}

	// DataFiles is the ordered list of data files forming a scope chain.
	// The first file is the outermost scope.
	DataFiles struct {
		paths    []string
		hasStdin bool
	}
)

// IsZero reports whether there are no data files.
func (d *DataFiles) IsZero() bool {
	return d == nil || (len(d.paths) == 0 && !d.hasStdin)
}

// Paths returns the resolved data file paths in chain order, excluding stdin.
func (d *DataFiles) Paths() []string {
	if d == nil {
		return nil
	}

	return d.paths
}

// Stdin reports whether stdin was included as a data source.
func (d *DataFiles) Stdin() bool { return d != nil && d.hasStdin }

// Scope decodes the data files and returns the innermost scope of the chain
// built from them. Stdin, if included, is decoded as YAML and becomes the
// innermost scope.
func (d *DataFiles) Scope(
	ctx context.Context,
	f *scope.Factory,
	stdin io.Reader,
) (*scope.Scope, error) {
	s, err := data.Load(ctx, f, d.Paths()...)
	if err != nil {
		return nil, err
	}

	if !d.Stdin() || stdin == nil {
		return s, nil
	}

	model, err := data.Decode(stdinSource, stdin)
	if err != nil {
		return nil, err
	}

	// A chain made only from stdin replaces the empty root data.Load returns.
	if len(d.Paths()) == 0 {
		return f.Wrap(model), nil
	}

	return f.WrapChild(s, model)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithDataFiles returns a new context.Context containing the data files
// named by sources.
//
// Duplicates are removed by resolving symlinks and comparing device/inode
// pairs; the first occurrence keeps its position in the chain. All
// occurrences of "-" are replaced with a single stdin source that becomes the
// innermost scope.
func WithDataFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, buildDataFiles(ctx, sources))
}

func buildDataFiles(ctx context.Context, sources []string) *DataFiles {
	if len(sources) == 0 {
		return nil
	}

	var files DataFiles

	files.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	stdinInfo, err := os.Stdin.Stat()
	if err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniquePath(ctx, src, seen)
		if !ok {
			continue
		}

		files.paths = append(files.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, files.hasStdin = seen[stdinKey]

	if files.IsZero() {
		return nil
	}

	return &files
}

// uniquePath resolves path and reports whether the file it names has not been
// seen before. Skipped paths are logged at debug level.
func uniquePath(
	ctx context.Context,
	path string,
	seen map[fileKey]struct{},
) (string, bool) {
	skip := func(attr slog.Attr) (string, bool) {
		log.DebugContext(ctx, "data file skipped", slog.String("path", path), attr)

		return "", false
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return skip(slog.Any("error", err))
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return skip(slog.Any("error", err))
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return skip(slog.Any("error", err))
	}

	if info.IsDir() {
		return skip(slog.String("reason", "directory"))
	}

	key, ok := makeFileKey(info)
	if !ok {
		return resolved, true
	}

	if _, exists := seen[key]; exists {
		return skip(slog.String("reason", "duplicate"))
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// dataFilesFrom retrieves the data files stored in ctx by WithDataFiles.
func dataFilesFrom(ctx context.Context) *DataFiles {
	d, _ := ctx.Value(dataFilesKey{}).(*DataFiles)

	return d
}

// loadScope builds the scope chain for a command from the data files in ctx.
func loadScope(ctx context.Context, command string) (*scope.Scope, error) {
	logger := log.Default().With(slog.String("command", command))
	f := scope.NewFactory(scope.WithLogger(logger))

	s, err := dataFilesFrom(ctx).Scope(ctx, f, os.Stdin)
	if err != nil {
		return nil, ErrLoadData.Wrap(err).With(slog.String("command", command))
	}

	logger.DebugContext(ctx, "scope chain loaded",
		slog.Int("depth", s.Depth()),
		slog.String("chain", s.Chain()),
	)

	return s, nil
}
