package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// Source opens resources by location.
//
// Open must return an error matching [fs.ErrNotExist] when location does not
// exist.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to a [Source].
type SourceFunc func(ctx context.Context, location string) (io.ReadCloser, error)

// Open calls f.
func (f SourceFunc) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	return f(ctx, location)
}

// FS returns a [Source] reading from fsys. Locations are made relative by
// removing leading "/" characters.
func FS(fsys fs.FS) Source {
	return SourceFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := strings.TrimLeft(location, "/")
		if !fs.ValidPath(name) {
			return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
		}

		f, err := fsys.Open(name)
		if err != nil {
			return nil, err
		}

		if info, err := f.Stat(); err == nil && info.IsDir() {
			_ = f.Close()

			return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
		}

		return f, nil
	})
}

// Dir returns a [Source] reading from the directory tree rooted at dir.
func Dir(dir string) Source {
	return FS(os.DirFS(dir))
}

// Map returns a [Source] serving the contents of m. Keys are locations with
// or without a leading "/".
func Map(m map[string]string) Source {
	return SourceFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, ok := m[location]
		if !ok {
			content, ok = m[strings.TrimLeft(location, "/")]
		}

		if !ok {
			return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
		}

		return io.NopCloser(strings.NewReader(content)), nil
	})
}

// Search returns a [Source] that tries each of sources in order and opens
// the first one holding location. Errors other than [fs.ErrNotExist] stop the
// search.
func Search(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}

			rc, err := src.Open(ctx, location)
			if err == nil && rc != nil {
				return rc, nil
			}

			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}

		return nil, &fs.PathError{Op: "open", Path: location, Err: fs.ErrNotExist}
	})
}

// SearchPath returns a [Search] over the directories in list, a
// [os.PathListSeparator]-delimited list such as $PATH. Empty elements are
// ignored.
func SearchPath(list string) Source {
	var sources []Source

	for _, dir := range filepath.SplitList(list) {
		if dir != "" {
			sources = append(sources, Dir(dir))
		}
	}

	return Search(sources...)
}

// SearchPathEnv returns a [SearchPath] over dirs followed by the directories
// listed in the environment variable env. Directories that do not exist are
// skipped.
func SearchPathEnv(env string, dirs ...string) Source {
	return SearchPath(mung.Make(
		mung.WithSubjectItems(os.Getenv(env)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String())
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
