package data

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/hbctx/scope"
)

// Load decodes each file in paths and returns the innermost scope of a chain
// built from them: the first file is the root and each following file is a
// child of the one before. With no paths, the result is a root scope over an
// empty map.
func Load(
	ctx context.Context,
	f *scope.Factory,
	paths ...string,
) (*scope.Scope, error) {
	if f == nil {
		f = scope.NewFactory()
	}

	if len(paths) == 0 {
		return f.Wrap(map[string]any{}), nil
	}

	var s *scope.Scope

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		model, err := decodeFile(path)
		if err != nil {
			return nil, err
		}

		if s == nil {
			s = f.Wrap(model)

			continue
		}

		if s, err = f.WrapChild(s, model); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func decodeFile(path string) (any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("name", path))
	}
	defer file.Close()

	return Decode(path, file)
}
