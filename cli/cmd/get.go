package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hbctx/data"
	"github.com/ardnew/hbctx/scope"
)

// Get resolves property paths in the innermost scope of the data chain.
type Get struct {
	Output string   `default:"yaml" enum:"yaml,json,cbor" help:"Output format." short:"o"`
	Paths  []string `arg:""                                help:"Property paths to resolve, such as 'user.name' or 'this'." name:"path"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScope(ctx, "get")
	if err != nil {
		return err
	}

	return g.write(ctx, os.Stdout, s)
}

// write encodes the value of each path found in s to w. Absent paths write
// nothing.
func (g *Get) write(ctx context.Context, w io.Writer, s *scope.Scope) error {
	format := data.Format(g.Output)
	docs := 0

	for _, path := range g.Paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, ok, err := s.Lookup(path)
		if err != nil {
			return ErrResolve.Wrap(err).With(slog.String("path", path))
		}

		if !ok {
			continue
		}

		if docs > 0 && format == data.FormatYAML {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		if err := data.Encode(w, format, v); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
		}

		docs++
	}

	return nil
}
