package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hbctx/data"
	"github.com/ardnew/hbctx/eval"
	"github.com/ardnew/hbctx/log"
	"github.com/ardnew/hbctx/scope"
)

// Eval evaluates an expression against the data chain. Free identifiers in
// the expression are resolved through the innermost scope, falling back to
// its ancestors.
type Eval struct {
	Output     string `default:"yaml" enum:"yaml,json,cbor" help:"Output format." short:"o"`
	Expression string `arg:""                                help:"Expression to evaluate." name:"expression"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScope(ctx, "eval")
	if err != nil {
		return err
	}

	return e.write(ctx, os.Stdout, s)
}

func (e *Eval) write(ctx context.Context, w io.Writer, s *scope.Scope) error {
	logger := log.Default().With(slog.String("command", "eval"))

	v, err := eval.Evaluate(ctx, s, e.Expression, eval.WithLogger(logger))
	if err != nil {
		return ErrEvaluate.Wrap(err).
			With(slog.String("expression", e.Expression))
	}

	if err := data.Encode(w, data.Format(e.Output), v); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
