package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/hbctx/cli/cmd/repl"
	"github.com/ardnew/hbctx/log"
)

// Repl starts an interactive prompt over the data chain.
type Repl struct {
	Templates `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadScope(ctx, "repl")
	if err != nil {
		return err
	}

	ldr, err := r.newLoader(r.source(ctx), "repl")
	if err != nil {
		return ErrLoadTemplate.Wrap(err)
	}

	logger := log.Default().With(slog.String("command", "repl"))

	return repl.Run(ctx, s, ldr, kongVar(ctx, CacheIdentifier), logger)
}
