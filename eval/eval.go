package eval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/hbctx/log"
	"github.com/ardnew/hbctx/scope"
)

// Option configures compilation and evaluation.
type Option func(*config)

type config struct {
	logger log.Logger
}

// WithLogger sets the logger used to trace patching and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// Program is a compiled expression that can be run against any scope.
// A Program is safe for concurrent use.
type Program struct {
	source  string
	program *vm.Program
	logger  log.Logger
}

// Compile compiles input into a [Program].
func Compile(input string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	tree, err := parser.Parse(input)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", input))
	}

	patcher := newScopePatcher(&tree.Node, cfg.logger)

	program, err := expr.Compile(input, expr.Patch(patcher))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", input))
	}

	return &Program{source: input, program: program, logger: cfg.logger}, nil
}

// Source returns the expression p was compiled from.
func (p *Program) Source() string { return p.source }

// Run evaluates p with every scope reference resolved by s.
//
// An error from a property accessor is returned unchanged.
func (p *Program) Run(ctx context.Context, s *scope.Scope) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var accessErr error

	record := func(v any, err error) (any, error) {
		if err != nil && accessErr == nil {
			accessErr = err
		}

		return v, err
	}

	env := map[string]any{
		lookupFunc: func(path string) (any, error) {
			return record(s.Get(path))
		},
		thisFunc: func(path string) (any, error) {
			return record(resolveModel(s, path))
		},
	}

	out, err := expr.Run(p.program, env)

	switch {
	case accessErr != nil:
		return nil, accessErr
	case err != nil:
		return nil, ErrEvaluate.Wrap(err).With(slog.String("source", p.source))
	}

	p.logger.DebugContext(ctx, "expression evaluated",
		slog.String("source", p.source),
		slog.Any("scope", s),
	)

	return out, nil
}

// resolveModel resolves the dotted path on the model of s through its
// accessor, without consulting parent scopes.
func resolveModel(s *scope.Scope, path string) (any, error) {
	acc := s.Accessor()
	current := s.Model()

	for segment := range strings.SplitSeq(path, ".") {
		if segment == "" {
			continue
		}

		v, err := acc.Resolve(current, segment)
		if err != nil || v == nil {
			return nil, err
		}

		current = v
	}

	return current, nil
}

// Evaluate compiles input and runs it against s.
func Evaluate(
	ctx context.Context,
	s *scope.Scope,
	input string,
	opts ...Option,
) (any, error) {
	p, err := Compile(input, opts...)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, s)
}
