package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hbctx/loader"
	"github.com/ardnew/hbctx/log"
	"github.com/ardnew/hbctx/pkg"
)

// DefaultPathEnv is the environment variable listing template search
// directories searched after --dir.
const DefaultPathEnv = pkg.EnvPrefix + "PATH"

// Templates configures how template resources are located.
type Templates struct {
	Prefix string   `default:"/"    help:"Location prefix prepended to template names."`
	Suffix string   `default:".hbs" help:"Location suffix appended to template names."`
	Dir    []string `               help:"Template search directories, searched before ${pathenv}." short:"I" type:"existingdir"`
}

// source returns the template search path: the --dir directories followed by
// those listed in the path environment variable.
func (t *Templates) source(ctx context.Context) loader.Source {
	env := kongVar(ctx, PathIdentifier)
	if env == "" {
		env = DefaultPathEnv
	}

	return loader.SearchPathEnv(env, t.Dir...)
}

// newLoader returns a loader reading from src with the configured prefix and
// suffix.
func (t *Templates) newLoader(
	src loader.Source,
	command string,
) (*loader.Loader, error) {
	ldr := loader.New(src, loader.WithLogger(
		log.Default().With(slog.String("command", command)),
	))

	if err := ldr.SetPrefix(t.Prefix); err != nil {
		return nil, err
	}

	if err := ldr.SetSuffix(t.Suffix); err != nil {
		return nil, err
	}

	return ldr, nil
}

// Load resolves a template resource by name and copies it to stdout.
type Load struct {
	Templates `embed:""`

	Name string `arg:"" help:"Template name, such as 'partials/header'." name:"name"`
}

// Run executes the load command.
func (l *Load) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return l.copy(ctx, os.Stdout, l.source(ctx))
}

func (l *Load) copy(ctx context.Context, w io.Writer, src loader.Source) error {
	ldr, err := l.newLoader(src, "load")
	if err != nil {
		return ErrLoadTemplate.Wrap(err).With(slog.String("name", l.Name))
	}

	rc, err := ldr.Load(ctx, l.Name)
	if err != nil {
		return ErrLoadTemplate.Wrap(err).With(slog.String("name", l.Name))
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("name", l.Name))
	}

	return nil
}
