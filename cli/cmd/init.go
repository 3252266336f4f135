package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hbctx/log"
	"github.com/ardnew/hbctx/profile"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("reason", "no command context"))
	}

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		return ErrWriteConfig.With(slog.String("reason", "config path undefined"))
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	if err := writeConfig(file, ktx); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// writeConfig encodes the persistable flag values of ktx as a YAML mapping
// in flag declaration order.
func writeConfig(w io.Writer, ktx *kong.Context) error {
	b, err := yaml.Marshal(configValues(ktx))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(b)

	return err
}

// configValues returns the values of the flags of ktx that belong in a
// configuration file. Hidden flags, help, data files, profiling flags, and
// empty values are omitted.
func configValues(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "data", profile.Tag}

	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return values
}

func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}

		return v
	case []string:
		if len(v) == 0 {
			return nil
		}

		return v
	case bool, int, int64, uint, uint64, float64:
		return v
	default:
		// Named types such as log levels encode by their underlying kind.
		switch rv := reflect.ValueOf(v); rv.Kind() {
		case reflect.String:
			return configValue(rv.String())
		case reflect.Bool:
			return rv.Bool()
		default:
			return nil
		}
	}
}
