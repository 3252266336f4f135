// Package log wraps [log/slog] with a small value-typed [Logger].
//
// A Logger is configured once with functional options and never mutated.
// Derived loggers are built with [Logger.Wrap], [Logger.With], and
// [Logger.WithGroup].
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("scope created", slog.String("chain", id))
//
// Attributes are always passed as [slog.Attr] values.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-lookup detail
// such as scope fallback. The zero [Logger] discards everything, so types
// can embed one without requiring a caller to configure it.
//
// # Output
//
// [FormatJSON] (default) and [FormatText] are supported. With [WithPretty]
// both are rendered by colorized handlers; otherwise the standard
// [slog.JSONHandler] and [slog.TextHandler] are used.
//
// # Default logger
//
// The package functions ([Info], [DebugContext], ...) write through the
// logger returned by [Default], which [Config] and [SetDefault] replace.
package log
