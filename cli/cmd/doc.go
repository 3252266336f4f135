// Package cmd implements the hbctx subcommands.
//
// Each command builds its scope chain from the data files stored in its
// context by [WithDataFiles] and writes results to standard output.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// PathIdentifier is the kong variable identifier containing the name of
	// the environment variable listing template search directories.
	PathIdentifier = "pathenv"
)
