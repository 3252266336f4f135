package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Top-level keys name flags; hyphens and underscores are interchangeable
//     (e.g., "log-level" or "log_level")
//   - Nested mappings are flattened by joining keys with "-", so
//     "log: {level: debug}" sets --log-level
//   - Sequences are joined with "," for slice flags
//   - Scalars are passed to kong in their text form
//
// Example config file:
//
//	log:
//	  level: debug
//	  format: text
//	  pretty: false
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten adds the entries of m to r, prefixing each key with prefix.
func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := value.(type) {
		case map[string]any:
			r.flatten(name, v)

		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}

			r[name] = strings.Join(items, ",")

		case nil, bool, string:
			r[name] = v

		default:
			// Kong requires numbers as strings for parsing
			r[name] = fmt.Sprint(v)
		}
	}
}

// normalize maps underscores in a config key to the hyphens kong uses.
func normalize(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[normalize(flag.Name)]; ok && value != nil {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
