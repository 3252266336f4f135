// Package data decodes template context files and builds scope chains from
// them.
//
// The codec is chosen by file extension: YAML (.yaml, .yml), JSON (.json),
// JSON with comments (.jsonc), and CBOR (.cbor). Anything else is read as
// YAML. Mappings are always decoded as map[string]any so that scopes can
// resolve their keys.
package data
