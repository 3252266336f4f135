package data

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"
)

// Format identifies a data encoding.
type Format string

// Supported formats.
const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatCBOR  Format = "cbor"
)

// Formats lists the formats accepted by [Encode].
func Formats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatCBOR)}
}

// FormatOf returns the format implied by the extension of name.
func FormatOf(name string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "json":
		return FormatJSON
	case "jsonc":
		return FormatJSONC
	case "cbor":
		return FormatCBOR
	default:
		return FormatYAML
	}
}

//nolint:gochecknoglobals
var (
	cborDec cbor.DecMode
	cborEnc cbor.EncMode
)

func init() {
	var err error

	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("data: CBOR decoder initialization failed: " + err.Error())
	}

	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("data: CBOR encoder initialization failed: " + err.Error())
	}
}

// Decode reads a single document from r using the format implied by name.
func Decode(name string, r io.Reader) (any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("name", name))
	}

	v, err := DecodeBytes(FormatOf(name), b)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("name", name))
	}

	return v, nil
}

// DecodeBytes decodes b as a single document of format f.
func DecodeBytes(f Format, b []byte) (any, error) {
	var v any

	switch f {
	case FormatCBOR:
		if err := cborDec.Unmarshal(b, &v); err != nil {
			return nil, err
		}

		return v, nil

	case FormatJSONC:
		b = jsonc.ToJSON(b)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// Encode writes v to w in format f.
func Encode(w io.Writer, f Format, v any) error {
	var (
		b   []byte
		err error
	)

	switch f {
	case FormatYAML:
		b, err = yaml.Marshal(v)
	case FormatJSON, FormatJSONC:
		b, err = yaml.MarshalWithOptions(v, yaml.JSON())
	case FormatCBOR:
		b, err = cborEnc.Marshal(v)
	default:
		return ErrUnknownFormat.With(slog.String("format", string(f)))
	}

	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", string(f)))
	}

	_, err = w.Write(b)

	return err
}
