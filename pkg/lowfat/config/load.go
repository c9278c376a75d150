package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

// Format is the encoding of a configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension. Anything
// that is not YAML is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, parses and validates the configuration document at path.
func Load(path string) (*Configuration, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file '%s'", path)
	}
	cfg, err := Parse(doc, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse config file '%s'", path)
	}
	log.Debug().Str("path", path).Int("entries", cfg.Len()).Msgf("Successfully parsed '%s'.", path)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	log.Debug().Msg("All variables found.")
	return cfg, nil
}

// Parse decodes a document into a Configuration, keeping document order and
// the exact value of every number.
func Parse(doc []byte, format Format) (*Configuration, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(doc)
		if err != nil {
			return nil, errors.Wrap(err, "error converting yaml to json")
		}
		doc = converted
	}
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("document is not valid json")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, errors.New("document must be an object of named values")
	}

	var (
		entries []Entry
		errs    *multierror.Error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		e, err := parseEntry(key.String(), value)
		if err != nil {
			errs = multierror.Append(errs, err)
			return true
		}
		entries = append(entries, e)
		return true
	})
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("document defines no values")
	}
	return New(entries...), nil
}

// Validate checks that every required parameter is present. All missing keys
// are reported, each as a *MissingParameterError.
func Validate(cfg *Configuration) error {
	var errs *multierror.Error
	for _, key := range RequiredParameters {
		if !cfg.Has(key) {
			errs = multierror.Append(errs, &MissingParameterError{Key: key})
		}
	}
	return errs.ErrorOrNil()
}

func parseEntry(name string, value gjson.Result) (Entry, error) {
	if value.IsObject() {
		return parseDeclaredEntry(name, value)
	}
	v, err := parseValue(name, value)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Value: v, Width: WidthAuto}, nil
}

// parseDeclaredEntry reads the {"value": ..., "bits": 32|64} form.
func parseDeclaredEntry(name string, obj gjson.Result) (Entry, error) {
	raw := obj.Get("value")
	if !raw.Exists() {
		return Entry{}, &ValueError{Key: name, Raw: obj.Raw, Reason: `object values need a "value" field`}
	}
	v, err := parseValue(name, raw)
	if err != nil {
		return Entry{}, err
	}

	width := WidthAuto
	if bits := obj.Get("bits"); bits.Exists() {
		n, err := parseValue(name, bits)
		if err != nil {
			return Entry{}, err
		}
		if width, err = ParseWidth(n); err != nil {
			return Entry{}, &ValueError{Key: name, Raw: bits.Raw, Reason: err.Error()}
		}
	}
	if width == Width32 && v > 1<<32-1 {
		return Entry{}, &ValueError{Key: name, Raw: raw.Raw, Reason: "does not fit in the declared 32 bits"}
	}
	return Entry{Name: name, Value: v, Width: width}, nil
}

func parseValue(name string, value gjson.Result) (uint64, error) {
	switch value.Type {
	case gjson.Number:
		return parseExact(name, value.Raw)
	case gjson.String:
		size, err := datasize.ParseString(strings.TrimSpace(value.Str))
		if err != nil {
			return 0, &ValueError{Key: name, Raw: value.Raw, Reason: "not a size: " + err.Error()}
		}
		return size.Bytes(), nil
	default:
		return 0, &ValueError{Key: name, Raw: value.Raw, Reason: "expected a number or a size string"}
	}
}

// parseExact reads a JSON number literal without going through float64, so
// values above 2^53 keep every bit.
func parseExact(name, raw string) (uint64, error) {
	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, &ValueError{Key: name, Raw: raw, Reason: "not a number"}
	}
	if r.Sign() < 0 {
		return 0, &ValueError{Key: name, Raw: raw, Reason: "must not be negative"}
	}
	if !r.IsInt() {
		return 0, &ValueError{Key: name, Raw: raw, Reason: "must be an integer"}
	}
	if !r.Num().IsUint64() {
		return 0, &ValueError{Key: name, Raw: raw, Reason: "does not fit in 64 bits"}
	}
	return r.Num().Uint64(), nil
}
