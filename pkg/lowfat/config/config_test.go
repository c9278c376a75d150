//go:build unit || !integration

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lowfat-project/lfgen/pkg/logger"
)

const referenceConfig = `{
    "HEAP_REGION_SIZE": 12884901888,
    "GLOBAL_REGION_SIZE": 17179869184,
    "STACK_REGION_SIZE": 4294967296,
    "MIN_ALLOC_SIZE": 16,
    "MAX_HEAP_ALLOC_SIZE": 1073741824,
    "MAX_STACK_ALLOC_SIZE": 1073741824,
    "MAX_GLOBAL_ALLOC_SIZE": 1073741824,
    "STACK_SIZE": 1073741824
}`

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
}

func (s *ConfigSuite) TestParseKeepsDocumentOrder() {
	cfg, err := Parse([]byte(referenceConfig), FormatJSON)
	s.Require().NoError(err)
	s.Require().NoError(Validate(cfg))
	s.Equal(RequiredParameters, cfg.Names())
	s.Equal(uint64(17179869184), cfg.MustGet(GlobalRegionSize))
	s.Equal(uint64(16), cfg.MustGet(MinAllocSize))
}

func (s *ConfigSuite) TestParseExactLargeValues() {
	// 2^63 + 1 cannot round-trip through float64.
	cfg, err := Parse([]byte(`{"BIG": 9223372036854775809, "MAX": 18446744073709551615}`), FormatJSON)
	s.Require().NoError(err)
	s.Equal(uint64(9223372036854775809), cfg.MustGet("BIG"))
	s.Equal(uint64(18446744073709551615), cfg.MustGet("MAX"))
}

func (s *ConfigSuite) TestParseValueForms() {
	cfg, err := Parse([]byte(`{
		"A": 16.0,
		"B": 1e3,
		"C": "8KB",
		"D": {"value": 4096, "bits": 32},
		"E": {"value": "1GB", "bits": 64},
		"F": {"value": 7}
	}`), FormatJSON)
	s.Require().NoError(err)

	s.Equal(uint64(16), cfg.MustGet("A"))
	s.Equal(uint64(1000), cfg.MustGet("B"))
	s.Equal(uint64(8192), cfg.MustGet("C"))

	d, _ := cfg.Lookup("D")
	s.Equal(Entry{Name: "D", Value: 4096, Width: Width32}, d)
	e, _ := cfg.Lookup("E")
	s.Equal(Entry{Name: "E", Value: 1 << 30, Width: Width64}, e)
	f, _ := cfg.Lookup("F")
	s.Equal(WidthAuto, f.Width)
}

func (s *ConfigSuite) TestParseRejectsInvalidValues() {
	tests := map[string]string{
		"negative":       `{"A": -1}`,
		"fraction":       `{"A": 16.5}`,
		"overflow":       `{"A": 18446744073709551616}`,
		"bool":           `{"A": true}`,
		"bad size":       `{"A": "lots"}`,
		"bad width":      `{"A": {"value": 1, "bits": 16}}`,
		"width overflow": `{"A": {"value": 4294967296, "bits": 32}}`,
		"no value":       `{"A": {"bits": 64}}`,
	}
	for name, doc := range tests {
		s.Run(name, func() {
			_, err := Parse([]byte(doc), FormatJSON)
			s.Require().Error(err)
			var valueErr *ValueError
			s.True(errors.As(err, &valueErr), "expected a ValueError, got %v", err)
			s.Equal("A", valueErr.Key)
		})
	}
}

func (s *ConfigSuite) TestParseRejectsMalformedDocuments() {
	for name, doc := range map[string]string{
		"not json":  `{"A": `,
		"array":     `[1, 2]`,
		"empty":     `{}`,
		"bad yaml":  `a: [1, 2`,
		"top level": `16`,
	} {
		s.Run(name, func() {
			format := FormatJSON
			if name == "bad yaml" {
				format = FormatYAML
			}
			_, err := Parse([]byte(doc), format)
			s.Error(err)
		})
	}
}

func (s *ConfigSuite) TestParseYAML() {
	doc := `
HEAP_REGION_SIZE: 12GB
MIN_ALLOC_SIZE: 16
`
	cfg, err := Parse([]byte(doc), FormatYAML)
	s.Require().NoError(err)
	s.Equal(uint64(12<<30), cfg.MustGet(HeapRegionSize))
	s.Equal(uint64(16), cfg.MustGet(MinAllocSize))
}

func (s *ConfigSuite) TestValidateReportsEveryMissingKey() {
	cfg := New(Entry{Name: HeapRegionSize, Value: 1 << 30}, Entry{Name: MinAllocSize, Value: 16})
	err := Validate(cfg)
	s.Require().Error(err)

	var missing *MissingParameterError
	s.Require().True(errors.As(err, &missing))
	s.Equal(GlobalRegionSize, missing.Key)
	s.Equal([]string{
		GlobalRegionSize,
		StackRegionSize,
		MaxHeapAllocSize,
		MaxStackAllocSize,
		MaxGlobalAllocSize,
		StackSize,
	}, MissingParameters(err))
	s.Contains(err.Error(), "missing required variable in config file: STACK_SIZE")
}

func (s *ConfigSuite) TestLoad() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "lf_config.json")
	s.Require().NoError(os.WriteFile(path, []byte(referenceConfig), 0o600))

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(8, cfg.Len())

	_, err = Load(filepath.Join(dir, "missing.json"))
	s.Error(err)

	partial := filepath.Join(dir, "partial.yml")
	s.Require().NoError(os.WriteFile(partial, []byte("MIN_ALLOC_SIZE: 16\n"), 0o600))
	_, err = Load(partial)
	var missing *MissingParameterError
	s.True(errors.As(err, &missing))
}

func (s *ConfigSuite) TestWithDoesNotMutate() {
	base := New(Entry{Name: "A", Value: 1}, Entry{Name: "B", Value: 2})
	augmented := base.With(Entry{Name: "A", Value: 10}, Entry{Name: "C", Value: 3})

	s.Equal([]string{"A", "B"}, base.Names())
	s.Equal(uint64(1), base.MustGet("A"))
	s.Equal([]string{"A", "B", "C"}, augmented.Names())
	s.Equal(uint64(10), augmented.MustGet("A"))

	entries := augmented.Entries()
	entries[0].Value = 99
	s.Equal(uint64(10), augmented.MustGet("A"))
}

func (s *ConfigSuite) TestMustGetPanicsOnUnknownKey() {
	s.Panics(func() { New().MustGet("NOPE") })
}

func (s *ConfigSuite) TestSchemaValidation() {
	msgs, err := ValidateDocument([]byte(referenceConfig), FormatJSON)
	s.Require().NoError(err)
	s.Empty(msgs)

	msgs, err = ValidateDocument([]byte(`{"MIN_ALLOC_SIZE": 16, "EXTRA": "4KB"}`), FormatJSON)
	s.Require().NoError(err)
	s.NotEmpty(msgs)

	msgs, err = ValidateDocument([]byte(`{"MIN_ALLOC_SIZE": -16}`), FormatJSON)
	s.Require().NoError(err)
	s.NotEmpty(msgs)

	schema, err := Schema()
	s.Require().NoError(err)
	s.Contains(string(schema), `"MAX_STACK_ALLOC_SIZE"`)
}

func (s *ConfigSuite) TestSchemaAgreesWithParseOnSizeStrings() {
	tests := map[string]bool{
		`"16GB"`:  true,
		`"16 GB"`: true,
		`"1.5GB"`: false,
		`"16.0"`:  false,
	}
	for value, valid := range tests {
		s.Run(value, func() {
			doc := []byte(strings.Replace(referenceConfig, "17179869184", value, 1))
			msgs, err := ValidateDocument(doc, FormatJSON)
			s.Require().NoError(err)
			_, parseErr := Parse(doc, FormatJSON)
			if valid {
				s.Empty(msgs)
				s.NoError(parseErr)
			} else {
				s.NotEmpty(msgs)
				s.Error(parseErr)
			}
		})
	}
}

func (s *ConfigSuite) TestSchemaListsEveryKey() {
	schema, err := Schema()
	s.Require().NoError(err)
	s.Contains(string(schema), `"MAX_STACK_ALLOC_SIZE"`)
	s.Contains(string(schema), `"bits"`)
}
