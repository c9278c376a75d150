//go:build unit || !integration

package header

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lowfat-project/lfgen/pkg/logger"
	"github.com/lowfat-project/lfgen/pkg/lowfat/config"
	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
	"github.com/lowfat-project/lfgen/pkg/lowfat/sizeclass"
)

type HeaderSuite struct {
	suite.Suite
}

func TestHeaderSuite(t *testing.T) {
	suite.Run(t, new(HeaderSuite))
}

func (s *HeaderSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
}

func (s *HeaderSuite) build(cfg *config.Configuration) (*geometry.Layout, *sizeclass.Tables) {
	l, err := geometry.Derive(cfg)
	s.Require().NoError(err)
	t, err := sizeclass.Build(l)
	s.Require().NoError(err)
	return l, t
}

func smallConfig(overrides ...config.Entry) *config.Configuration {
	return config.New(
		config.Entry{Name: config.HeapRegionSize, Value: 12 << 30},
		config.Entry{Name: config.GlobalRegionSize, Value: 16 << 30},
		config.Entry{Name: config.StackRegionSize, Value: 4 << 30},
		config.Entry{Name: config.MinAllocSize, Value: 16},
		config.Entry{Name: config.MaxHeapAllocSize, Value: 64},
		config.Entry{Name: config.MaxStackAllocSize, Value: 64},
		config.Entry{Name: config.MaxGlobalAllocSize, Value: 64},
		config.Entry{Name: config.StackSize, Value: 8 << 20},
	).With(overrides...)
}

func (s *HeaderSuite) TestMatchesGolden() {
	expected, err := os.ReadFile("testdata/sizes_16_to_64.h")
	s.Require().NoError(err)

	l, t := s.build(smallConfig())
	s.Equal(string(expected), string(Render(l, t, DefaultOptions())))
}

func (s *HeaderSuite) TestDeterministic() {
	l, t := s.build(smallConfig())
	first := Render(l, t, DefaultOptions())
	l, t = s.build(smallConfig())
	s.Equal(first, Render(l, t, DefaultOptions()))
}

func (s *HeaderSuite) TestLayout() {
	l, t := s.build(smallConfig(config.Entry{Name: "EXTRA", Value: 3}))
	out := string(Render(l, t, DefaultOptions()))

	s.True(strings.HasPrefix(out, "#pragma once\n\n#include <stddef.h>\n#include <stdint.h>\n#include <sys/types.h>\n\n#define HEAP_REGION_SIZE "))
	s.Contains(out, "#define STACK_SIZE 8388608ULL\n#define EXTRA 3U\n#define HEAP_REGION_OFFSET 0U\n")
	s.Contains(out, "#define BASE_STACK_REGION_NUM 4U\n\nstatic const uint64_t STACK_SIZES[65] = {\n    0,\n")
	s.Contains(out, "    16,\n};\n\nstatic const uint64_t STACK_MASKS[65] = {\n")
	s.Contains(out, "    0xfffffffffffffff0ULL,\n};\n\nstatic const int64_t STACK_OFFSETS[65] = {\n")
	s.True(strings.HasSuffix(out, "    -103079215104,\n};\n"))
	s.Equal(3*sizeclass.TableLength, strings.Count(out, ",\n"))
}

func (s *HeaderSuite) TestSuffix() {
	tests := map[string]struct {
		entry     config.Entry
		threshold uint64
		expected  string
	}{
		"at threshold":      {config.Entry{Value: 64}, 64, "U"},
		"above threshold":   {config.Entry{Value: 65}, 64, "ULL"},
		"zero":              {config.Entry{Value: 0}, 64, "U"},
		"raised threshold":  {config.Entry{Value: 4096}, 1<<32 - 1, "U"},
		"declared 64 bits":  {config.Entry{Value: 1, Width: config.Width64}, 64, "ULL"},
		"declared 32 bits":  {config.Entry{Value: 1 << 20, Width: config.Width32}, 64, "U"},
		"threshold ignored": {config.Entry{Value: 1 << 40, Width: config.Width32}, 64, "U"},
	}
	for name, test := range tests {
		s.Run(name, func() {
			s.Equal(test.expected, Suffix(test.entry, test.threshold))
		})
	}
}

func (s *HeaderSuite) TestDeclaredWidthInHeader() {
	l, t := s.build(smallConfig(config.Entry{Name: config.MinAllocSize, Value: 16, Width: config.Width64}))
	out := string(Render(l, t, Options{SuffixThreshold: 1 << 40}))
	s.Contains(out, "#define MIN_ALLOC_SIZE 16ULL\n")
	s.Contains(out, "#define REGION_SIZE 34359738368U\n")
}

func (s *HeaderSuite) TestFormatMask() {
	s.Equal("0", FormatMask(0))
	s.Equal("0xffffffffffffffffULL", FormatMask(sizeclass.Mask(1)))
	s.Equal("0xffffffffc0000000ULL", FormatMask(sizeclass.Mask(1<<30)))
}
