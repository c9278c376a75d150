// Package header renders the C header that carries the layout constants and
// the stack size-class tables to the runtime.
package header

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/lowfat-project/lfgen/pkg/lowfat/config"
	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
	"github.com/lowfat-project/lfgen/pkg/lowfat/sizeclass"
)

// DefaultSuffixThreshold is the largest value an undeclared entry can have and
// still be emitted as a 32-bit constant.
const DefaultSuffixThreshold = 64

// Array names in the generated header.
const (
	SizesArray   = "STACK_SIZES"
	MasksArray   = "STACK_MASKS"
	OffsetsArray = "STACK_OFFSETS"
)

var includes = []string{"stddef.h", "stdint.h", "sys/types.h"}

type Options struct {
	// SuffixThreshold decides the suffix of entries without a declared width:
	// values above it get ULL, the others U.
	SuffixThreshold uint64
}

func DefaultOptions() Options {
	return Options{SuffixThreshold: DefaultSuffixThreshold}
}

// Render produces the header for the layout and its tables. Output only
// depends on its inputs.
func Render(l *geometry.Layout, t *sizeclass.Tables, opts Options) []byte {
	var buf bytes.Buffer

	buf.WriteString("#pragma once\n\n")
	for _, include := range includes {
		fmt.Fprintf(&buf, "#include <%s>\n", include)
	}
	buf.WriteString("\n")

	for _, e := range l.Config.Entries() {
		line := Define(e, opts.SuffixThreshold)
		log.Debug().Msg(line)
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	sizes := array(SizesArray, "uint64_t", t.Sizes[:], func(v uint64) string {
		return strconv.FormatUint(v, 10)
	})
	masks := array(MasksArray, "uint64_t", t.Masks[:], FormatMask)
	offsets := array(OffsetsArray, "int64_t", t.Offsets[:], func(v int64) string {
		return strconv.FormatInt(v, 10)
	})
	log.Debug().Msgf("Sizes array:\n%s", sizes)
	log.Debug().Msgf("Masks array:\n%s", masks)
	log.Debug().Msgf("Offsets array:\n%s", offsets)

	fmt.Fprintf(&buf, "\n%s\n%s\n%s", sizes, masks, offsets)
	return buf.Bytes()
}

// Define renders one #define line, without the trailing newline.
func Define(e config.Entry, threshold uint64) string {
	return fmt.Sprintf("#define %s %d%s", e.Name, e.Value, Suffix(e, threshold))
}

// Suffix returns the integer literal suffix for the entry. A declared width
// wins over the magnitude rule.
func Suffix(e config.Entry, threshold uint64) string {
	switch e.Width {
	case config.Width64:
		return "ULL"
	case config.Width32:
		return "U"
	}
	if e.Value > threshold {
		return "ULL"
	}
	return "U"
}

// FormatMask renders a mask as a 64-bit hex literal; the zero mask of an out
// of range class is a plain 0.
func FormatMask(mask uint64) string {
	if mask == 0 {
		return "0"
	}
	return "0x" + strconv.FormatUint(mask, 16) + "ULL"
}

func array[T any](name, ctype string, values []T, format func(T) string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "static const %s %s[%d] = {\n", ctype, name, len(values))
	for _, v := range values {
		fmt.Fprintf(&buf, "    %s,\n", format(v))
	}
	buf.WriteString("};\n")
	return buf.String()
}
