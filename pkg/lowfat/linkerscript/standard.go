// Package linkerscript renders the section placements of the low-fat globals
// as linker script text, either as a standalone script that extends the
// linker's built-in one or spliced into a copy of that built-in script.
package linkerscript

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
)

// AnchorSection is the output section the placements are inserted after.
const AnchorSection = ".gnu.attributes"

const gib = 1 << 30

type Options struct {
	// Assertions adds a capacity check after every placement.
	Assertions bool
}

func DefaultOptions() Options {
	return Options{Assertions: true}
}

// Render produces the standard script: every placement of the layout in a
// SECTIONS block that is inserted after AnchorSection.
func Render(l *geometry.Layout, opts Options) []byte {
	var sb strings.Builder
	sb.WriteString("SECTIONS {\n")
	sb.WriteString(Stanzas(l.Placements(), opts.Assertions))
	sb.WriteString("}\nINSERT AFTER " + AnchorSection + ";\n")
	return []byte(sb.String())
}

// Stanzas renders the placements in order, each followed by an empty line.
func Stanzas(placements []geometry.Placement, assertions bool) string {
	var sb strings.Builder
	for _, p := range placements {
		sb.WriteString(Stanza(p, assertions))
	}
	return sb.String()
}

// Stanza renders one placement: move the location counter to the section
// base, place the section and, with assertions, fail the link when the
// section outgrows its capacity.
func Stanza(p geometry.Placement, assertion bool) string {
	base := hex(p.Base)
	section := p.SectionName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "\t. = %s + SIZEOF_HEADERS;\n", base)
	fmt.Fprintf(&sb, "\t%s : {KEEP(*(%s))}\n", section, section)
	if assertion {
		fmt.Fprintf(&sb, "\tASSERT(. < %s + SIZEOF_HEADERS + %s, \"LF region for size %s globals is too full (>%sGiB).\")\n",
			base, hex(p.Capacity), p.Label(), FormatGiB(p.Capacity))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatGiB renders a byte count in GiB as an exact decimal without trailing
// zeros, e.g. 8 or 0.5.
func FormatGiB(bytes uint64) string {
	r := new(big.Rat).SetFrac(new(big.Int).SetUint64(bytes), big.NewInt(gib))
	if r.IsInt() {
		return r.Num().String()
	}
	// 2^-30 has 30 decimal places, so this is exact.
	s := r.FloatString(30)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func hex(v uint64) string {
	return fmt.Sprintf("%#x", v)
}
