package linkerscript

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
)

type PatchOptions struct {
	// Anchor is the section the placements are spliced after.
	Anchor string
	// StripDirectives are rewritten to their argument before splicing.
	StripDirectives []string
}

func DefaultPatchOptions() PatchOptions {
	return PatchOptions{
		Anchor:          AnchorSection,
		StripDirectives: DefaultStripDirectives,
	}
}

// FetchAndPatch gets the default script from src and patches the layout's
// placements into it. The result is empty whenever err is set.
func FetchAndPatch(ctx context.Context, src Source, l *geometry.Layout, opts PatchOptions) (string, error) {
	script, err := src.DefaultScript(ctx)
	if err != nil {
		return "", err
	}
	return Patch(script, l.Placements(), opts)
}

// Patch makes script usable by a linker without a built-in script: it rewrites
// the directives that linker does not support and splices the placements,
// without capacity assertions, right after the anchor section. The result is
// empty whenever err is set.
func Patch(script string, placements []geometry.Placement, opts PatchOptions) (string, error) {
	if opts.Anchor == "" {
		opts.Anchor = AnchorSection
	}

	rewritten, err := StripDirectives(script, opts.StripDirectives)
	if err != nil {
		return "", err
	}

	lines := strings.Split(rewritten, "\n")
	anchor := findAnchor(lines, opts.Anchor)
	if anchor < 0 {
		return "", &MissingAnchorError{Anchor: opts.Anchor}
	}
	end, dirErr := sectionEnd(lines, anchor, opts.Anchor)
	if dirErr != nil {
		return "", dirErr
	}
	log.Debug().Int("line", end+1).Str("anchor", opts.Anchor).Msg("Splicing low-fat sections")

	var sb strings.Builder
	sb.WriteString(strings.Join(lines[:end+1], "\n"))
	sb.WriteString("\n")
	sb.WriteString(Stanzas(placements, false))
	sb.WriteString(strings.Join(lines[end+1:], "\n"))
	return sb.String(), nil
}

// sectionEnd returns the index of the line that closes the output section
// starting on lines[start]. The section body may span several lines; nothing
// but the section's own attributes may follow the closing brace.
func sectionEnd(lines []string, start int, anchor string) (int, *IncompatibleDirectiveError) {
	fail := func(i int, reason string) (int, *IncompatibleDirectiveError) {
		return -1, &IncompatibleDirectiveError{Line: i + 1, Text: strings.TrimSpace(lines[i]), Directive: anchor, Reason: reason}
	}

	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if i == start {
			line = strings.TrimLeft(line, " \t")[len(anchor):]
		}
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
				if depth < 0 {
					return fail(i, "section closes before its body opens")
				}
				if depth == 0 {
					if strings.ContainsAny(line[j+1:], "{};") {
						return fail(i, "another statement follows the section on the same line")
					}
					return i, nil
				}
			case ';':
				if !opened {
					return fail(i, "not an output section definition")
				}
			}
		}
	}
	if !opened {
		return fail(start, "section body never opens")
	}
	return fail(start, "section body never closes")
}

// findAnchor returns the index of the first line that starts with the
// section name, or -1.
func findAnchor(lines []string, anchor string) int {
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, anchor) {
			continue
		}
		if len(trimmed) == len(anchor) || !isSymbolChar(trimmed[len(anchor)]) {
			return i
		}
	}
	return -1
}
