// Package templates normalizes the long descriptions and examples of cobra
// commands.
package templates

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
)

// Indentation is the prefix of every example line.
const Indentation = `  `

// LongDesc normalizes a command's long description: common indentation and
// surrounding blank lines are removed.
func LongDesc(s string) string {
	if len(s) == 0 {
		return s
	}
	return normalizer{s}.heredoc().trim().string
}

// Examples normalizes a command's examples: every line is trimmed and then
// indented by Indentation.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	return normalizer{s}.trim().indent().string
}

type normalizer struct {
	string
}

func (s normalizer) heredoc() normalizer {
	s.string = heredoc.Doc(s.string)
	return s
}

func (s normalizer) trim() normalizer {
	s.string = strings.TrimSpace(s.string)
	return s
}

func (s normalizer) indent() normalizer {
	lines := strings.Split(s.string, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		lines[i] = Indentation + trimmed
	}
	s.string = strings.Join(lines, "\n")
	return s
}
