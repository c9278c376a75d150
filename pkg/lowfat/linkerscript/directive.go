package linkerscript

import (
	"strings"
)

// DefaultStripDirectives are the directives lld does not understand in the
// default script of GNU ld.
var DefaultStripDirectives = []string{"SORT_NONE"}

// StripDirectives rewrites every call of the given directives, NAME ( arg ),
// to its argument. The argument must be a plain input section pattern: a call
// without parentheses, one that does not close on its line, or one with a
// nested call cannot be rewritten and fails the whole script.
func StripDirectives(script string, directives []string) (string, error) {
	lines := strings.Split(script, "\n")
	for i, line := range lines {
		for _, directive := range directives {
			rewritten, err := stripCalls(line, directive)
			if err != nil {
				err.Line = i + 1
				return "", err
			}
			line = rewritten
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), nil
}

func stripCalls(line, directive string) (string, *IncompatibleDirectiveError) {
	fail := func(reason string) *IncompatibleDirectiveError {
		return &IncompatibleDirectiveError{Text: strings.TrimSpace(line), Directive: directive, Reason: reason}
	}

	var sb strings.Builder
	rest := line
	for {
		at := indexToken(rest, directive)
		if at < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:at])

		call := strings.TrimLeft(rest[at+len(directive):], " \t")
		if !strings.HasPrefix(call, "(") {
			return "", fail("not a call")
		}
		call = call[1:]
		end := strings.IndexAny(call, "()")
		switch {
		case end < 0:
			return "", fail("unterminated call")
		case call[end] == '(':
			return "", fail("nested call")
		}
		arg := strings.TrimSpace(call[:end])
		if arg == "" {
			return "", fail("empty argument")
		}
		sb.WriteString(arg)
		rest = call[end+1:]
	}
}

// indexToken finds name in s as a whole symbol, not as part of a longer one.
func indexToken(s, name string) int {
	offset := 0
	for {
		at := strings.Index(s[offset:], name)
		if at < 0 {
			return -1
		}
		at += offset
		end := at + len(name)
		if (at == 0 || !isSymbolChar(s[at-1])) && (end == len(s) || !isSymbolChar(s[end])) {
			return at
		}
		offset = at + 1
	}
}

func isSymbolChar(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
