package linkerscript

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Source provides the built-in script of the system linker.
type Source interface {
	DefaultScript(ctx context.Context) (string, error)
}

// DefaultLinker is the linker asked for its built-in script.
const DefaultLinker = "ld"

const scriptDelimiter = "====="

// Compile-time check of interface implementation
var _ Source = (*ExecSource)(nil)

// ExecSource runs a GNU-compatible linker with --verbose and takes the script
// from its output.
type ExecSource struct {
	Path string
	Args []string
}

func NewExecSource(path string) *ExecSource {
	if path == "" {
		path = DefaultLinker
	}
	return &ExecSource{Path: path, Args: []string{"--verbose"}}
}

func (s *ExecSource) DefaultScript(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.Path, s.Args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Ctx(ctx).Debug().Str("linker", s.Path).Strs("args", s.Args).Msg("Fetching default linker script")
	if err := cmd.Run(); err != nil {
		return "", &ExternalToolError{
			Command: s.command(),
			Reason:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	script, err := ExtractScript(stdout.String())
	if err != nil {
		return "", &ExternalToolError{Command: s.command(), Reason: err.Error()}
	}
	return script, nil
}

func (s *ExecSource) command() string {
	return strings.Join(append([]string{s.Path}, s.Args...), " ")
}

// ExtractScript returns the lines between the first two delimiter lines of
// the linker's verbose output.
func ExtractScript(output string) (string, error) {
	lines := strings.Split(output, "\n")
	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), scriptDelimiter) {
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		return strings.Join(lines[start+1:i], "\n") + "\n", nil
	}
	if start < 0 {
		return "", fmt.Errorf("no %q delimiter in linker output", scriptDelimiter)
	}
	return "", fmt.Errorf("unterminated script in linker output")
}
