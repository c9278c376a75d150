package linkerscript

import "fmt"

// ExternalToolError reports a linker that could not be run or whose output
// held no script.
type ExternalToolError struct {
	Command string
	Reason  string
	Err     error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("failed to get the default linker script from %q", e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// IncompatibleDirectiveError reports a directive the secondary linker does
// not support, used in a form that cannot be rewritten.
type IncompatibleDirectiveError struct {
	// Line is 1-based.
	Line      int
	Text      string
	Directive string
	Reason    string
}

func (e *IncompatibleDirectiveError) Error() string {
	return fmt.Sprintf("cannot rewrite %s on line %d (%s): %q", e.Directive, e.Line, e.Reason, e.Text)
}

// MissingAnchorError reports a script without the section the placements are
// spliced after.
type MissingAnchorError struct {
	Anchor string
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("anchor section %s not found in the default linker script", e.Anchor)
}
