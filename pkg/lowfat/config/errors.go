package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// MissingParameterError is returned when a required key is absent.
type MissingParameterError struct {
	Key string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required variable in config file: %s", e.Key)
}

// ValueError is returned when a value cannot be read as an unsigned 64-bit
// integer of the declared width.
type ValueError struct {
	Key    string
	Raw    string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %s for %s: %s", e.Raw, e.Key, e.Reason)
}

// MissingParameters extracts every missing key reported in err.
func MissingParameters(err error) []string {
	var keys []string
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			keys = append(keys, MissingParameters(e)...)
		}
		return keys
	}
	var missing *MissingParameterError
	if errors.As(err, &missing) {
		keys = append(keys, missing.Key)
	}
	return keys
}
