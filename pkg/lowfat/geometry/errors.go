package geometry

import "fmt"

// ArithmeticDomainError reports a configuration value the layout arithmetic
// cannot work with, such as a size that must be a power of two but is not.
type ArithmeticDomainError struct {
	Key    string
	Value  uint64
	Reason string
}

func (e *ArithmeticDomainError) Error() string {
	return fmt.Sprintf("%s = %d: %s", e.Key, e.Value, e.Reason)
}
