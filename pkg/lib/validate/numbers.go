package validate

import (
	"golang.org/x/exp/constraints"
)

// IsPowerOfTwo checks if the provided value is a positive power of two.
// It returns an error if it is not, using the provided message and arguments.
func IsPowerOfTwo[T constraints.Unsigned](value T, msg string, args ...any) error {
	if value == 0 || value&(value-1) != 0 {
		return createError(msg, args...)
	}
	return nil
}

// IsEven checks if the provided value is divisible by two.
func IsEven[T constraints.Integer](value T, msg string, args ...any) error {
	if value%2 != 0 {
		return createError(msg, args...)
	}
	return nil
}
