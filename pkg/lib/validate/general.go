package validate

import (
	"fmt"
	"reflect"
)

// NotNil checks if the provided value is not nil.
// Typed nil pointers, maps and slices count as nil.
func NotNil(value any, msg string, args ...any) error {
	if value == nil {
		return createError(msg, args...)
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return createError(msg, args...)
		}
	}
	return nil
}

// NotBlank checks that the string is not empty.
func NotBlank(s string, msg string, args ...any) error {
	if s == "" {
		return createError(msg, args...)
	}
	return nil
}

func createError(msg string, args ...any) error {
	return fmt.Errorf(msg, args...)
}
