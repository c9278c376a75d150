package validate

import (
	"os"
)

// FileExists checks if the file at the given path exists.
// It returns an error if the file does not exist, using the provided message and arguments.
func FileExists(path string, msg string, args ...any) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return createError(msg, args...)
	}
	return nil
}

// IsFile checks if the path points to a regular file.
// It returns an error if the path is not a regular file, using the provided message and arguments.
func IsFile(path string, msg string, args ...any) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return createError(msg, args...)
	}
	return nil
}
