package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrDirNotFound indicates the specified directory does not exist.
	ErrDirNotFound = errors.New("directory not found")

	// ErrUnknownConfigKey indicates an unsupported config key was given.
	ErrUnknownConfigKey = errors.New("unknown config key")
)
