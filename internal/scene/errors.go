package scene

import "errors"

var (
	// ErrInvalidName is returned for names that do not normalize to a
	// usable JavaScript class name.
	ErrInvalidName = errors.New("invalid scene name")

	// ErrUnsupportedStyle is returned for module styles other than
	// commonjs and esnext.
	ErrUnsupportedStyle = errors.New("unsupported module style")

	// ErrMissingIndex is returned when the scenes index is absent or unreadable.
	ErrMissingIndex = errors.New("scenes index not found")
)
