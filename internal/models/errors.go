package models

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every failure in the analysis pipeline is recoverable at
// the boundary: the console prints it, the HTTP layer maps it to a status
// code, and no failure corrupts prior state.
var (
	// ErrMissingCredential indicates no API key could be resolved from
	// override, environment, settings store, or config.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrFileNotFound indicates a named input file does not exist or is
	// unreadable.
	ErrFileNotFound = errors.New("file not found")

	// ErrDecodeFailure indicates a text document contained invalid UTF-8.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrEmptyInput indicates no valid documents or instruction remained
	// after validation, or a required output path was empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrServiceFailure indicates the external generation service failed
	// (network, auth, quota, malformed response).
	ErrServiceFailure = errors.New("service failure")
)

// UnsupportedTypeError indicates a document's declared type is outside the
// supported set {text, markdown, pdf}.
type UnsupportedTypeError struct {
	Name     string
	Declared string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Declared != "" {
		return fmt.Sprintf("unsupported document type %q for %s", e.Declared, e.Name)
	}
	return fmt.Sprintf("unsupported document type for %s", e.Name)
}

// IsUnsupportedType reports whether err is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var ute *UnsupportedTypeError
	return errors.As(err, &ute)
}
