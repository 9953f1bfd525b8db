package types

import (
	"errors"
	"fmt"
)

// MalformedDocumentError is the reader-stage terminal failure: the bytes do
// not form a well-formed XML document. Never retried.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// StructuralViolationError is the mapper-stage terminal failure: a required
// container is missing or unusable, so no IcsrDocument can exist.
type StructuralViolationError struct {
	Path    string
	Message string
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("structural violation at %s: %s", e.Path, e.Message)
}

func AsMalformedDocument(err error) (*MalformedDocumentError, bool) {
	var target *MalformedDocumentError
	ok := errors.As(err, &target)
	return target, ok
}

func AsStructuralViolation(err error) (*StructuralViolationError, bool) {
	var target *StructuralViolationError
	ok := errors.As(err, &target)
	return target, ok
}
