// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag defines the error taxonomy shared by the metadata parser,
// the binding builder and the artifact writer.
package diag

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes shader header errors.
type ErrorKind uint8

const (
	// ErrMalformedMetadata indicates a character or marker required by the
	// metadata grammar is missing.
	ErrMalformedMetadata ErrorKind = iota

	// ErrIndexInvariant indicates a uniform buffer index that does not match
	// the next free uniform buffer slot.
	ErrIndexInvariant

	// ErrResourceLimit indicates a shader exceeds a platform limit.
	ErrResourceLimit

	// ErrUnrecognizedToken indicates an unknown section marker or precision.
	ErrUnrecognizedToken

	// ErrInternal indicates an internal error.
	ErrInternal
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedMetadata:
		return "MalformedMetadata"
	case ErrIndexInvariant:
		return "IndexInvariantViolation"
	case ErrResourceLimit:
		return "ResourceLimitExceeded"
	case ErrUnrecognizedToken:
		return "UnrecognizedToken"
	case ErrInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// NoOffset marks an error that has no metadata location.
const NoOffset = -1

// Error is a single shader header error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Offset is the byte offset in the metadata text, or NoOffset.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Fatal reports whether the error aborts the shader compile before any
// bindings are produced.
func (e *Error) Fatal() bool {
	return e.Kind != ErrResourceLimit
}

// Errorf creates an Error without location information.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  NoOffset,
	}
}

// ErrorAt creates an Error located at a byte offset of the metadata.
func ErrorAt(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
// ok is false if err does not wrap an *Error.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
