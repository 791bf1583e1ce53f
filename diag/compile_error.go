// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"errors"
	"fmt"
	"strings"
)

// CompileError is a user-facing compile error for one shader.
type CompileError struct {
	// File identifies the shader being compiled.
	File string

	// Line is the source line, or 0 when unknown. The metadata grammar
	// carries no line information; locations appear in Message as byte offsets.
	Line int

	// Message describes the problem.
	Message string

	// Kind categorizes the problem.
	Kind ErrorKind

	err error
}

// Error implements the error interface.
func (e CompileError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the error the CompileError was created from, if any.
func (e CompileError) Unwrap() error {
	return e.err
}

// NewCompileError converts err into a CompileError for file.
// Errors that do not wrap an *Error are reported as internal errors.
func NewCompileError(file string, err error) CompileError {
	var e *Error
	if errors.As(err, &e) {
		return CompileError{File: file, Message: err.Error(), Kind: e.Kind, err: err}
	}
	return CompileError{File: file, Message: err.Error(), Kind: ErrInternal, err: err}
}

// ErrorList is the ordered list of errors recorded for one shader.
type ErrorList []CompileError

// Error implements the error interface.
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// Add appends an error to the list.
func (el *ErrorList) Add(e CompileError) {
	*el = append(*el, e)
}

// HasErrors returns true if there are any errors.
func (el ErrorList) HasErrors() bool {
	return len(el) > 0
}

// FormatAll returns all errors, one per line.
func (el ErrorList) FormatAll() string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}
