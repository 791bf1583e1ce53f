// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrMalformedMetadata, "MalformedMetadata"},
		{ErrIndexInvariant, "IndexInvariantViolation"},
		{ErrResourceLimit, "ResourceLimitExceeded"},
		{ErrUnrecognizedToken, "UnrecognizedToken"},
		{ErrInternal, "InternalError"},
		{ErrorKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err1 := Errorf(ErrResourceLimit, "shader uses %d samplers exceeding the limit of %d", 20, 16)
	got1 := err1.Error()
	if !strings.Contains(got1, "ResourceLimitExceeded") {
		t.Errorf("Error() should contain kind, got %q", got1)
	}
	if strings.Contains(got1, "byte") {
		t.Errorf("Error() without offset should not mention a byte, got %q", got1)
	}

	err2 := ErrorAt(ErrMalformedMetadata, 42, "expected ','")
	got2 := err2.Error()
	if !strings.Contains(got2, "byte 42") {
		t.Errorf("Error() with offset should contain location, got %q", got2)
	}
}

func TestError_Fatal(t *testing.T) {
	if !Errorf(ErrMalformedMetadata, "x").Fatal() {
		t.Error("MalformedMetadata should be fatal")
	}
	if !Errorf(ErrIndexInvariant, "x").Fatal() {
		t.Error("IndexInvariantViolation should be fatal")
	}
	if Errorf(ErrResourceLimit, "x").Fatal() {
		t.Error("ResourceLimitExceeded should not be fatal to the batch")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("parse: %w", ErrorAt(ErrUnrecognizedToken, 3, "precision 'q'"))

	kind, ok := KindOf(wrapped)
	if !ok || kind != ErrUnrecognizedToken {
		t.Errorf("KindOf() = (%v, %v), want (UnrecognizedToken, true)", kind, ok)
	}
	if !IsKind(wrapped, ErrUnrecognizedToken) {
		t.Error("IsKind() = false, want true")
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report ok = false")
	}
}

func TestNewCompileError(t *testing.T) {
	ce := NewCompileError("Foo.usf", fmt.Errorf("build: %w", Errorf(ErrIndexInvariant, "index 2, expected 1")))
	if ce.Kind != ErrIndexInvariant {
		t.Errorf("Kind = %v, want IndexInvariantViolation", ce.Kind)
	}
	if got := ce.Error(); !strings.HasPrefix(got, "Foo.usf: ") {
		t.Errorf("Error() = %q, want file prefix", got)
	}
	if !IsKind(ce, ErrIndexInvariant) {
		t.Errorf("IsKind(%v) = false, want the wrapped kind", ce)
	}

	plain := NewCompileError("", errors.New("boom"))
	if plain.Kind != ErrInternal {
		t.Errorf("Kind = %v, want InternalError", plain.Kind)
	}
	if plain.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "boom")
	}

	lined := CompileError{File: "a.glsl", Line: 7, Message: "bad"}
	if lined.Error() != "a.glsl:7: bad" {
		t.Errorf("Error() = %q, want %q", lined.Error(), "a.glsl:7: bad")
	}
}

func TestErrorList(t *testing.T) {
	var el ErrorList
	if el.HasErrors() {
		t.Error("empty list should have no errors")
	}
	if el.Error() != "no errors" {
		t.Errorf("Error() = %q", el.Error())
	}

	el.Add(CompileError{Message: "first"})
	if el.Error() != "first" {
		t.Errorf("Error() = %q, want %q", el.Error(), "first")
	}
	el.Add(CompileError{Message: "second"})
	if got := el.Error(); got != "first (and 1 more errors)" {
		t.Errorf("Error() = %q", got)
	}
	if got := el.FormatAll(); got != "first\nsecond" {
		t.Errorf("FormatAll() = %q", got)
	}
}
