// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

const fragmentSource = `
@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

func lower(t *testing.T, source string) *ir.Module {
	t.Helper()
	ast, err := naga.Parse(source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	return module
}

func TestBackend_Defaults(t *testing.T) {
	b := NewTarget(DefaultOptions()).Backend()
	if b.Name != "glsl_330" {
		t.Errorf("Name = %q, want %q", b.Name, "glsl_330")
	}
	if b.AttributePrefix != AttributePrefix || b.RenderTargetPrefix != RenderTargetPrefix {
		t.Errorf("prefixes = %q, %q", b.AttributePrefix, b.RenderTargetPrefix)
	}
	if b.DepthOutputName != "gl_FragDepth" || b.BuiltinPrefix != "gl_" {
		t.Errorf("DepthOutputName = %q, BuiltinPrefix = %q", b.DepthOutputName, b.BuiltinPrefix)
	}
	if !b.ExplicitVaryings || !b.PackedUniformBufferCopies {
		t.Error("GLSL records varyings and supports packed uniform buffer copies")
	}
	if b.MaxSamplers != 16 {
		t.Errorf("MaxSamplers = %d, want 16", b.MaxSamplers)
	}

	zero := NewTarget(Options{}).Backend()
	if zero.Name != "glsl_330" {
		t.Errorf("zero options Name = %q, want glsl_330", zero.Name)
	}
}

func TestMaxSamplers(t *testing.T) {
	tests := []struct {
		version glsl.Version
		want    int
	}{
		{glsl.Version330, 16},
		{glsl.Version410, 16},
		{glsl.Version430, 32},
		{glsl.Version460, 32},
		{glsl.VersionES300, 16},
		{glsl.VersionES310, 16},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			if got := MaxSamplers(tt.version); got != tt.want {
				t.Errorf("MaxSamplers(%v) = %d, want %d", tt.version, got, tt.want)
			}
		})
	}

	b := NewTarget(Options{LangVersion: glsl.Version450, MaxSamplers: 24}).Backend()
	if b.MaxSamplers != 24 {
		t.Errorf("override MaxSamplers = %d, want 24", b.MaxSamplers)
	}
	if b.Name != "glsl_450" {
		t.Errorf("Name = %q, want glsl_450", b.Name)
	}
}

func TestTranslate(t *testing.T) {
	module := lower(t, fragmentSource)

	code, err := NewTarget(DefaultOptions()).Translate(module, "fs_main")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.Contains(code, "#version 330") {
		t.Errorf("missing #version directive:\n%s", code)
	}
}
