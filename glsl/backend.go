// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl is the OpenGL backend: the binding conventions of GLSL text
// produced for the GL runtime, and WGSL translation through naga.
package glsl

import (
	"fmt"

	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadermeta/bindings"
)

// Name conventions of cross-compiled GLSL.
const (
	AttributePrefix    = "in_ATTRIBUTE"
	RenderTargetPrefix = "out_Target"
	DepthOutputName    = "gl_FragDepth"
	BuiltinPrefix      = "gl_"
)

// Options configures the GLSL backend.
type Options struct {
	// LangVersion is the target GLSL version.
	// Defaults to glsl.Version330 if zero.
	LangVersion glsl.Version

	// MaxSamplers overrides the sampler limit of LangVersion when non-zero.
	MaxSamplers int
}

// DefaultOptions returns options for desktop GLSL 3.30.
func DefaultOptions() Options {
	return Options{LangVersion: glsl.Version330}
}

func (o Options) version() glsl.Version {
	if o.LangVersion.Major == 0 {
		return glsl.Version330
	}
	return o.LangVersion
}

// MaxSamplers returns the guaranteed number of texture units per stage for v.
func MaxSamplers(v glsl.Version) int {
	if v.SupportsCompute() && !v.ES {
		return 32
	}
	return 16
}

// Target is the GLSL backend for a fixed set of options.
type Target struct {
	opts Options
}

// NewTarget returns a GLSL Target.
func NewTarget(opts Options) *Target {
	return &Target{opts: opts}
}

// Backend returns the builder capabilities of GLSL. GL links stages by
// location, so varyings are recorded, and packed uniform buffers are
// emulated with copies into the precision arrays.
func (t *Target) Backend() bindings.Backend {
	v := t.opts.version()
	maxSamplers := t.opts.MaxSamplers
	if maxSamplers == 0 {
		maxSamplers = MaxSamplers(v)
	}
	return bindings.Backend{
		Name:                      "glsl_" + v.VersionNumber(),
		AttributePrefix:           AttributePrefix,
		RenderTargetPrefix:        RenderTargetPrefix,
		DepthOutputName:           DepthOutputName,
		BuiltinPrefix:             BuiltinPrefix,
		ExplicitVaryings:          true,
		PackedUniformBufferCopies: true,
		MaxSamplers:               maxSamplers,
	}
}

// Translate generates GLSL for one entry point of module.
func (t *Target) Translate(module *ir.Module, entryPoint string) (string, error) {
	opts := glsl.DefaultOptions()
	opts.LangVersion = t.opts.version()
	opts.EntryPoint = entryPoint

	code, _, err := glsl.Compile(module, opts)
	if err != nil {
		return "", fmt.Errorf("glsl %s: %w", opts.LangVersion, err)
	}
	return code, nil
}
