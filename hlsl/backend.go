// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl is the Direct3D backend: the binding conventions of HLSL
// produced for the D3D runtime, and WGSL translation through naga.
package hlsl

import (
	"fmt"
	"slices"

	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadermeta/bindings"
)

// Name conventions of cross-compiled HLSL.
const (
	AttributePrefix    = "in_ATTRIBUTE"
	RenderTargetPrefix = "SV_Target"
	DepthOutputName    = "SV_Depth"
)

// DefaultMaxSamplers is the D3D11 sampler slot count per stage.
const DefaultMaxSamplers = 16

// Options configures the HLSL backend.
type Options struct {
	// ShaderModel is the target shader model.
	ShaderModel hlsl.ShaderModel

	// MaxSamplers overrides DefaultMaxSamplers when non-zero.
	MaxSamplers int
}

// DefaultOptions returns options for shader model 5.1.
func DefaultOptions() Options {
	return Options{ShaderModel: hlsl.ShaderModel5_1, MaxSamplers: DefaultMaxSamplers}
}

// Target is the HLSL backend for a fixed set of options.
type Target struct {
	opts Options
}

// NewTarget returns an HLSL Target.
func NewTarget(opts Options) *Target {
	if opts.MaxSamplers == 0 {
		opts.MaxSamplers = DefaultMaxSamplers
	}
	return &Target{opts: opts}
}

// Backend returns the builder capabilities of HLSL. Stages are linked by
// semantic and constant buffers are bound directly.
func (t *Target) Backend() bindings.Backend {
	return bindings.Backend{
		Name:               "hlsl_" + t.opts.ShaderModel.ProfileSuffix(),
		AttributePrefix:    AttributePrefix,
		RenderTargetPrefix: RenderTargetPrefix,
		DepthOutputName:    DepthOutputName,
		MaxSamplers:        t.opts.MaxSamplers,
	}
}

// Translate generates HLSL for module. The output holds every entry point
// of the module; entryPoint must be one of them.
func (t *Target) Translate(module *ir.Module, entryPoint string) (string, error) {
	if !slices.ContainsFunc(module.EntryPoints, func(ep ir.EntryPoint) bool { return ep.Name == entryPoint }) {
		return "", fmt.Errorf("hlsl: entry point %q not found", entryPoint)
	}

	opts := hlsl.DefaultOptions()
	opts.ShaderModel = t.opts.ShaderModel
	code, _, err := hlsl.Compile(module, opts)
	if err != nil {
		return "", fmt.Errorf("hlsl %s: %w", t.opts.ShaderModel, err)
	}
	return code, nil
}
