// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package msl is the Metal backend: the binding conventions of Metal
// Shading Language produced for the Metal runtime, and WGSL translation
// through naga.
package msl

import (
	"fmt"

	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"

	"github.com/gogpu/shadermeta/bindings"
)

// Name conventions of cross-compiled MSL.
const (
	AttributePrefix    = "in_ATTRIBUTE"
	RenderTargetPrefix = "FragColor"
	DepthOutputName    = "FragDepth"
)

// DefaultMaxSamplers is the Metal sampler state limit per stage.
const DefaultMaxSamplers = 16

// Options configures the MSL backend.
type Options struct {
	// LangVersion is the target MSL version.
	// Defaults to msl.Version2_1 if zero.
	LangVersion msl.Version

	// MaxSamplers overrides DefaultMaxSamplers when non-zero.
	MaxSamplers int
}

// DefaultOptions returns options for MSL 2.1.
func DefaultOptions() Options {
	return Options{LangVersion: msl.Version2_1, MaxSamplers: DefaultMaxSamplers}
}

// Target is the MSL backend for a fixed set of options.
type Target struct {
	opts Options
}

// NewTarget returns an MSL Target.
func NewTarget(opts Options) *Target {
	if opts.LangVersion.Major == 0 {
		opts.LangVersion = msl.Version2_1
	}
	if opts.MaxSamplers == 0 {
		opts.MaxSamplers = DefaultMaxSamplers
	}
	return &Target{opts: opts}
}

// Backend returns the builder capabilities of MSL. Metal matches stage
// inputs to outputs by attribute, and binds uniform buffers directly.
func (t *Target) Backend() bindings.Backend {
	return bindings.Backend{
		Name:               "msl_" + t.opts.LangVersion.String(),
		AttributePrefix:    AttributePrefix,
		RenderTargetPrefix: RenderTargetPrefix,
		DepthOutputName:    DepthOutputName,
		MaxSamplers:        t.opts.MaxSamplers,
	}
}

// Translate generates MSL for one entry point of module.
func (t *Target) Translate(module *ir.Module, entryPoint string) (string, error) {
	opts := msl.DefaultOptions()
	opts.LangVersion = t.opts.LangVersion

	var stage ir.ShaderStage
	found := false
	for _, ep := range module.EntryPoints {
		if ep.Name == entryPoint {
			stage, found = ep.Stage, true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("msl: entry point %q not found", entryPoint)
	}

	code, _, err := msl.CompileWithPipeline(module, opts, msl.PipelineOptions{
		EntryPoint: &msl.EntryPointSelector{Stage: stage, Name: entryPoint},
	})
	if err != nil {
		return "", fmt.Errorf("msl %s: %w", opts.LangVersion, err)
	}
	return code, nil
}
