// Package shadermeta turns cross-compiled shader text into the binary
// artifact loaded by the runtime.
//
// Cross-compiled text starts with a block of metadata comment lines
// describing the shader's inputs, outputs and resource bindings:
//
//	// BasePassPS
//	// @Inputs: f4;0:var_TEXCOORD0
//	// @Outputs: out_Target0
//	// @UniformBlocks: View(0)
//	// @Samplers: Diffuse(0:1[DiffuseSampler])
//	#version 330 core
//	...
//
// Compile parses that block, builds the shader's bindings for a backend, and
// serializes them in front of the remaining text (or of precompiled machine
// code):
//
//	res, err := shadermeta.Compile(text, shadermeta.CompileOptions{
//	    Frequency: bindings.FrequencyPixel,
//	    Backend:   glsl.NewTarget(glsl.DefaultOptions()).Backend(),
//	    Strict:    true,
//	})
//	if err != nil {
//	    log.Fatal(res.Errors.FormatAll())
//	}
//	os.WriteFile("shader.bin", res.Artifact, 0o644)
//
// The individual stages are available in the header, bindings,
// resourcetable and artifact packages. CompileWGSL produces the text from
// WGSL through the emit package first.
package shadermeta

import (
	"fmt"

	"github.com/gogpu/shadermeta/artifact"
	"github.com/gogpu/shadermeta/bindings"
	"github.com/gogpu/shadermeta/diag"
	"github.com/gogpu/shadermeta/emit"
	"github.com/gogpu/shadermeta/glsl"
	"github.com/gogpu/shadermeta/header"
	"github.com/gogpu/shadermeta/params"
	"github.com/gogpu/shadermeta/resourcetable"
)

// CompileOptions configures Compile.
type CompileOptions struct {
	// Frequency is the stage of the shader.
	Frequency bindings.Frequency

	// Backend supplies naming conventions and limits of the target language.
	Backend bindings.Backend

	// ResourceTable is the pipeline-wide resource table. It is only read
	// and may be shared by concurrent compiles. Nil disables the mapping.
	ResourceTable *resourcetable.Map

	// Precompiled marks Payload as assembled machine code.
	Precompiled bool

	// Payload replaces the text after the metadata when Precompiled is set.
	Payload []byte

	// Strict rejects unknown section markers and precision characters.
	Strict bool

	// File identifies the shader in errors.
	File string
}

// DefaultOptions returns strict options for vertex shaders on the default
// GLSL backend.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Frequency: bindings.FrequencyVertex,
		Backend:   glsl.NewTarget(glsl.DefaultOptions()).Backend(),
		Strict:    true,
	}
}

// Result is the outcome of compiling one shader.
type Result struct {
	// Artifact is the serialized header followed by the payload. It is nil
	// whenever Errors is not empty.
	Artifact []byte

	Bindings *bindings.ShaderBindings
	Params   *params.Map

	// Errors lists everything that failed.
	Errors diag.ErrorList

	// Warnings lists records skipped by a lenient parse.
	Warnings []string
}

// Compile parses the metadata at the head of text and produces the shader
// artifact.
//
// The returned Result is never nil. On failure err is the first recorded
// error and Result.Errors holds them all. A shader over the sampler limit
// still reports its bindings and parameters.
func Compile(text string, opts CompileOptions) (*Result, error) {
	res := &Result{}
	log := Logger().With("file", opts.File, "backend", opts.Backend.Name, "frequency", opts.Frequency.String())

	fail := func(stage string, err error) (*Result, error) {
		err = fmt.Errorf("%s: %w", stage, err)
		res.Errors.Add(diag.NewCompileError(opts.File, err))
		log.Warn("shader compile failed", "stage", stage, "err", err)
		return res, res.Errors[0]
	}

	md, err := header.Parse(text, header.Options{Strict: opts.Strict})
	if err != nil {
		return fail("parse", err)
	}
	res.Warnings = md.Warnings
	for _, w := range md.Warnings {
		log.Warn("metadata record skipped", "reason", w)
	}
	log.Debug("metadata parsed",
		"end", md.End,
		"inputs", len(md.Inputs),
		"outputs", len(md.Outputs),
		"uniformBlocks", len(md.UniformBlocks),
		"packedGlobals", len(md.PackedGlobals),
		"packedUniformBuffers", len(md.PackedUniformBuffers),
		"samplers", len(md.Samplers),
		"uavs", len(md.UAVs))

	sb, pm, err := bindings.NewBuilder(opts.Backend, opts.Frequency).Build(md, opts.ResourceTable)
	if err != nil {
		return fail("build", err)
	}
	res.Bindings, res.Params = sb, pm
	log.Debug("bindings built",
		"inOutMask", sb.InOutMask,
		"uniformBuffers", sb.NumUniformBuffers,
		"samplers", sb.NumSamplers,
		"uavs", sb.NumUAVs,
		"packedArrays", len(sb.PackedGlobalArrays),
		"copies", len(sb.UniformBufferCopies),
		"activeTables", sb.ResourceTable.ActiveTableBits,
		"params", pm.Len())

	payload := []byte(text[md.End:])
	if opts.Precompiled {
		payload = opts.Payload
	}
	data, err := artifact.Encode(sb, payload, artifact.Options{
		Precompiled: opts.Precompiled,
		MaxSamplers: opts.Backend.MaxSamplers,
	})
	if err != nil {
		return fail("serialize", err)
	}
	res.Artifact = data
	log.Debug("artifact written", "bytes", len(data), "payload", len(payload))
	return res, nil
}

// CompileWGSL cross-compiles one entry point of WGSL source for target and
// compiles the resulting text. Frequency and Backend in opts are taken from
// the entry point and target.
func CompileWGSL(source string, target emit.Target, entryPoint string, opts CompileOptions) (*Result, error) {
	sh, err := emit.Compile(source, target, emit.Options{EntryPoint: entryPoint})
	if err != nil {
		res := &Result{}
		res.Errors.Add(diag.NewCompileError(opts.File, err))
		return res, res.Errors[0]
	}
	opts.Frequency = sh.Frequency
	opts.Backend = target.Backend()
	return Compile(sh.Text, opts)
}
