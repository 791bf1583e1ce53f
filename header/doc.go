// Package header parses the reflection metadata that a shader cross-compiler
// writes as comment lines at the head of its output.
//
// # Format
//
// The metadata is a run of section lines, each introduced by a marker at
// the start of a line:
//
//	// Compiled by the cross-compiler
//	// @Inputs: f4;0:in_ATTRIBUTE0,f2;1:in_ATTRIBUTE1
//	// @Outputs: f4:gl_Position
//	// @UniformBlocks: View(0),Primitive(1)
//	// @PackedGlobals: Tint(h:0,4),Scale(h:4,1)
//	// @Samplers: Diffuse(0:1[DiffuseSampler])
//	// @NumThreads: 8, 8, 1
//	#version 310 es
//	...
//
// Sections appear in a fixed order (see [Section]) and may be absent.
// Records within a section are separated by commas and the section ends at
// the newline. Comment lines before the first section are skipped.
//
// # Usage
//
//	md, err := header.Parse(text, header.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	payload := text[md.End:]
//
// Errors are *diag.Error values carrying the byte offset of the problem.
package header
