// Package emit produces cross-compiled shader text from WGSL: a metadata
// block describing the entry point's bindings followed by the backend's
// translation of the shader.
//
// The text emit produces is what the rest of the module consumes, so it
// doubles as an end-to-end source of test input.
package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadermeta/bindings"
)

// Target translates IR for one backend.
type Target interface {
	// Backend returns the naming conventions used in the metadata.
	Backend() bindings.Backend

	// Translate generates target source for one entry point.
	Translate(module *ir.Module, entryPoint string) (string, error)
}

// Options configures Compile.
type Options struct {
	// EntryPoint selects the entry point. Empty selects the first one.
	EntryPoint string
}

// Shader is cross-compiled shader text.
type Shader struct {
	EntryPoint string
	Frequency  bindings.Frequency

	// Text is the banner, the metadata block and the translated source.
	Text string
}

// Compile parses WGSL source and cross-compiles one entry point.
func Compile(source string, target Target, opts Options) (*Shader, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("emit: lower: %w", err)
	}
	return CompileModule(module, target, opts)
}

// CompileModule cross-compiles one entry point of an already lowered module.
func CompileModule(module *ir.Module, target Target, opts Options) (*Shader, error) {
	ep, err := findEntryPoint(module, opts.EntryPoint)
	if err != nil {
		return nil, err
	}
	freq, err := frequency(ep.Stage)
	if err != nil {
		return nil, err
	}

	code, err := target.Translate(module, ep.Name)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s\n", ep.Name)
	writeMetadata(&sb, module, ep, target.Backend())
	sb.WriteString(code)

	return &Shader{EntryPoint: ep.Name, Frequency: freq, Text: sb.String()}, nil
}

func findEntryPoint(module *ir.Module, name string) (*ir.EntryPoint, error) {
	if len(module.EntryPoints) == 0 {
		return nil, fmt.Errorf("emit: module has no entry points")
	}
	if name == "" {
		return &module.EntryPoints[0], nil
	}
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Name == name {
			return &module.EntryPoints[i], nil
		}
	}
	return nil, fmt.Errorf("emit: entry point %q not found", name)
}

func frequency(stage ir.ShaderStage) (bindings.Frequency, error) {
	switch stage {
	case ir.StageVertex:
		return bindings.FrequencyVertex, nil
	case ir.StageFragment:
		return bindings.FrequencyPixel, nil
	case ir.StageCompute:
		return bindings.FrequencyCompute, nil
	default:
		return 0, fmt.Errorf("emit: unsupported shader stage %d", stage)
	}
}
