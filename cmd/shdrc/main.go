// Command shdrc compiles cross-compiled shader text into a shader artifact.
//
// Usage:
//
//	shdrc [options] <input>
//
// Examples:
//
//	shdrc -freq pixel -o BasePassPS.bin BasePassPS.glsl   # Compile metadata-annotated GLSL
//	shdrc -wgsl -entry fs_main -o fs.bin shader.wgsl      # Cross-compile WGSL first
//	shdrc -inspect BasePassPS.bin                         # Print an existing artifact
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	nagaglsl "github.com/gogpu/naga/glsl"
	nagamsl "github.com/gogpu/naga/msl"

	"github.com/gogpu/shadermeta"
	"github.com/gogpu/shadermeta/artifact"
	"github.com/gogpu/shadermeta/bindings"
	"github.com/gogpu/shadermeta/emit"
	"github.com/gogpu/shadermeta/glsl"
	"github.com/gogpu/shadermeta/hlsl"
	"github.com/gogpu/shadermeta/msl"
)

var (
	output      = flag.String("o", "", "output file (default: stdout)")
	backend     = flag.String("backend", "glsl", "target backend: glsl, hlsl or msl")
	glslVersion = flag.String("glsl-version", "330", "GLSL version, e.g. 330, 430 or 310es")
	freq        = flag.String("freq", "vertex", "shader stage: vertex, pixel or compute")
	wgsl        = flag.Bool("wgsl", false, "input is WGSL; cross-compile it first")
	entry       = flag.String("entry", "", "WGSL entry point (default: the first one)")
	precompiled = flag.String("precompiled", "", "file holding precompiled machine code to use as the payload")
	lenient     = flag.Bool("lenient", false, "skip unknown sections and precisions instead of failing")
	dump        = flag.Bool("dump", false, "print a text dump of the artifact instead of writing it")
	layout      = flag.Bool("layout", false, "print the bind group layout of the shader")
	inspect     = flag.Bool("inspect", false, "input is an artifact; print its dump")
	verbose     = flag.Bool("v", false, "log compile stages to stderr")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	if *verbose {
		shadermeta.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	if *inspect {
		a, err := artifact.Decode(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding artifact: %v\n", err)
			os.Exit(1)
		}
		if err := a.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	res, err := compile(inputPath, string(input))
	if err != nil {
		if res != nil && len(res.Errors) > 0 {
			fmt.Fprintln(os.Stderr, res.Errors.FormatAll())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if *layout {
		printLayout(os.Stdout, res.Bindings)
	}
	if *dump {
		a, err := artifact.Decode(res.Artifact)
		if err == nil {
			err = a.Dump(os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *layout && *output == "" {
		return
	}

	if *output != "" {
		if err := os.WriteFile(*output, res.Artifact, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Compiled %s to %s (%d bytes)\n", inputPath, *output, len(res.Artifact))
		return
	}
	if _, err := os.Stdout.Write(res.Artifact); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func compile(path, source string) (*shadermeta.Result, error) {
	target, err := newTarget()
	if err != nil {
		return nil, err
	}
	opts := shadermeta.CompileOptions{
		Backend: target.Backend(),
		Strict:  !*lenient,
		File:    path,
	}
	if *precompiled != "" {
		payload, err := os.ReadFile(*precompiled)
		if err != nil {
			return nil, fmt.Errorf("reading precompiled payload: %w", err)
		}
		opts.Precompiled = true
		opts.Payload = payload
	}

	if *wgsl {
		return shadermeta.CompileWGSL(source, target, *entry, opts)
	}
	f, ok := bindings.ParseFrequency(*freq)
	if !ok {
		return nil, fmt.Errorf("unknown shader stage %q", *freq)
	}
	opts.Frequency = f
	return shadermeta.Compile(source, opts)
}

func newTarget() (emit.Target, error) {
	switch *backend {
	case "glsl":
		v, err := parseGLSLVersion(*glslVersion)
		if err != nil {
			return nil, err
		}
		return glsl.NewTarget(glsl.Options{LangVersion: v}), nil
	case "hlsl":
		return hlsl.NewTarget(hlsl.DefaultOptions()), nil
	case "msl":
		return msl.NewTarget(msl.Options{LangVersion: nagamsl.Version2_1}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", *backend)
	}
}

// parseGLSLVersion accepts the #version number with an optional "es" suffix.
func parseGLSLVersion(s string) (nagaglsl.Version, error) {
	digits, es := strings.CutSuffix(strings.ToLower(s), "es")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 100 || n > 999 {
		return nagaglsl.Version{}, fmt.Errorf("invalid GLSL version %q", s)
	}
	return nagaglsl.Version{Major: uint8(n / 100), Minor: uint8(n % 100), ES: es}, nil
}

func printLayout(w io.Writer, sb *bindings.ShaderBindings) {
	for _, e := range sb.LayoutEntries() {
		kind := "unknown"
		switch {
		case e.Buffer != nil && e.Buffer.Type == gputypes.BufferBindingTypeStorage:
			kind = "storage buffer"
		case e.Buffer != nil:
			kind = "uniform buffer"
		case e.Texture != nil:
			kind = "texture"
		case e.Sampler != nil:
			kind = "sampler"
		}
		fmt.Fprintf(w, "binding %d: %s\n", e.Binding, kind)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shdrc [options] <input>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shdrc -freq pixel -o ps.bin ps.glsl         Compile annotated GLSL\n")
	fmt.Fprintf(os.Stderr, "  shdrc -wgsl -entry fs_main shader.wgsl      Cross-compile WGSL to stdout\n")
	fmt.Fprintf(os.Stderr, "  shdrc -backend msl -wgsl -dump shader.wgsl  Print the Metal artifact\n")
	fmt.Fprintf(os.Stderr, "  shdrc -inspect ps.bin                       Print an existing artifact\n")
}
