package shadermeta

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/shadermeta/glsl"
)

// largeShader returns metadata with n packed globals and n samplers.
func largeShader(n int) string {
	var sb strings.Builder
	sb.WriteString("// @UniformBlocks: View(0)\n// @PackedGlobals: ")
	for i := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "G%d(%c:%d,4)", i, "hmliu"[i%5], 4*(i/5))
	}
	sb.WriteString("\n// @Samplers: ")
	for i := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "T%d(%d:1)", i, i)
	}
	sb.WriteString("\nvoid main() {}\n")
	return sb.String()
}

func BenchmarkCompile(b *testing.B) {
	text := largeShader(64)
	opts := DefaultOptions()
	opts.Backend.MaxSamplers = 128

	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for b.Loop() {
		if _, err := Compile(text, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileWGSL(b *testing.B) {
	target := glsl.NewTarget(glsl.DefaultOptions())
	opts := CompileOptions{Strict: true}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := CompileWGSL(wgslTriangle, target, "fs_main", opts); err != nil {
			b.Fatal(err)
		}
	}
}
