package artifact

import (
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/shadermeta/bindings"
	"github.com/gogpu/shadermeta/resourcetable"
)

// Dump writes a readable listing of a to w. The payload is summarized by
// its length.
func (a *Artifact) Dump(w io.Writer) error {
	var sb strings.Builder
	b := a.Bindings

	fmt.Fprintf(&sb, "precompiled: %t\n", a.Precompiled)
	fmt.Fprintf(&sb, "frequency: %s\n", b.Frequency)
	fmt.Fprintf(&sb, "inout mask: 0x%04x\n", b.InOutMask)
	fmt.Fprintf(&sb, "uniform buffers: %d (regular: %t)\n", b.NumUniformBuffers, b.HasRegularUniformBuffers)
	fmt.Fprintf(&sb, "samplers: %d\n", b.NumSamplers)
	fmt.Fprintf(&sb, "uavs: %d\n", b.NumUAVs)

	dumpArrays(&sb, "packed globals", b.PackedGlobalArrays)
	for i, arrays := range b.PackedUniformBuffers {
		if len(arrays) > 0 {
			dumpArrays(&sb, fmt.Sprintf("packed ub %d", i), arrays)
		}
	}
	for _, c := range b.UniformBufferCopies {
		fmt.Fprintf(&sb, "copy: ub %d [%d] -> ub %d %c [%d] x%d\n",
			c.SourceUB, c.SourceOffset, c.DestUB, c.Precision.Char(), c.DestOffset, c.Size)
	}

	rt := &b.ResourceTable
	fmt.Fprintf(&sb, "active tables: 0x%x\n", rt.ActiveTableBits)
	if len(rt.LayoutHashes) > 0 {
		sb.WriteString("layout hashes:")
		for _, h := range rt.LayoutHashes {
			fmt.Fprintf(&sb, " %08x", h)
		}
		sb.WriteByte('\n')
	}
	dumpTokens(&sb, "textures", rt.TextureTokens)
	dumpTokens(&sb, "srvs", rt.SRVTokens)
	dumpTokens(&sb, "samplers", rt.SamplerTokens)
	dumpTokens(&sb, "uavs", rt.UAVTokens)

	for _, v := range b.InputVaryings {
		fmt.Fprintf(&sb, "in: %s @%d\n", v.Name, v.Location)
	}
	for _, v := range b.OutputVaryings {
		fmt.Fprintf(&sb, "out: %s @%d\n", v.Name, v.Location)
	}
	if b.NumThreads != [3]uint32{} {
		fmt.Fprintf(&sb, "threads: %d %d %d\n", b.NumThreads[0], b.NumThreads[1], b.NumThreads[2])
	}
	fmt.Fprintf(&sb, "payload: %d bytes\n", len(a.Payload))

	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpArrays(sb *strings.Builder, label string, arrays []bindings.PackedArrayInfo) {
	for _, a := range arrays {
		fmt.Fprintf(sb, "%s: %c %d bytes\n", label, a.Precision.Char(), a.Size)
	}
}

// dumpTokens lists the tokens of a stream, skipping the offset prefix and
// the end token.
func dumpTokens(sb *strings.Builder, label string, stream []uint32) {
	for _, t := range streamTokens(stream) {
		fmt.Fprintf(sb, "%s: ub %d [%d] -> slot %d\n", label,
			resourcetable.TokenUniformBuffer(t), resourcetable.TokenResourceIndex(t), resourcetable.TokenBindIndex(t))
	}
}

func streamTokens(stream []uint32) []uint32 {
	if len(stream) < 2 {
		return nil
	}
	// The first non-zero offset belongs to the lowest buffer with tokens,
	// which starts right after the prefix.
	for _, off := range stream {
		if off != 0 {
			if int(off) >= len(stream) {
				return nil
			}
			return stream[off : len(stream)-1]
		}
	}
	return nil
}
