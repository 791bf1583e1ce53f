// Package artifact serializes shader bindings into the binary header that
// precedes every compiled shader, and reads it back.
//
// Layout, little endian. Lists are a uint32 count followed by the items;
// strings are a uint32 length followed by the bytes.
//
//	u8    precompiled flag
//	u16   bindings version
//	u8    frequency
//	u16   in/out mask
//	u8    uniform buffers, samplers, UAVs, has regular uniform buffers
//	list  packed global arrays {u8 precision char, u8 precision index, u32 size}
//	list  list packed uniform buffer arrays
//	list  copies {u16 src UB, u16 src offset, u16 dst UB, u8 char, u8 index, u16 dst offset, u16 size}
//	u32   active table bits
//	list  u32 layout hashes
//	list  u32 texture, SRV, sampler and UAV token streams
//	list  input varyings {string name, u32 location}
//	list  output varyings
//	u32   thread-group size x, y, z
//	...   payload
package artifact

import (
	"encoding/binary"

	"github.com/gogpu/shadermeta/bindings"
	"github.com/gogpu/shadermeta/diag"
)

// Payload flag values.
const (
	FlagSource      uint8 = 0
	FlagPrecompiled uint8 = 1
)

// Options configures Encode.
type Options struct {
	// Precompiled marks the payload as assembled machine code rather than
	// source text compiled by the runtime.
	Precompiled bool

	// MaxSamplers is the platform sampler limit. Zero disables the check.
	MaxSamplers int
}

// Encode serializes sb followed by payload.
//
// A shader using more samplers than opts.MaxSamplers produces a
// ResourceLimitExceeded error and no bytes.
func Encode(sb *bindings.ShaderBindings, payload []byte, opts Options) ([]byte, error) {
	if opts.MaxSamplers > 0 && int(sb.NumSamplers) > opts.MaxSamplers {
		return nil, diag.Errorf(diag.ErrResourceLimit,
			"shader uses %d samplers exceeding the limit of %d", sb.NumSamplers, opts.MaxSamplers)
	}

	w := &writer{buf: make([]byte, 0, 128+len(payload))}
	if opts.Precompiled {
		w.u8(FlagPrecompiled)
	} else {
		w.u8(FlagSource)
	}
	w.shaderBindings(sb)
	w.buf = append(w.buf, payload...)
	return w.buf, nil
}

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) flag(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) count(n int) {
	w.u32(uint32(n))
}

func (w *writer) str(s string) {
	w.count(len(s))
	w.buf = append(w.buf, s...)
}

func (w *writer) words(ws []uint32) {
	w.count(len(ws))
	for _, v := range ws {
		w.u32(v)
	}
}

func (w *writer) packedArrays(arrays []bindings.PackedArrayInfo) {
	w.count(len(arrays))
	for _, a := range arrays {
		w.u8(a.Precision.Char())
		w.u8(a.Precision.Index())
		w.u32(a.Size)
	}
}

func (w *writer) varyings(vs []bindings.Varying) {
	w.count(len(vs))
	for _, v := range vs {
		w.str(v.Name)
		w.u32(v.Location)
	}
}

func (w *writer) shaderBindings(sb *bindings.ShaderBindings) {
	w.u16(bindings.Version)
	w.u8(uint8(sb.Frequency))
	w.u16(sb.InOutMask)
	w.u8(sb.NumUniformBuffers)
	w.u8(sb.NumSamplers)
	w.u8(sb.NumUAVs)
	w.flag(sb.HasRegularUniformBuffers)

	w.packedArrays(sb.PackedGlobalArrays)
	w.count(len(sb.PackedUniformBuffers))
	for _, arrays := range sb.PackedUniformBuffers {
		w.packedArrays(arrays)
	}

	w.count(len(sb.UniformBufferCopies))
	for _, c := range sb.UniformBufferCopies {
		w.u16(c.SourceUB)
		w.u16(c.SourceOffset)
		w.u16(c.DestUB)
		w.u8(c.Precision.Char())
		w.u8(c.Precision.Index())
		w.u16(c.DestOffset)
		w.u16(c.Size)
	}

	rt := &sb.ResourceTable
	w.u32(rt.ActiveTableBits)
	w.words(rt.LayoutHashes)
	w.words(rt.TextureTokens)
	w.words(rt.SRVTokens)
	w.words(rt.SamplerTokens)
	w.words(rt.UAVTokens)

	w.varyings(sb.InputVaryings)
	w.varyings(sb.OutputVaryings)

	for _, n := range sb.NumThreads {
		w.u32(n)
	}
}
