package artifact

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/shadermeta/bindings"
	"github.com/gogpu/shadermeta/header"
)

// ErrTruncated is returned when the data ends inside the header.
var ErrTruncated = errors.New("artifact: truncated header")

// Artifact is a decoded shader artifact.
type Artifact struct {
	Precompiled bool
	Bindings    *bindings.ShaderBindings

	// Payload aliases the decoded buffer.
	Payload []byte
}

// Decode reads an artifact produced by Encode.
func Decode(data []byte) (*Artifact, error) {
	r := &reader{data: data}
	a := &Artifact{}

	switch flag := r.u8(); {
	case r.err != nil:
		return nil, r.err
	case flag == FlagPrecompiled:
		a.Precompiled = true
	case flag != FlagSource:
		return nil, fmt.Errorf("artifact: unknown payload flag %d", flag)
	}

	sb, err := r.shaderBindings()
	if err != nil {
		return nil, err
	}
	a.Bindings = sb
	a.Payload = r.data[r.pos:]
	return a, nil
}

// reader keeps the first error; reads after it return zero values.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.data)-r.pos {
		r.err = ErrTruncated
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// count reads a list length and checks that itemSize bytes per item remain.
func (r *reader) count(itemSize int) int {
	n := r.u32()
	if r.err != nil {
		return 0
	}
	if uint64(n)*uint64(itemSize) > uint64(len(r.data)-r.pos) {
		r.err = ErrTruncated
		return 0
	}
	return int(n)
}

func (r *reader) str() string {
	return string(r.take(r.count(1)))
}

func (r *reader) words() []uint32 {
	n := r.count(4)
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.u32()
	}
	return out
}

func (r *reader) precision() header.Precision {
	c, index := r.u8(), r.u8()
	if r.err != nil {
		return 0
	}
	p, ok := header.PrecisionFromChar(c)
	if !ok || p.Index() != index {
		r.err = fmt.Errorf("artifact: bad precision %q/%d at byte %d", rune(c), index, r.pos-2)
	}
	return p
}

func (r *reader) packedArrays() []bindings.PackedArrayInfo {
	n := r.count(6)
	if n == 0 {
		return nil
	}
	out := make([]bindings.PackedArrayInfo, n)
	for i := range out {
		out[i].Precision = r.precision()
		out[i].Size = r.u32()
	}
	return out
}

func (r *reader) varyings() []bindings.Varying {
	n := r.count(8)
	if n == 0 {
		return nil
	}
	out := make([]bindings.Varying, n)
	for i := range out {
		out[i].Name = r.str()
		out[i].Location = r.u32()
	}
	return out
}

func (r *reader) shaderBindings() (*bindings.ShaderBindings, error) {
	if v := r.u16(); r.err == nil && v != bindings.Version {
		return nil, fmt.Errorf("artifact: bindings version %d, want %d", v, bindings.Version)
	}

	sb := &bindings.ShaderBindings{}
	sb.Frequency = bindings.Frequency(r.u8())
	sb.InOutMask = r.u16()
	sb.NumUniformBuffers = r.u8()
	sb.NumSamplers = r.u8()
	sb.NumUAVs = r.u8()
	sb.HasRegularUniformBuffers = r.u8() != 0

	sb.PackedGlobalArrays = r.packedArrays()
	if n := r.count(4); n > 0 {
		sb.PackedUniformBuffers = make([][]bindings.PackedArrayInfo, n)
		for i := range sb.PackedUniformBuffers {
			sb.PackedUniformBuffers[i] = r.packedArrays()
		}
	}

	if n := r.count(14); n > 0 {
		sb.UniformBufferCopies = make([]bindings.CopyInfo, n)
		for i := range sb.UniformBufferCopies {
			c := &sb.UniformBufferCopies[i]
			c.SourceUB = r.u16()
			c.SourceOffset = r.u16()
			c.DestUB = r.u16()
			c.Precision = r.precision()
			c.DestOffset = r.u16()
			c.Size = r.u16()
		}
	}

	rt := &sb.ResourceTable
	rt.ActiveTableBits = r.u32()
	rt.LayoutHashes = r.words()
	rt.TextureTokens = r.words()
	rt.SRVTokens = r.words()
	rt.SamplerTokens = r.words()
	rt.UAVTokens = r.words()

	sb.InputVaryings = r.varyings()
	sb.OutputVaryings = r.varyings()

	for i := range sb.NumThreads {
		sb.NumThreads[i] = r.u32()
	}

	if r.err != nil {
		return nil, r.err
	}
	return sb, nil
}
