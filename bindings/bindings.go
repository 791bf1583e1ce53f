// Package bindings turns parsed shader metadata into the binding description
// the runtime needs to set up a shader.
//
// A Builder walks the metadata sections in order and produces a
// ShaderBindings aggregate together with a params.Map recording where every
// named parameter ended up.
package bindings

import (
	"github.com/gogpu/shadermeta/header"
	"github.com/gogpu/shadermeta/resourcetable"
)

// Version is the layout version of ShaderBindings as serialized.
const Version = 1

// InOutMask bits.
const (
	// MaxVertexAttributes is the number of attribute bits in InOutMask.
	MaxVertexAttributes = 16

	// MaxRenderTargets is the number of render target bits in InOutMask.
	MaxRenderTargets = 8

	// DepthWriteBit is set in InOutMask when a pixel shader writes depth.
	DepthWriteBit uint16 = 0x8000
)

// PackedArrayAlignment is the byte alignment of every packed array size.
const PackedArrayAlignment = 16

// PackedArrayInfo is one precision array of packed constants.
type PackedArrayInfo struct {
	Precision header.Precision

	// Size is the array size in bytes, a multiple of PackedArrayAlignment.
	Size uint32
}

// CopyInfo is a copy from a uniform buffer into a packed precision array,
// applied by the runtime before each draw. Offsets and sizes are in 4-byte
// components.
type CopyInfo struct {
	SourceUB     uint16
	SourceOffset uint16
	DestUB       uint16
	Precision    header.Precision
	DestOffset   uint16
	Size         uint16
}

// Varying is an interpolated value linked between stages by location.
type Varying struct {
	Name     string
	Location uint32
}

// ShaderBindings is everything the runtime needs to bind one shader.
type ShaderBindings struct {
	Frequency Frequency

	// InOutMask has bit i set for each vertex attribute (vertex shaders) or
	// render target (pixel shaders) i in use, plus DepthWriteBit.
	InOutMask uint16

	NumUniformBuffers uint8
	NumSamplers       uint8
	NumUAVs           uint8

	// HasRegularUniformBuffers is set when at least one uniform buffer is
	// bound directly rather than through packed arrays.
	HasRegularUniformBuffers bool

	// PackedGlobalArrays holds one entry per precision in use, in
	// precision order.
	PackedGlobalArrays []PackedArrayInfo

	// PackedUniformBuffers is indexed by destination uniform buffer slot.
	PackedUniformBuffers [][]PackedArrayInfo

	UniformBufferCopies []CopyInfo

	ResourceTable resourcetable.Bindings

	InputVaryings  []Varying
	OutputVaryings []Varying

	// NumThreads is the compute thread-group size, zero for other stages.
	NumThreads [3]uint32
}

// AlignPackedSize rounds a byte size up to PackedArrayAlignment.
func AlignPackedSize(bytes uint32) uint32 {
	return (bytes + PackedArrayAlignment - 1) &^ (PackedArrayAlignment - 1)
}
