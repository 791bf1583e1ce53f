package header

// Metadata is the parsed metadata block of one cross-compiled shader.
// Slices keep the order in which records appear in the text.
type Metadata struct {
	Inputs                    []InOutVar
	Outputs                   []InOutVar
	UniformBlocks             []UniformBlock
	PackedGlobals             []PackedGlobal
	PackedUniformBuffers      []PackedUniformBuffer
	PackedUniformBufferCopies []CopyInfo
	PackedGlobalCopies        []CopyInfo
	Samplers                  []Sampler
	UAVs                      []UAV
	SamplerStates             []SamplerState
	NumThreads                *NumThreads

	// End is the byte offset just past the last metadata line.
	// The payload handed to the runtime starts here.
	End int

	// Warnings lists records dropped by a lenient parse.
	Warnings []string
}

// InOutVar is a stage input or output.
type InOutVar struct {
	// Type is the optional type tag written by the cross-compiler (e.g. "f4").
	Type string

	Name string

	// Semantic is the optional HLSL semantic (e.g. "TEXCOORD0").
	Semantic string

	// Location is the explicit location, or the numeric suffix of Semantic.
	Location uint32
}

// UniformBlock is a uniform buffer bound directly at a fixed slot.
type UniformBlock struct {
	Name  string
	Index uint32
}

// PackedGlobal is a loose constant packed into a precision array.
// Offset and Count are in 4-byte components.
type PackedGlobal struct {
	Name      string
	Precision Precision
	Offset    uint32
	Count     uint32
}

// PackedMember is one member of a packed uniform buffer.
type PackedMember struct {
	Name   string
	Offset uint32
	Count  uint32
}

// PackedUniformBuffer is a uniform buffer whose contents are copied into
// precision arrays at runtime.
type PackedUniformBuffer struct {
	Name    string
	Index   uint32
	Members []PackedMember
}

// CopyInfo describes one copy from a source uniform buffer into a packed
// precision array. Offsets and sizes are in 4-byte components.
type CopyInfo struct {
	SourceUB     uint32
	SourceOffset uint32
	DestUB       uint32
	Precision    Precision
	DestOffset   uint32
	Size         uint32
}

// Sampler is a texture/sampler binding and the sampler-state names that
// alias the same slot.
type Sampler struct {
	Name       string
	Offset     uint32
	Count      uint32
	StateNames []string
}

// UAV is an unordered access resource binding.
type UAV struct {
	Name   string
	Offset uint32
	Count  uint32
}

// SamplerState is a standalone sampler-state object.
type SamplerState struct {
	Index uint32
	Name  string
}

// NumThreads is the compute thread-group size.
type NumThreads struct {
	X, Y, Z uint32
}
