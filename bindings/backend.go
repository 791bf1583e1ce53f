package bindings

// Backend describes what a target shading language backend needs from the
// builder. Everything that differs between backends is a field here; the
// parsing and building logic is shared.
type Backend struct {
	// Name identifies the backend in logs and errors.
	Name string

	// AttributePrefix marks vertex inputs bound to a vertex attribute.
	// The attribute index is the decimal suffix, e.g. "in_ATTRIBUTE3".
	AttributePrefix string

	// RenderTargetPrefix marks pixel outputs bound to a render target.
	RenderTargetPrefix string

	// DepthOutputName is the pixel output that writes depth.
	DepthOutputName string

	// BuiltinPrefix marks inputs and outputs the target language provides
	// itself. They are neither attributes nor varyings.
	BuiltinPrefix string

	// ExplicitVaryings records interpolated inputs and outputs by location
	// for runtimes that link stages explicitly.
	ExplicitVaryings bool

	// PackedUniformBufferCopies allows the copy sections. Backends that bind
	// uniform buffers directly reject them.
	PackedUniformBufferCopies bool

	// MaxSamplers is the number of sampler slots the target supports.
	MaxSamplers int
}
