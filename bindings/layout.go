package bindings

import "github.com/gogpu/gputypes"

// LayoutEntries describes the shader's bindings as a single WebGPU-style
// bind group layout.
//
// Bindings are numbered consecutively: uniform buffer slots first, then one
// uniform buffer per packed global array, then a texture and a sampler
// entry per sampler slot, then one storage buffer per UAV slot.
func (sb *ShaderBindings) LayoutEntries() []gputypes.BindGroupLayoutEntry {
	n := int(sb.NumUniformBuffers) + len(sb.PackedGlobalArrays) + 2*int(sb.NumSamplers) + int(sb.NumUAVs)
	if n == 0 {
		return nil
	}
	entries := make([]gputypes.BindGroupLayoutEntry, 0, n)
	add := func(e gputypes.BindGroupLayoutEntry) {
		e.Binding = uint32(len(entries))
		switch sb.Frequency {
		case FrequencyVertex:
			e.Visibility = gputypes.ShaderStageVertex
		case FrequencyPixel:
			e.Visibility = gputypes.ShaderStageFragment
		case FrequencyCompute:
			e.Visibility = gputypes.ShaderStageCompute
		}
		entries = append(entries, e)
	}

	for range int(sb.NumUniformBuffers) + len(sb.PackedGlobalArrays) {
		add(gputypes.BindGroupLayoutEntry{
			Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for range sb.NumSamplers {
		add(gputypes.BindGroupLayoutEntry{
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
		add(gputypes.BindGroupLayoutEntry{
			Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	for range sb.NumUAVs {
		add(gputypes.BindGroupLayoutEntry{
			Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
		})
	}
	return entries
}
