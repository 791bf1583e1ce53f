package bindings

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadermeta/header"
)

func TestLayoutEntries(t *testing.T) {
	sb := &ShaderBindings{
		Frequency:         FrequencyPixel,
		NumUniformBuffers: 1,
		NumSamplers:       2,
		NumUAVs:           1,
		PackedGlobalArrays: []PackedArrayInfo{
			{Precision: header.PrecisionHigh, Size: 16},
		},
	}

	entries := sb.LayoutEntries()
	require.Len(t, entries, 7)

	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
		assert.Equal(t, gputypes.ShaderStageFragment, e.Visibility)
	}
	for _, i := range []int{0, 1} {
		require.NotNil(t, entries[i].Buffer, "entry %d", i)
		assert.Equal(t, gputypes.BufferBindingTypeUniform, entries[i].Buffer.Type)
	}
	for _, i := range []int{2, 4} {
		require.NotNil(t, entries[i].Texture, "entry %d", i)
		assert.Equal(t, gputypes.TextureViewDimension2D, entries[i].Texture.ViewDimension)
		require.NotNil(t, entries[i+1].Sampler, "entry %d", i+1)
	}
	require.NotNil(t, entries[6].Buffer)
	assert.Equal(t, gputypes.BufferBindingTypeStorage, entries[6].Buffer.Type)
}

func TestLayoutEntries_Visibility(t *testing.T) {
	visibility := func(freq Frequency) any {
		entries := (&ShaderBindings{Frequency: freq, NumUAVs: 1}).LayoutEntries()
		require.Len(t, entries, 1)
		return entries[0].Visibility
	}
	assert.Equal(t, any(gputypes.ShaderStageVertex), visibility(FrequencyVertex))
	assert.Equal(t, any(gputypes.ShaderStageFragment), visibility(FrequencyPixel))
	assert.Equal(t, any(gputypes.ShaderStageCompute), visibility(FrequencyCompute))

	assert.Nil(t, (&ShaderBindings{}).LayoutEntries())
}
