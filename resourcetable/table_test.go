// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resourcetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadermeta/diag"
	"github.com/gogpu/shadermeta/params"
)

func testTable() *Map {
	return &Map{
		Entries: map[string]Entry{
			"View_NoiseTexture":   {UniformBuffer: "View", Kind: KindTexture, ResourceIndex: 3},
			"View_NoiseSampler":   {UniformBuffer: "View", Kind: KindSampler, ResourceIndex: 4},
			"Scene_DepthTexture":  {UniformBuffer: "Scene", Kind: KindTexture, ResourceIndex: 0},
			"Scene_OutputUAV":     {UniformBuffer: "Scene", Kind: KindUAV, ResourceIndex: 1},
			"Unused_OtherTexture": {UniformBuffer: "Unused", Kind: KindTexture, ResourceIndex: 0},
		},
		LayoutHashes: map[string]uint32{
			"View":   0xAAAA0001,
			"Scene":  0xBBBB0002,
			"Unused": 0xCCCC0003,
		},
	}
}

func TestToken_RoundTrip(t *testing.T) {
	tok := Token(5, 1234, 17)
	assert.Equal(t, uint16(5), TokenUniformBuffer(tok))
	assert.Equal(t, uint16(1234), TokenResourceIndex(tok))
	assert.Equal(t, uint16(17), TokenBindIndex(tok))
	assert.Equal(t, uint32(5<<24|1234<<8|17), tok)
}

func TestBuildTokenStream(t *testing.T) {
	tokens := []uint32{Token(2, 0, 1), Token(0, 3, 0), Token(0, 1, 2)}
	got := BuildTokenStream(tokens, 2)

	want := []uint32{
		3, 0, 5, // offsets for UB 0, 1, 2
		Token(0, 1, 2), Token(0, 3, 0),
		Token(2, 0, 1),
		EndOfStreamToken,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, Token(2, 0, 1), tokens[0], "input must not be reordered")

	assert.Nil(t, BuildTokenStream(nil, 3))
}

func TestBuild_ExplicitSlots(t *testing.T) {
	pm := params.NewMap()
	var used SlotSet
	require.NoError(t, pm.Add("View", params.Allocation{BufferIndex: 0, Type: params.TypeUniformBuffer}))
	used.Set(0)
	require.NoError(t, pm.Add("View_NoiseTexture", params.Allocation{BaseIndex: 2, Size: 1, Type: params.TypeSampler}))
	require.NoError(t, pm.Add("View_NoiseSampler", params.Allocation{BaseIndex: 2, Size: 1, Type: params.TypeSampler}))

	rt, err := Build(testTable(), pm, &used)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), rt.ActiveTableBits)
	assert.Equal(t, []uint32{0xAAAA0001}, rt.LayoutHashes)
	assert.Equal(t, []uint32{1, Token(0, 3, 2), EndOfStreamToken}, rt.TextureTokens)
	assert.Equal(t, []uint32{1, Token(0, 4, 2), EndOfStreamToken}, rt.SamplerTokens)
	assert.Nil(t, rt.SRVTokens)
	assert.Nil(t, rt.UAVTokens)
}

func TestBuild_AllocatesIndirectBuffers(t *testing.T) {
	pm := params.NewMap()
	var used SlotSet
	require.NoError(t, pm.Add("View", params.Allocation{BufferIndex: 0, Type: params.TypeUniformBuffer}))
	used.Set(0)
	require.NoError(t, pm.Add("Scene_DepthTexture", params.Allocation{BaseIndex: 0, Size: 1, Type: params.TypeSampler}))
	require.NoError(t, pm.Add("Scene_OutputUAV", params.Allocation{BaseIndex: 1, Size: 1, Type: params.TypeUAV}))

	rt, err := Build(testTable(), pm, &used)
	require.NoError(t, err)

	scene, ok := pm.Find("Scene")
	require.True(t, ok, "declaring buffer should be allocated")
	assert.Equal(t, params.Allocation{BufferIndex: 1, Type: params.TypeUniformBuffer}, scene)
	assert.True(t, used.Has(1))

	assert.Equal(t, uint32(1<<1), rt.ActiveTableBits)
	assert.Equal(t, []uint32{0xAAAA0001, 0xBBBB0002}, rt.LayoutHashes)
	assert.Equal(t, []uint32{0, 2, Token(1, 0, 0), EndOfStreamToken}, rt.TextureTokens)
	assert.Equal(t, []uint32{0, 2, Token(1, 1, 1), EndOfStreamToken}, rt.UAVTokens)
	assert.Equal(t, 2, NumUniformBuffersUsed(rt.ActiveTableBits))
}

func TestBuild_Deterministic(t *testing.T) {
	run := func() (Bindings, []string) {
		pm := params.NewMap()
		var used SlotSet
		for _, name := range []string{"View_NoiseTexture", "Scene_DepthTexture", "Scene_OutputUAV", "View_NoiseSampler"} {
			require.NoError(t, pm.Add(name, params.Allocation{BaseIndex: 1, Size: 1, Type: params.TypeSampler}))
		}
		rt, err := Build(testTable(), pm, &used)
		require.NoError(t, err)
		return rt, pm.Names()
	}

	first, firstNames := run()
	for range 20 {
		got, names := run()
		assert.Equal(t, first, got)
		assert.Equal(t, firstNames, names)
	}
	// "Scene" sorts before "View", so it claims slot 0.
	assert.Equal(t, uint32(0b11), first.ActiveTableBits)
}

func TestBuild_Limits(t *testing.T) {
	t.Run("max bound table", func(t *testing.T) {
		pm := params.NewMap()
		var used SlotSet
		require.NoError(t, pm.Add("View", params.Allocation{BufferIndex: 3, Type: params.TypeUniformBuffer}))
		require.NoError(t, pm.Add("View_NoiseTexture", params.Allocation{BaseIndex: 0, Size: 1, Type: params.TypeSampler}))

		table := testTable()
		table.MaxBoundTable = 2
		_, err := Build(table, pm, &used)
		require.Error(t, err)
		assert.True(t, diag.IsKind(err, diag.ErrResourceLimit))
	})

	t.Run("bind index", func(t *testing.T) {
		pm := params.NewMap()
		var used SlotSet
		require.NoError(t, pm.Add("View_NoiseTexture", params.Allocation{BaseIndex: 300, Size: 1, Type: params.TypeSampler}))
		_, err := Build(testTable(), pm, &used)
		assert.True(t, diag.IsKind(err, diag.ErrResourceLimit))
	})

	t.Run("buffer bound as loose data", func(t *testing.T) {
		pm := params.NewMap()
		var used SlotSet
		require.NoError(t, pm.Add("View", params.Allocation{BufferIndex: 'h', Type: params.TypeLooseData}))
		require.NoError(t, pm.Add("View_NoiseTexture", params.Allocation{Size: 1, Type: params.TypeSampler}))
		_, err := Build(testTable(), pm, &used)
		assert.True(t, diag.IsKind(err, diag.ErrMalformedMetadata))
	})
}

func TestBuild_NilTable(t *testing.T) {
	rt, err := Build(nil, params.NewMap(), &SlotSet{})
	require.NoError(t, err)
	assert.Equal(t, Bindings{}, rt)
}

func TestSlotSet(t *testing.T) {
	var s SlotSet
	free, ok := s.FirstFree()
	require.True(t, ok)
	assert.Equal(t, 0, free)

	for i := range 70 {
		s.Set(i)
	}
	s.Set(MaxSlots + 1)
	assert.Equal(t, 70, s.Count())
	assert.True(t, s.Has(69))
	assert.False(t, s.Has(70))
	assert.False(t, s.Has(-1))

	free, ok = s.FirstFree()
	require.True(t, ok)
	assert.Equal(t, 70, free)

	for i := range MaxSlots {
		s.Set(i)
	}
	_, ok = s.FirstFree()
	assert.False(t, ok)
}

func TestNumUniformBuffersUsed(t *testing.T) {
	tests := []struct {
		bits uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{0b100, 3},
		{0b101, 3},
		{1 << 31, 32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumUniformBuffersUsed(tt.bits), "bits %b", tt.bits)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Texture", KindTexture.String())
	assert.Equal(t, "SRV", KindSRV.String())
	assert.Equal(t, "Sampler", KindSampler.String())
	assert.Equal(t, "UAV", KindUAV.String())
	assert.Equal(t, "Unknown", Kind(9).String())
}
