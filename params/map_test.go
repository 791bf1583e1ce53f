package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadermeta/diag"
)

func TestMap_AddFind(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Add("View", Allocation{BufferIndex: 0, Type: TypeUniformBuffer}))
	require.NoError(t, m.Add("Tint", Allocation{BufferIndex: 'h', BaseIndex: 0, Size: 16, Type: TypeLooseData}))

	a, ok := m.Find("Tint")
	require.True(t, ok)
	assert.Equal(t, Allocation{BufferIndex: 'h', BaseIndex: 0, Size: 16, Type: TypeLooseData}, a)

	_, ok = m.Find("Missing")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestMap_Duplicates(t *testing.T) {
	m := NewMap()
	a := Allocation{BaseIndex: 2, Size: 1, Type: TypeSampler}
	require.NoError(t, m.Add("S", a))
	require.NoError(t, m.Add("S", a), "identical duplicate should be accepted")
	assert.Equal(t, 1, m.Len())

	err := m.Add("S", Allocation{BaseIndex: 3, Size: 1, Type: TypeSampler})
	require.Error(t, err)
	assert.True(t, diag.IsKind(err, diag.ErrMalformedMetadata))
}

func TestMap_InsertionOrder(t *testing.T) {
	var m Map
	for i, name := range []string{"c", "a", "b"} {
		require.NoError(t, m.Add(name, Allocation{BaseIndex: uint16(i)}))
	}
	assert.Equal(t, []string{"c", "a", "b"}, m.Names())

	var seen []string
	for name, a := range m.All() {
		seen = append(seen, name)
		if name == "a" {
			assert.Equal(t, uint16(1), a.BaseIndex)
			break
		}
	}
	assert.Equal(t, []string{"c", "a"}, seen)
}

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeLooseData, "LooseData"},
		{TypeUniformBuffer, "UniformBuffer"},
		{TypeSampler, "Sampler"},
		{TypeSamplerState, "SamplerState"},
		{TypeUAV, "UAV"},
		{Type(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}
