// Package params records where every named shader parameter was bound.
//
// A Map is built while the metadata is turned into bindings and is handed
// to the caller next to the serialized header so that the engine can set
// parameters by name.
package params

import (
	"iter"

	"github.com/gogpu/shadermeta/diag"
)

// Type classifies a parameter allocation.
type Type uint8

const (
	// TypeLooseData is a constant packed into a precision array.
	TypeLooseData Type = iota

	// TypeUniformBuffer is a whole uniform buffer bound at a slot.
	TypeUniformBuffer

	// TypeSampler is a texture/sampler slot, including sampler-state aliases.
	TypeSampler

	// TypeSamplerState is a standalone sampler-state object.
	TypeSamplerState

	// TypeUAV is an unordered access resource slot.
	TypeUAV
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeLooseData:
		return "LooseData"
	case TypeUniformBuffer:
		return "UniformBuffer"
	case TypeSampler:
		return "Sampler"
	case TypeSamplerState:
		return "SamplerState"
	case TypeUAV:
		return "UAV"
	default:
		return "Unknown"
	}
}

// Allocation is the binding of one named parameter.
type Allocation struct {
	// BufferIndex is the uniform buffer slot, the packed array key, or 0
	// for sampler and UAV slots.
	BufferIndex uint16

	// BaseIndex is the byte offset for loose data, or the first slot.
	BaseIndex uint16

	// Size is the byte size for loose data, or the slot count.
	Size uint16

	Type Type
}

// Map is an append-only, insertion-ordered name to Allocation map.
// The zero value is ready to use.
type Map struct {
	names  []string
	allocs map[string]Allocation
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{allocs: make(map[string]Allocation)}
}

// Add records the allocation for name. Adding the same allocation twice is a
// no-op; adding a different allocation for a known name fails.
func (m *Map) Add(name string, a Allocation) error {
	if m.allocs == nil {
		m.allocs = make(map[string]Allocation)
	}
	if prev, ok := m.allocs[name]; ok {
		if prev == a {
			return nil
		}
		return diag.Errorf(diag.ErrMalformedMetadata,
			"parameter %q bound twice: (%d, %d, %d) and (%d, %d, %d)",
			name, prev.BufferIndex, prev.BaseIndex, prev.Size, a.BufferIndex, a.BaseIndex, a.Size)
	}
	m.allocs[name] = a
	m.names = append(m.names, name)
	return nil
}

// Find returns the allocation for name.
func (m *Map) Find(name string) (Allocation, bool) {
	a, ok := m.allocs[name]
	return a, ok
}

// Len returns the number of allocations.
func (m *Map) Len() int {
	return len(m.names)
}

// Names returns the parameter names in insertion order.
func (m *Map) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// All iterates the allocations in insertion order.
func (m *Map) All() iter.Seq2[string, Allocation] {
	return func(yield func(string, Allocation) bool) {
		for _, name := range m.names {
			if !yield(name, m.allocs[name]) {
				return
			}
		}
	}
}
