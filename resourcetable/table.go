// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package resourcetable merges a shader's parameter allocations with the
// pipeline-wide resource table layout.
//
// Resources declared inside uniform buffers (textures, views, samplers and
// UAVs) are not bound by name at runtime. Instead each shader carries, per
// resource kind, a token stream telling the runtime which uniform buffer
// slot holds the resource, at which index inside that buffer, and to which
// shader slot it must be bound.
package resourcetable

import (
	"maps"
	"slices"

	"github.com/gogpu/shadermeta/diag"
	"github.com/gogpu/shadermeta/params"
)

// Kind is the resource kind of a table member.
type Kind uint8

const (
	KindTexture Kind = iota
	KindSRV
	KindSampler
	KindUAV
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "Texture"
	case KindSRV:
		return "SRV"
	case KindSampler:
		return "Sampler"
	case KindUAV:
		return "UAV"
	default:
		return "Unknown"
	}
}

// MaxTables is the number of uniform buffer slots ActiveTableBits can describe.
const MaxTables = 32

// Entry describes one resource declared inside a uniform buffer.
type Entry struct {
	// UniformBuffer is the name of the declaring uniform buffer.
	UniformBuffer string

	Kind Kind

	// ResourceIndex is the resource's index inside the uniform buffer.
	ResourceIndex uint16
}

// Map is the pipeline-wide resource table layout. It is built once per
// pipeline run and shared read-only by all shader compiles.
type Map struct {
	// Entries maps a resource parameter name to its declaration.
	Entries map[string]Entry

	// LayoutHashes maps a uniform buffer name to its layout hash.
	LayoutHashes map[string]uint32

	// MaxBoundTable is the highest uniform buffer slot the platform can
	// bind through a resource table. Zero means MaxTables-1.
	MaxBoundTable int
}

// Bindings is the resource table part of a shader's bindings.
type Bindings struct {
	// ActiveTableBits has bit i set when uniform buffer slot i holds
	// resources used by the shader.
	ActiveTableBits uint32

	// LayoutHashes holds the layout hash of each uniform buffer slot.
	LayoutHashes []uint32

	TextureTokens []uint32
	SRVTokens     []uint32
	SamplerTokens []uint32
	UAVTokens     []uint32
}

func (m *Map) maxBoundTable() int {
	if m.MaxBoundTable <= 0 || m.MaxBoundTable >= MaxTables {
		return MaxTables - 1
	}
	return m.MaxBoundTable
}

// Build maps every resource of m that the shader allocated in pm onto
// token streams.
//
// A declaring uniform buffer the shader never bound explicitly is given the
// first free slot of used, and that allocation is added to pm. Resource
// names are visited in sorted order so identical inputs always produce
// identical slots and streams.
func Build(m *Map, pm *params.Map, used *SlotSet) (Bindings, error) {
	var out Bindings
	if m == nil {
		return out, nil
	}

	limit := m.maxBoundTable()
	maxBound := -1
	var tokens [4][]uint32

	for _, name := range slices.Sorted(maps.Keys(m.Entries)) {
		entry := m.Entries[name]
		alloc, ok := pm.Find(name)
		if !ok {
			continue
		}

		ubIndex, err := declaringSlot(entry.UniformBuffer, pm, used)
		if err != nil {
			return Bindings{}, err
		}
		if ubIndex > limit {
			return Bindings{}, diag.Errorf(diag.ErrResourceLimit,
				"uniform buffer %q at slot %d exceeds the resource table limit of %d", entry.UniformBuffer, ubIndex, limit)
		}
		if alloc.BaseIndex > BindIndexMask {
			return Bindings{}, diag.Errorf(diag.ErrResourceLimit,
				"resource %q bound at slot %d exceeds the token bind index range", name, alloc.BaseIndex)
		}
		if int(entry.Kind) >= len(tokens) {
			return Bindings{}, diag.Errorf(diag.ErrUnrecognizedToken, "resource %q has unknown kind %d", name, entry.Kind)
		}

		out.ActiveTableBits |= 1 << uint(ubIndex)
		maxBound = max(maxBound, ubIndex)
		tokens[entry.Kind] = append(tokens[entry.Kind], Token(uint16(ubIndex), entry.ResourceIndex, alloc.BaseIndex))
	}

	// Every uniform buffer gets a hash slot, including buffers that only
	// hold constants.
	for name, a := range pm.All() {
		if a.Type != params.TypeUniformBuffer {
			continue
		}
		if int(a.BufferIndex) >= len(out.LayoutHashes) {
			out.LayoutHashes = append(out.LayoutHashes, make([]uint32, int(a.BufferIndex)+1-len(out.LayoutHashes))...)
		}
		if h, ok := m.LayoutHashes[name]; ok {
			out.LayoutHashes[a.BufferIndex] = h
		}
	}

	out.TextureTokens = BuildTokenStream(tokens[KindTexture], maxBound)
	out.SRVTokens = BuildTokenStream(tokens[KindSRV], maxBound)
	out.SamplerTokens = BuildTokenStream(tokens[KindSampler], maxBound)
	out.UAVTokens = BuildTokenStream(tokens[KindUAV], maxBound)
	return out, nil
}

func declaringSlot(ubName string, pm *params.Map, used *SlotSet) (int, error) {
	if a, ok := pm.Find(ubName); ok {
		if a.Type != params.TypeUniformBuffer {
			return 0, diag.Errorf(diag.ErrMalformedMetadata, "resource table buffer %q is bound as %s", ubName, a.Type)
		}
		return int(a.BufferIndex), nil
	}
	slot, ok := used.FirstFree()
	if !ok {
		return 0, diag.Errorf(diag.ErrResourceLimit, "no free uniform buffer slot for %q", ubName)
	}
	used.Set(slot)
	if err := pm.Add(ubName, params.Allocation{BufferIndex: uint16(slot), Type: params.TypeUniformBuffer}); err != nil {
		return 0, err
	}
	return slot, nil
}

// NumUniformBuffersUsed returns the number of uniform buffer slots needed
// to cover every active table: the highest set bit plus one.
func NumUniformBuffersUsed(bits uint32) int {
	n := 0
	for bits != 0 {
		bits >>= 1
		n++
	}
	return n
}
