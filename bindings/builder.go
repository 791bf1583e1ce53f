package bindings

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/shadermeta/diag"
	"github.com/gogpu/shadermeta/header"
	"github.com/gogpu/shadermeta/params"
	"github.com/gogpu/shadermeta/resourcetable"
)

// Builder builds ShaderBindings for one backend and stage.
// A Builder holds no state between calls and may be shared.
type Builder struct {
	backend   Backend
	frequency Frequency
}

// NewBuilder returns a Builder for shaders of the given stage.
func NewBuilder(backend Backend, frequency Frequency) *Builder {
	return &Builder{backend: backend, frequency: frequency}
}

// Backend returns the backend capabilities b was created with.
func (b *Builder) Backend() Backend {
	return b.backend
}

// Frequency returns the stage b builds for.
func (b *Builder) Frequency() Frequency {
	return b.frequency
}

// precisionSizes tracks the highest byte used per precision array.
type precisionSizes struct {
	used  [header.NumPrecisions]bool
	bytes [header.NumPrecisions]uint64
}

func (s *precisionSizes) grow(p header.Precision, offset, count uint32) {
	s.used[p] = true
	s.bytes[p] = max(s.bytes[p], 4*(uint64(offset)+uint64(count)))
}

func (s *precisionSizes) arrays() ([]PackedArrayInfo, error) {
	var out []PackedArrayInfo
	for i := range header.NumPrecisions {
		if !s.used[i] {
			continue
		}
		p := header.Precision(i)
		if s.bytes[i] > math.MaxUint32-(PackedArrayAlignment-1) {
			return nil, diag.Errorf(diag.ErrResourceLimit, "%s packed array of %d bytes is too large", p, s.bytes[i])
		}
		out = append(out, PackedArrayInfo{Precision: p, Size: AlignPackedSize(uint32(s.bytes[i]))})
	}
	return out, nil
}

type build struct {
	*Builder
	md *header.Metadata
	sb *ShaderBindings
	pm *params.Map

	used    resourcetable.SlotSet
	globals precisionSizes
	perUB   []precisionSizes
}

// Build turns md into bindings. table may be nil when the pipeline has no
// resource table.
//
// Any error is fatal for the shader and no partial result is returned.
func (b *Builder) Build(md *header.Metadata, table *resourcetable.Map) (*ShaderBindings, *params.Map, error) {
	st := &build{
		Builder: b,
		md:      md,
		sb:      &ShaderBindings{Frequency: b.frequency},
		pm:      params.NewMap(),
	}
	steps := []func() error{
		st.inputs,
		st.outputs,
		st.uniformBlocks,
		st.packedGlobals,
		st.packedUniformBuffers,
		st.copies,
		st.packedArrays,
		st.samplers,
		st.uavs,
		st.numThreads,
		func() error { return st.resourceTable(table) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, nil, err
		}
	}
	return st.sb, st.pm, nil
}

func (st *build) inputs() error {
	for _, v := range st.md.Inputs {
		if st.frequency == FrequencyVertex {
			if index, ok := prefixIndex(v.Name, st.backend.AttributePrefix); ok {
				if index >= MaxVertexAttributes {
					return diag.Errorf(diag.ErrResourceLimit, "input %q uses attribute %d, limit is %d", v.Name, index, MaxVertexAttributes)
				}
				st.sb.InOutMask |= 1 << index
				continue
			}
		}
		if st.varying(v) {
			st.sb.InputVaryings = append(st.sb.InputVaryings, Varying{Name: v.Name, Location: v.Location})
		}
	}
	return nil
}

func (st *build) outputs() error {
	for _, v := range st.md.Outputs {
		if st.frequency == FrequencyPixel {
			if st.backend.DepthOutputName != "" && v.Name == st.backend.DepthOutputName {
				st.sb.InOutMask |= DepthWriteBit
				continue
			}
			if index, ok := prefixIndex(v.Name, st.backend.RenderTargetPrefix); ok {
				if index >= MaxRenderTargets {
					return diag.Errorf(diag.ErrResourceLimit, "output %q uses render target %d, limit is %d", v.Name, index, MaxRenderTargets)
				}
				st.sb.InOutMask |= 1 << index
				continue
			}
		}
		if st.varying(v) {
			st.sb.OutputVaryings = append(st.sb.OutputVaryings, Varying{Name: v.Name, Location: v.Location})
		}
	}
	return nil
}

// varying reports whether v is recorded as an explicitly linked varying.
// Attribute and render target names never are, whatever the stage.
func (st *build) varying(v header.InOutVar) bool {
	if !st.backend.ExplicitVaryings {
		return false
	}
	if st.backend.BuiltinPrefix != "" && strings.HasPrefix(v.Name, st.backend.BuiltinPrefix) {
		return false
	}
	if v.Name == st.backend.DepthOutputName {
		return false
	}
	if _, ok := prefixIndex(v.Name, st.backend.AttributePrefix); ok {
		return false
	}
	if _, ok := prefixIndex(v.Name, st.backend.RenderTargetPrefix); ok {
		return false
	}
	return true
}

// claimUniformBuffer binds name at the next uniform buffer slot. Slots are
// assigned in order by the producer; any other index is rejected.
func (st *build) claimUniformBuffer(name string, index uint32) error {
	want := uint32(st.sb.NumUniformBuffers)
	if index != want {
		return diag.Errorf(diag.ErrIndexInvariant, "uniform buffer %q has index %d, expected %d", name, index, want)
	}
	if index >= math.MaxUint8 {
		return diag.Errorf(diag.ErrResourceLimit, "uniform buffer %q exceeds %d uniform buffers", name, math.MaxUint8)
	}
	if err := st.pm.Add(name, params.Allocation{BufferIndex: uint16(index), Type: params.TypeUniformBuffer}); err != nil {
		return err
	}
	st.used.Set(int(index))
	st.sb.NumUniformBuffers++
	return nil
}

func (st *build) uniformBlocks() error {
	for _, ub := range st.md.UniformBlocks {
		if err := st.claimUniformBuffer(ub.Name, ub.Index); err != nil {
			return err
		}
		st.sb.HasRegularUniformBuffers = true
	}
	return nil
}

func (st *build) packedGlobals() error {
	for _, g := range st.md.PackedGlobals {
		offset, size := 4*uint64(g.Offset), 4*uint64(g.Count)
		if offset > math.MaxUint16 || size > math.MaxUint16 {
			return diag.Errorf(diag.ErrResourceLimit, "packed global %q at byte %d size %d is out of range", g.Name, offset, size)
		}
		err := st.pm.Add(g.Name, params.Allocation{
			BufferIndex: uint16(g.Precision.Char()),
			BaseIndex:   uint16(offset),
			Size:        uint16(size),
			Type:        params.TypeLooseData,
		})
		if err != nil {
			return err
		}
		st.globals.grow(g.Precision, g.Offset, g.Count)
	}
	return nil
}

func (st *build) packedUniformBuffers() error {
	for _, ub := range st.md.PackedUniformBuffers {
		if err := st.claimUniformBuffer(ub.Name, ub.Index); err != nil {
			return err
		}
	}
	return nil
}

func (st *build) copies() error {
	if !st.backend.PackedUniformBufferCopies && (len(st.md.PackedUniformBufferCopies) > 0 || len(st.md.PackedGlobalCopies) > 0) {
		return diag.Errorf(diag.ErrMalformedMetadata, "backend %s does not support packed uniform buffer copies", st.backend.Name)
	}
	for _, c := range st.md.PackedUniformBufferCopies {
		if c.DestUB >= resourcetable.MaxSlots {
			return diag.Errorf(diag.ErrResourceLimit, "copy destination uniform buffer %d out of range", c.DestUB)
		}
		if err := st.addCopy(c); err != nil {
			return err
		}
		for len(st.perUB) <= int(c.DestUB) {
			st.perUB = append(st.perUB, precisionSizes{})
		}
		st.perUB[c.DestUB].grow(c.Precision, c.DestOffset, c.Size)
	}
	for _, c := range st.md.PackedGlobalCopies {
		if err := st.addCopy(c); err != nil {
			return err
		}
		st.globals.grow(c.Precision, c.DestOffset, c.Size)
	}
	return nil
}

func (st *build) addCopy(c header.CopyInfo) error {
	for _, v := range [...]uint32{c.SourceUB, c.SourceOffset, c.DestUB, c.DestOffset, c.Size} {
		if v > math.MaxUint16 {
			return diag.Errorf(diag.ErrResourceLimit, "copy %d:%d-%d:%c:%d:%d is out of range",
				c.SourceUB, c.SourceOffset, c.DestUB, c.Precision.Char(), c.DestOffset, c.Size)
		}
	}
	st.sb.UniformBufferCopies = append(st.sb.UniformBufferCopies, CopyInfo{
		SourceUB:     uint16(c.SourceUB),
		SourceOffset: uint16(c.SourceOffset),
		DestUB:       uint16(c.DestUB),
		Precision:    c.Precision,
		DestOffset:   uint16(c.DestOffset),
		Size:         uint16(c.Size),
	})
	return nil
}

func (st *build) packedArrays() error {
	var err error
	if st.sb.PackedGlobalArrays, err = st.globals.arrays(); err != nil {
		return err
	}
	if len(st.perUB) == 0 {
		return nil
	}
	st.sb.PackedUniformBuffers = make([][]PackedArrayInfo, len(st.perUB))
	for i := range st.perUB {
		if st.sb.PackedUniformBuffers[i], err = st.perUB[i].arrays(); err != nil {
			return err
		}
	}
	return nil
}

// slotRange checks offset+count against the 8-bit slot counters.
func slotRange(kind, name string, offset, count uint32) (uint16, uint16, uint8, error) {
	end := uint64(offset) + uint64(count)
	if end > math.MaxUint8 {
		return 0, 0, 0, diag.Errorf(diag.ErrResourceLimit, "%s %q at slots %d..%d exceeds %d slots", kind, name, offset, end, math.MaxUint8)
	}
	return uint16(offset), uint16(count), uint8(end), nil
}

func (st *build) samplers() error {
	for _, s := range st.md.Samplers {
		offset, count, end, err := slotRange("sampler", s.Name, s.Offset, s.Count)
		if err != nil {
			return err
		}
		alloc := params.Allocation{BaseIndex: offset, Size: count, Type: params.TypeSampler}
		if err := st.pm.Add(s.Name, alloc); err != nil {
			return err
		}
		for _, state := range s.StateNames {
			if err := st.pm.Add(state, alloc); err != nil {
				return err
			}
		}
		st.sb.NumSamplers = max(st.sb.NumSamplers, end)
	}

	for _, s := range st.md.SamplerStates {
		if _, ok := st.pm.Find(s.Name); ok {
			continue
		}
		index, _, _, err := slotRange("sampler state", s.Name, s.Index, 1)
		if err != nil {
			return err
		}
		if err := st.pm.Add(s.Name, params.Allocation{BaseIndex: index, Size: 1, Type: params.TypeSamplerState}); err != nil {
			return err
		}
	}
	return nil
}

func (st *build) uavs() error {
	for _, u := range st.md.UAVs {
		offset, count, end, err := slotRange("UAV", u.Name, u.Offset, u.Count)
		if err != nil {
			return err
		}
		if err := st.pm.Add(u.Name, params.Allocation{BaseIndex: offset, Size: count, Type: params.TypeUAV}); err != nil {
			return err
		}
		st.sb.NumUAVs = max(st.sb.NumUAVs, end)
	}
	return nil
}

func (st *build) numThreads() error {
	if n := st.md.NumThreads; n != nil {
		st.sb.NumThreads = [3]uint32{n.X, n.Y, n.Z}
	}
	return nil
}

func (st *build) resourceTable(table *resourcetable.Map) error {
	rt, err := resourcetable.Build(table, st.pm, &st.used)
	if err != nil {
		return err
	}
	st.sb.ResourceTable = rt
	if n := resourcetable.NumUniformBuffersUsed(rt.ActiveTableBits); n > int(st.sb.NumUniformBuffers) {
		st.sb.NumUniformBuffers = uint8(n)
	}
	return nil
}

// prefixIndex returns the decimal index following prefix in name.
func prefixIndex(name, prefix string) (uint, bool) {
	if prefix == "" {
		return 0, false
	}
	digits, ok := strings.CutPrefix(name, prefix)
	if !ok || digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return math.MaxUint16, true
	}
	return uint(n), true
}
