package emit

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadermeta/bindings"
)

// VaryingPrefix names location-bound values passed between stages.
const VaryingPrefix = "var_TEXCOORD"

// builtinNames holds the suffix appended to Backend.BuiltinPrefix.
var builtinNames = map[ir.BuiltinValue]string{
	ir.BuiltinPosition:             "Position",
	ir.BuiltinVertexIndex:          "VertexID",
	ir.BuiltinInstanceIndex:        "InstanceID",
	ir.BuiltinFrontFacing:          "FrontFacing",
	ir.BuiltinSampleIndex:          "SampleID",
	ir.BuiltinSampleMask:           "SampleMask",
	ir.BuiltinLocalInvocationID:    "LocalInvocationID",
	ir.BuiltinLocalInvocationIndex: "LocalInvocationIndex",
	ir.BuiltinGlobalInvocationID:   "GlobalInvocationID",
	ir.BuiltinWorkGroupID:          "WorkGroupID",
	ir.BuiltinNumWorkGroups:        "NumWorkGroups",
}

type ioVar struct {
	binding ir.Binding
	typ     ir.TypeHandle
}

type metadataWriter struct {
	sb      *strings.Builder
	module  *ir.Module
	ep      *ir.EntryPoint
	backend bindings.Backend
}

// writeMetadata writes the metadata block for ep.
func writeMetadata(sb *strings.Builder, module *ir.Module, ep *ir.EntryPoint, backend bindings.Backend) {
	w := &metadataWriter{sb: sb, module: module, ep: ep, backend: backend}

	var inputs, outputs []ioVar
	if int(ep.Function) < len(module.Functions) {
		fn := &module.Functions[ep.Function]
		for _, arg := range fn.Arguments {
			inputs = w.collect(inputs, arg.Binding, arg.Type)
		}
		if fn.Result != nil {
			outputs = w.collect(outputs, fn.Result.Binding, fn.Result.Type)
		}
	}
	w.section("Inputs", w.inOut(inputs, false))
	w.section("Outputs", w.inOut(outputs, true))
	w.resources()

	if ep.Stage == ir.StageCompute {
		x, y, z := max(ep.Workgroup[0], 1), max(ep.Workgroup[1], 1), max(ep.Workgroup[2], 1)
		fmt.Fprintf(w.sb, "// @NumThreads: %d, %d, %d\n", x, y, z)
	}
}

// collect appends the bound value, or the bound members of a struct.
func (w *metadataWriter) collect(list []ioVar, binding *ir.Binding, typ ir.TypeHandle) []ioVar {
	if binding != nil {
		return append(list, ioVar{binding: *binding, typ: typ})
	}
	if int(typ) >= len(w.module.Types) {
		return list
	}
	if st, ok := w.module.Types[typ].Inner.(ir.StructType); ok {
		for _, m := range st.Members {
			if m.Binding != nil {
				list = append(list, ioVar{binding: *m.Binding, typ: m.Type})
			}
		}
	}
	return list
}

func (w *metadataWriter) section(name string, records []string) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(w.sb, "// @%s: %s\n", name, strings.Join(records, ","))
}

func (w *metadataWriter) inOut(vars []ioVar, output bool) []string {
	var records []string
	for _, v := range vars {
		switch b := v.binding.(type) {
		case ir.LocationBinding:
			name := w.locationName(b.Location, output)
			records = append(records, fmt.Sprintf("%s;%d:%s", w.typeTag(v.typ), b.Location, name))
		case ir.BuiltinBinding:
			if name, ok := w.builtinName(b.Builtin); ok {
				records = append(records, name)
			}
		}
	}
	return records
}

func (w *metadataWriter) locationName(location uint32, output bool) string {
	switch {
	case !output && w.ep.Stage == ir.StageVertex:
		return w.backend.AttributePrefix + strconv.FormatUint(uint64(location), 10)
	case output && w.ep.Stage == ir.StageFragment:
		return w.backend.RenderTargetPrefix + strconv.FormatUint(uint64(location), 10)
	default:
		return VaryingPrefix + strconv.FormatUint(uint64(location), 10)
	}
}

func (w *metadataWriter) builtinName(b ir.BuiltinValue) (string, bool) {
	if b == ir.BuiltinFragDepth {
		return w.backend.DepthOutputName, w.backend.DepthOutputName != ""
	}
	if w.backend.BuiltinPrefix == "" {
		return "", false
	}
	if b == ir.BuiltinPosition && w.ep.Stage == ir.StageFragment {
		return w.backend.BuiltinPrefix + "FragCoord", true
	}
	name, ok := builtinNames[b]
	if !ok {
		return "", false
	}
	return w.backend.BuiltinPrefix + name, true
}

// typeTag is a short type code such as f4 or u1.
func (w *metadataWriter) typeTag(h ir.TypeHandle) string {
	if int(h) >= len(w.module.Types) {
		return "x1"
	}
	switch t := w.module.Types[h].Inner.(type) {
	case ir.ScalarType:
		return scalarTag(t) + "1"
	case ir.VectorType:
		return scalarTag(t.Scalar) + strconv.Itoa(int(t.Size))
	default:
		return "x1"
	}
}

func scalarTag(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarSint:
		return "i"
	case ir.ScalarUint:
		return "u"
	case ir.ScalarBool:
		return "b"
	default:
		return "f"
	}
}

// resources writes uniform blocks, samplers, UAVs and sampler states.
// Resources are numbered per kind in (group, binding) order.
func (w *metadataWriter) resources() {
	globals := make([]*ir.GlobalVariable, 0, len(w.module.GlobalVariables))
	for i := range w.module.GlobalVariables {
		if w.module.GlobalVariables[i].Binding != nil {
			globals = append(globals, &w.module.GlobalVariables[i])
		}
	}
	slices.SortStableFunc(globals, func(a, b *ir.GlobalVariable) int {
		if c := cmp.Compare(a.Binding.Group, b.Binding.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Binding.Binding, b.Binding.Binding)
	})

	var blocks, samplers, uavs, states []string
	for _, g := range globals {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("binding_%d_%d", g.Binding.Group, g.Binding.Binding)
		}
		switch g.Space {
		case ir.SpaceUniform:
			blocks = append(blocks, fmt.Sprintf("%s(%d)", name, len(blocks)))
		case ir.SpaceStorage:
			uavs = append(uavs, fmt.Sprintf("%s(%d:1)", name, len(uavs)))
		case ir.SpaceHandle:
			if int(g.Type) >= len(w.module.Types) {
				continue
			}
			switch t := w.module.Types[g.Type].Inner.(type) {
			case ir.SamplerType:
				states = append(states, fmt.Sprintf("%d:%s", len(states), name))
			case ir.ImageType:
				if t.Class == ir.ImageClassStorage {
					uavs = append(uavs, fmt.Sprintf("%s(%d:1)", name, len(uavs)))
				} else {
					samplers = append(samplers, fmt.Sprintf("%s(%d:1)", name, len(samplers)))
				}
			}
		}
	}

	w.section("UniformBlocks", blocks)
	w.section("Samplers", samplers)
	w.section("UAVs", uavs)
	w.section("SamplerStates", states)
}
