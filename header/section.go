package header

// Section identifies one labeled block of the metadata.
// Sections must appear in declaration order.
type Section uint8

const (
	SectionInputs Section = iota
	SectionOutputs
	SectionUniformBlocks
	SectionPackedGlobals
	SectionPackedUB
	SectionPackedUBCopies
	SectionPackedUBGlobalCopies
	SectionSamplers
	SectionUAVs
	SectionSamplerStates
	SectionNumThreads

	numSections
)

// markerLead starts every section line.
const markerLead = "// @"

var sectionNames = [numSections]string{
	"Inputs",
	"Outputs",
	"UniformBlocks",
	"PackedGlobals",
	"PackedUB",
	"PackedUBCopies",
	"PackedUBGlobalCopies",
	"Samplers",
	"UAVs",
	"SamplerStates",
	"NumThreads",
}

// String returns the section label as written in the marker.
func (s Section) String() string {
	if s >= numSections {
		return "Unknown"
	}
	return sectionNames[s]
}

// Marker returns the full line prefix introducing the section.
func (s Section) Marker() string {
	return markerLead + s.String() + ": "
}

// repeatable reports whether the marker may introduce several lines.
// Each packed uniform buffer gets its own line.
func (s Section) repeatable() bool {
	return s == SectionPackedUB
}

func lookupSection(name string) (Section, bool) {
	for i, n := range sectionNames {
		if n == name {
			return Section(i), true
		}
	}
	return 0, false
}
