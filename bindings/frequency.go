package bindings

// Frequency is the pipeline stage a shader runs at.
type Frequency uint8

const (
	FrequencyVertex Frequency = iota
	FrequencyPixel
	FrequencyCompute
)

// String returns the stage name.
func (f Frequency) String() string {
	switch f {
	case FrequencyVertex:
		return "vertex"
	case FrequencyPixel:
		return "pixel"
	case FrequencyCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// ParseFrequency maps a stage name, as printed by String, to its Frequency.
// "fragment" is accepted for FrequencyPixel.
func ParseFrequency(s string) (Frequency, bool) {
	switch s {
	case "vertex":
		return FrequencyVertex, true
	case "pixel", "fragment":
		return FrequencyPixel, true
	case "compute":
		return FrequencyCompute, true
	default:
		return 0, false
	}
}
