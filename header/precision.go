package header

// Precision selects the packed array a constant is uploaded into.
type Precision uint8

const (
	PrecisionHigh Precision = iota
	PrecisionMedium
	PrecisionLow
	PrecisionInt
	PrecisionUint

	// NumPrecisions is the number of known precisions.
	NumPrecisions = 5
)

var precisionChars = [NumPrecisions]byte{'h', 'm', 'l', 'i', 'u'}

var precisionNames = [NumPrecisions]string{"highp", "mediump", "lowp", "int", "uint"}

// PrecisionFromChar maps a metadata precision character to its Precision.
func PrecisionFromChar(c byte) (Precision, bool) {
	for i, pc := range precisionChars {
		if pc == c {
			return Precision(i), true
		}
	}
	return 0, false
}

// Char returns the metadata character for p.
func (p Precision) Char() byte {
	if int(p) >= NumPrecisions {
		return 0
	}
	return precisionChars[p]
}

// Index returns the packed array index used by the runtime for p.
func (p Precision) Index() uint8 {
	return uint8(p)
}

// String returns the precision name.
func (p Precision) String() string {
	if int(p) >= NumPrecisions {
		return "unknown"
	}
	return precisionNames[p]
}
