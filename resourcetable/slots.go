package resourcetable

import "math/bits"

// MaxSlots is the number of uniform buffer slots a SlotSet tracks.
const MaxSlots = 256

// SlotSet is the set of uniform buffer slots claimed by a shader.
// The zero value is empty.
type SlotSet struct {
	words [MaxSlots / 64]uint64
}

// Set marks slot as used. Out of range slots are ignored.
func (s *SlotSet) Set(slot int) {
	if slot < 0 || slot >= MaxSlots {
		return
	}
	s.words[slot/64] |= 1 << uint(slot%64)
}

// Has reports whether slot is used.
func (s *SlotSet) Has(slot int) bool {
	if slot < 0 || slot >= MaxSlots {
		return false
	}
	return s.words[slot/64]&(1<<uint(slot%64)) != 0
}

// FirstFree returns the lowest unused slot.
func (s *SlotSet) FirstFree() (int, bool) {
	for i, w := range s.words {
		if w != ^uint64(0) {
			return i*64 + bits.TrailingZeros64(^w), true
		}
	}
	return 0, false
}

// Count returns the number of used slots.
func (s *SlotSet) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}
