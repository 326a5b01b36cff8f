package dag

import "math/bits"

// wireSet is a bitset over register indices.
type wireSet []uint64

func newWireSet(registers int) wireSet {
	return make(wireSet, (registers+63)/64)
}

// fullWireSet returns a set holding every register in [0, registers).
func fullWireSet(registers int) wireSet {
	s := newWireSet(registers)
	for w := range registers {
		s.add(w)
	}
	return s
}

func (s wireSet) add(w int) {
	s[w/64] |= 1 << (uint(w) % 64)
}

func (s wireSet) has(w int) bool {
	return s[w/64]&(1<<(uint(w)%64)) != 0
}

func (s wireSet) len() int {
	n := 0
	for _, word := range s {
		n += bits.OnesCount64(word)
	}
	return n
}

// bits expands the set into a 0/1 vector of the given width.
func (s wireSet) bits(registers int) []int {
	vec := make([]int, registers)
	for w := range registers {
		if s.has(w) {
			vec[w] = 1
		}
	}
	return vec
}

// coverage records which operand slots of one operation have been resolved
// during a scan. Slot s corresponds to wires[s].
type coverage struct {
	wires   []int
	covered uint8
}

func newCoverage(wires []int) coverage {
	return coverage{wires: wires}
}

// absorb marks every slot whose register the other node occupies. It reports
// whether at least one slot was newly covered.
func (c *coverage) absorb(occupancy wireSet) bool {
	before := c.covered
	for s, w := range c.wires {
		if occupancy.has(w) {
			c.covered |= 1 << s
		}
	}
	return c.covered != before
}

// complete reports whether every slot is covered.
func (c *coverage) complete() bool {
	return bits.OnesCount8(c.covered) == len(c.wires)
}
