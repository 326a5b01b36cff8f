// Package circuit defines the operation program produced from a layer
// encoding: an ordered list of gate applications on numbered registers.
package circuit

import (
	"fmt"
	"strings"

	"github.com/vk/circuitgraph/internal/gate"
)

// Operation is a single gate application.
type Operation struct {
	Kind gate.Kind `json:"kind"`
	// Index is the operation's position in emission order.
	Index int `json:"index"`
	// Wires lists operand registers in order; for controlled kinds the control
	// comes first.
	Wires  []int     `json:"wires"`
	Params []float64 `json:"params,omitempty"`
}

// String renders the operation like "C(U3)[0 1]".
func (o Operation) String() string {
	return fmt.Sprintf("%s%v", o.Kind, o.Wires)
}

// Program is an ordered sequence of operations.
type Program []Operation

// Kinds returns the kind of every operation in order.
func (p Program) Kinds() []gate.Kind {
	kinds := make([]gate.Kind, len(p))
	for i, op := range p {
		kinds[i] = op.Kind
	}
	return kinds
}

// Wires returns the operand registers of every operation in order.
func (p Program) Wires() [][]int {
	wires := make([][]int, len(p))
	for i, op := range p {
		wires[i] = op.Wires
	}
	return wires
}

// SameStructure reports whether p and other agree on kinds and wiring,
// ignoring parameter values.
func (p Program) SameStructure(other Program) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i].Kind != other[i].Kind || len(p[i].Wires) != len(other[i].Wires) {
			return false
		}
		for w := range p[i].Wires {
			if p[i].Wires[w] != other[i].Wires[w] {
				return false
			}
		}
	}
	return true
}

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, op := range p {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}
