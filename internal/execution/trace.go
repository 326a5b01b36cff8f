package execution

import (
	"errors"
	"fmt"

	"github.com/vk/circuitgraph/internal/gate"
)

// ErrMalformedGateList is returned for traces that are not framed by Start and
// End or whose operand lists disagree with their kind's arity.
var ErrMalformedGateList = errors.New("malformed gate list")

// Entry is one scheduled operation as reported by an adapter.
type Entry struct {
	Kind  gate.Kind `json:"kind"`
	Wires []int     `json:"wires,omitempty"`
}

// ParseEntry builds an entry from a kind name, for adapters that report names.
func ParseEntry(name string, wires ...int) (Entry, error) {
	k, err := gate.ParseKind(name)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Kind: k, Wires: wires}, nil
}

// Trace is the ordered list of entries an adapter reports.
type Trace []Entry

// Framed reports whether the trace opens with Start and closes with End.
func (t Trace) Framed() bool {
	return len(t) >= 2 && t[0].Kind == gate.Start && t[len(t)-1].Kind == gate.End
}

// Frame returns the trace with Start prepended and End appended where they
// are missing. The input is not modified.
func Frame(t Trace) Trace {
	framed := make(Trace, 0, len(t)+2)
	if len(t) == 0 || t[0].Kind != gate.Start {
		framed = append(framed, Entry{Kind: gate.Start})
	}
	framed = append(framed, t...)
	if len(framed) < 2 || framed[len(framed)-1].Kind != gate.End {
		framed = append(framed, Entry{Kind: gate.End})
	}
	return framed
}

// CheckEntry verifies an interior entry against its kind's arity and the
// circuit's register count.
func CheckEntry(e Entry, registers int) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %d", gate.ErrUnknownGateKind, uint8(e.Kind))
	}
	if e.Kind.IsSentinel() {
		return fmt.Errorf("%w: %s is not an operation", ErrMalformedGateList, e.Kind)
	}
	if len(e.Wires) != e.Kind.Arity() {
		return fmt.Errorf("%w: %s acts on %d registers, got operands %v", ErrMalformedGateList, e.Kind, e.Kind.Arity(), e.Wires)
	}
	for _, w := range e.Wires {
		if w < 0 || w >= registers {
			return fmt.Errorf("%w: %s operand %d outside [0, %d)", ErrMalformedGateList, e.Kind, w, registers)
		}
	}
	if len(e.Wires) == 2 && e.Wires[0] == e.Wires[1] {
		return fmt.Errorf("%w: %s uses register %d twice", ErrMalformedGateList, e.Kind, e.Wires[0])
	}
	return nil
}
