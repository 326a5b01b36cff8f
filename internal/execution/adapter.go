package execution

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/circuitgraph/internal/circuit"
	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/gate"
)

// Adapter realizes a program on some execution engine and reports the
// operations in the order the engine scheduled them.
type Adapter interface {
	Execute(ctx context.Context, program circuit.Program) (Trace, error)
}

// Tape records operations in program order. When a catalog is set, kinds
// outside its vocabulary are rejected.
type Tape struct {
	Registers int
	Catalog   *gate.Catalog
}

// NewTape creates a program-order adapter for a circuit with the given number
// of registers. cat may be nil to accept every known kind.
func NewTape(registers int, cat *gate.Catalog) *Tape {
	return &Tape{Registers: registers, Catalog: cat}
}

// Execute implements Adapter.
func (t *Tape) Execute(ctx context.Context, program circuit.Program) (Trace, error) {
	logger := ctxlog.FromContext(ctx)
	trace := make(Trace, 0, len(program))
	for _, op := range program {
		entry, err := record(op, t.Registers, t.Catalog)
		if err != nil {
			return nil, err
		}
		trace = append(trace, entry)
	}
	logger.Debug("Recorded program on tape.", "operations", len(trace))
	return trace, nil
}

// Moments schedules operations into as-soon-as-possible moments: an operation
// lands one moment after the latest operation on any of its registers, and
// the trace lists moments in order. Operations on disjoint registers may move
// relative to program order; operations sharing a register never do.
type Moments struct {
	Registers int
	Catalog   *gate.Catalog
}

// NewMoments creates a moment-scheduling adapter.
func NewMoments(registers int, cat *gate.Catalog) *Moments {
	return &Moments{Registers: registers, Catalog: cat}
}

// Execute implements Adapter.
func (m *Moments) Execute(ctx context.Context, program circuit.Program) (Trace, error) {
	logger := ctxlog.FromContext(ctx)

	type scheduled struct {
		moment int
		entry  Entry
	}
	frontier := make([]int, m.Registers)
	ops := make([]scheduled, 0, len(program))
	depth := 0
	for _, op := range program {
		entry, err := record(op, m.Registers, m.Catalog)
		if err != nil {
			return nil, err
		}
		moment := 0
		for _, w := range entry.Wires {
			moment = max(moment, frontier[w])
		}
		for _, w := range entry.Wires {
			frontier[w] = moment + 1
		}
		depth = max(depth, moment+1)
		ops = append(ops, scheduled{moment: moment, entry: entry})
	}

	slices.SortStableFunc(ops, func(a, b scheduled) int {
		return a.moment - b.moment
	})

	trace := make(Trace, len(ops))
	for i, s := range ops {
		trace[i] = s.entry
	}
	logger.Debug("Scheduled program into moments.", "operations", len(trace), "depth", depth)
	return trace, nil
}

func record(op circuit.Operation, registers int, cat *gate.Catalog) (Entry, error) {
	if cat != nil && !cat.Contains(op.Kind) {
		return Entry{}, fmt.Errorf("%w: operation %d (%s) is not in the allowed pool %s", gate.ErrUnknownGateKind, op.Index, op.Kind, cat)
	}
	entry := Entry{Kind: op.Kind, Wires: slices.Clone(op.Wires)}
	if err := CheckEntry(entry, registers); err != nil {
		return Entry{}, fmt.Errorf("operation %d: %w", op.Index, err)
	}
	return entry, nil
}
