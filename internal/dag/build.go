package dag

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
)

// node is the builder's view of one trace entry.
type node struct {
	kind      gate.Kind
	wires     []int
	occupancy wireSet
}

type builder struct {
	registers int
	nodes     []node
	adj       [][]bool
}

// Build constructs the dependency graph of a framed trace. The trace must
// open with Start and close with End; it is never repaired here (see
// execution.Frame).
func Build(ctx context.Context, trace execution.Trace, cat *gate.Catalog, registers int) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "entries", len(trace), "registers", registers)

	if cat == nil {
		return nil, fmt.Errorf("dag: catalog is required")
	}
	if registers <= 0 {
		return nil, fmt.Errorf("%w: register count must be positive, got %d", ErrMalformedGateList, registers)
	}
	if err := checkFraming(trace, registers); err != nil {
		return nil, err
	}

	// First pass: node occupancy and feature rows.
	b := newBuilder(trace, registers)
	features, err := b.features(cat)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Node features complete.", "node_count", len(b.nodes), "feature_width", cat.Size()+registers)

	// Second pass: predecessor edges, then edges into End.
	for i := 1; i < len(b.nodes)-1; i++ {
		b.linkPredecessors(i)
		b.linkTerminal(i)
	}
	b.linkIdleRegisters()
	logger.Debug("Build: Edge assignment complete.")

	g := &Graph{
		Registers: registers,
		Nodes:     cloneTrace(trace),
		Features:  features,
		Adjacency: b.adj,
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Graph construction successful.", "edges", len(g.Edges()))
	return g, nil
}

func checkFraming(trace execution.Trace, registers int) error {
	if len(trace) == 0 || trace[0].Kind != gate.Start {
		return fmt.Errorf("%w: trace must open with %s", ErrMalformedGateList, gate.Start)
	}
	if len(trace) < 2 || trace[len(trace)-1].Kind != gate.End {
		return fmt.Errorf("%w: trace must close with %s", ErrMalformedGateList, gate.End)
	}
	for i, e := range trace[1 : len(trace)-1] {
		if err := execution.CheckEntry(e, registers); err != nil {
			return fmt.Errorf("trace entry %d: %w", i+1, err)
		}
	}
	return nil
}

func newBuilder(trace execution.Trace, registers int) *builder {
	b := &builder{
		registers: registers,
		nodes:     make([]node, len(trace)),
		adj:       make([][]bool, len(trace)),
	}
	for i, e := range trace {
		n := node{kind: e.Kind, wires: e.Wires}
		if e.Kind.IsSentinel() {
			n.occupancy = fullWireSet(registers)
		} else {
			n.occupancy = newWireSet(registers)
			for _, w := range e.Wires {
				n.occupancy.add(w)
			}
		}
		b.nodes[i] = n
		b.adj[i] = make([]bool, len(trace))
	}
	return b
}

func (b *builder) features(cat *gate.Catalog) ([][]int, error) {
	rows := make([][]int, len(b.nodes))
	for i, n := range b.nodes {
		onehot, err := cat.Encode(n.kind)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		rows[i] = append(onehot, n.occupancy.bits(b.registers)...)
	}
	return rows, nil
}

// before yields the nodes preceding i, nearest first. Start is always last.
func (b *builder) before(i int) iter.Seq2[int, node] {
	return func(yield func(int, node) bool) {
		for j := i - 1; j >= 0; j-- {
			if !yield(j, b.nodes[j]) {
				return
			}
		}
	}
}

// after yields the nodes following i, nearest first. End is always last.
func (b *builder) after(i int) iter.Seq2[int, node] {
	return func(yield func(int, node) bool) {
		for j := i + 1; j < len(b.nodes); j++ {
			if !yield(j, b.nodes[j]) {
				return
			}
		}
	}
}

// linkPredecessors draws an edge from every earlier node that newly covers
// one of i's registers, nearest first. Start occupies every register, so the
// scan always completes and Start fills any slot no real node covered.
func (b *builder) linkPredecessors(i int) {
	cov := newCoverage(b.nodes[i].wires)
	for j, prev := range b.before(i) {
		if cov.absorb(prev.occupancy) {
			b.adj[j][i] = true
		}
		if cov.complete() {
			return
		}
	}
}

// linkTerminal draws i → End when one of i's registers is not read by any
// later operation.
func (b *builder) linkTerminal(i int) {
	cov := newCoverage(b.nodes[i].wires)
	for j, next := range b.after(i) {
		if next.kind == gate.End {
			if !cov.complete() {
				b.adj[i][j] = true
			}
			return
		}
		cov.absorb(next.occupancy)
		if cov.complete() {
			return
		}
	}
}

// linkIdleRegisters draws Start → End when some register is never touched by
// an operation, which includes the empty program.
func (b *builder) linkIdleRegisters() {
	used := newWireSet(b.registers)
	for _, n := range b.nodes[1 : len(b.nodes)-1] {
		for _, w := range n.wires {
			used.add(w)
		}
	}
	if used.len() < b.registers {
		b.adj[0][len(b.nodes)-1] = true
	}
}

func cloneTrace(trace execution.Trace) execution.Trace {
	out := make(execution.Trace, len(trace))
	for i, e := range trace {
		out[i] = execution.Entry{Kind: e.Kind, Wires: slices.Clone(e.Wires)}
	}
	return out
}
