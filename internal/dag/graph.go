package dag

import (
	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
)

// ErrMalformedGateList is returned when a trace is not framed by Start and End
// or an entry's operand list disagrees with its kind.
var ErrMalformedGateList = execution.ErrMalformedGateList

// Graph is the dependency graph of one framed trace. Row 0 of every matrix is
// Start and the last row is End.
type Graph struct {
	Registers int `json:"registers"`
	// Nodes mirrors the framed trace. Sentinel entries carry no wires and
	// occupy every register.
	Nodes []execution.Entry `json:"nodes"`
	// Features holds one row per node: one-hot kind (catalog size K) followed
	// by register occupancy (Registers columns).
	Features [][]int `json:"features"`
	// Adjacency[u][v] is set when v consumes a register value produced by u.
	Adjacency [][]bool `json:"adjacency"`
}

// Edge is a directed dependency between two node indices.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Len is the number of nodes, sentinels included.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Kind returns the kind of node i.
func (g *Graph) Kind(i int) gate.Kind {
	return g.Nodes[i].Kind
}

// Touches reports whether node i occupies register w.
func (g *Graph) Touches(i, w int) bool {
	n := g.Nodes[i]
	if n.Kind.IsSentinel() {
		return true
	}
	for _, x := range n.Wires {
		if x == w {
			return true
		}
	}
	return false
}

// Edges lists all edges ordered by source, then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for u, row := range g.Adjacency {
		for v, set := range row {
			if set {
				edges = append(edges, Edge{From: u, To: v})
			}
		}
	}
	return edges
}

// Predecessors lists the nodes with an edge into i, in ascending order.
func (g *Graph) Predecessors(i int) []int {
	var out []int
	for u := range g.Adjacency {
		if g.Adjacency[u][i] {
			out = append(out, u)
		}
	}
	return out
}

// Successors lists the nodes i has an edge into, in ascending order.
func (g *Graph) Successors(i int) []int {
	var out []int
	for v, set := range g.Adjacency[i] {
		if set {
			out = append(out, v)
		}
	}
	return out
}

// AdjacencyInts returns the adjacency matrix with 0/1 entries.
func (g *Graph) AdjacencyInts() [][]int {
	out := make([][]int, len(g.Adjacency))
	for u, row := range g.Adjacency {
		out[u] = make([]int, len(row))
		for v, set := range row {
			if set {
				out[u][v] = 1
			}
		}
	}
	return out
}
