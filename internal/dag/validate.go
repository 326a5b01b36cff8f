package dag

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of a built graph:
//   - matrix shapes agree with the node list;
//   - the graph is acyclic;
//   - every node but Start has an incoming edge and every node but End an
//     outgoing one;
//   - for every register, consecutive nodes touching it are linked, so the
//     register's nodes form a path from Start to End in trace order;
//   - every other edge is justified by register usage.
func (g *Graph) Validate() error {
	n := len(g.Nodes)
	if n < 2 {
		return errors.New("graph must contain at least the two sentinels")
	}
	if len(g.Adjacency) != n || len(g.Features) != n {
		return fmt.Errorf("matrix rows disagree with %d nodes", n)
	}
	for u, row := range g.Adjacency {
		if len(row) != n {
			return fmt.Errorf("adjacency row %d has %d columns, want %d", u, len(row), n)
		}
	}

	if err := g.detectCycles(); err != nil {
		return err
	}

	for i := range n {
		if i > 0 && len(g.Predecessors(i)) == 0 {
			return fmt.Errorf("node %d (%s) has no incoming edge", i, g.Kind(i))
		}
		if i < n-1 && len(g.Successors(i)) == 0 {
			return fmt.Errorf("node %d (%s) has no outgoing edge", i, g.Kind(i))
		}
	}

	for w := range g.Registers {
		chain := g.registerChain(w)
		for k := 1; k < len(chain); k++ {
			if !g.Adjacency[chain[k-1]][chain[k]] {
				return fmt.Errorf("register %d: missing edge %d -> %d", w, chain[k-1], chain[k])
			}
		}
	}

	for _, e := range g.Edges() {
		if !g.justified(e) {
			return fmt.Errorf("edge %d -> %d is not backed by a shared register", e.From, e.To)
		}
	}
	return nil
}

// registerChain lists, in trace order, the nodes touching register w.
func (g *Graph) registerChain(w int) []int {
	var chain []int
	for i := range g.Nodes {
		if g.Touches(i, w) {
			chain = append(chain, i)
		}
	}
	return chain
}

// justified reports whether some register is touched by both endpoints and by
// no interior node strictly between them.
func (g *Graph) justified(e Edge) bool {
	if e.From >= e.To {
		return false
	}
	for w := range g.Registers {
		if !g.Touches(e.From, w) || !g.Touches(e.To, w) {
			continue
		}
		adjacent := true
		for k := e.From + 1; k < e.To; k++ {
			if g.Touches(k, w) {
				adjacent = false
				break
			}
		}
		if adjacent {
			return true
		}
	}
	return false
}

// detectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) detectCycles() error {
	visiting := make([]bool, len(g.Nodes))
	visited := make([]bool, len(g.Nodes))

	var visit func(u int) error
	visit = func(u int) error {
		visiting[u] = true
		for _, v := range g.Successors(u) {
			if visiting[v] {
				return fmt.Errorf("cycle detected involving node %d", v)
			}
			if !visited[v] {
				if err := visit(v); err != nil {
					return err
				}
			}
		}
		visiting[u] = false
		visited[u] = true
		return nil
	}

	for u := range g.Nodes {
		if !visited[u] {
			if err := visit(u); err != nil {
				return err
			}
		}
	}
	return nil
}
