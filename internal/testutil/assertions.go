package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
)

func touches(e execution.Entry, w int) bool {
	return e.Kind.IsSentinel() || slices.Contains(e.Wires, w)
}

// RequireAcyclic fails the test if adj contains a cycle. It uses Kahn's
// algorithm so it shares no code with the builder's own DFS check.
func RequireAcyclic(t *testing.T, adj [][]bool) {
	t.Helper()

	n := len(adj)
	indegree := make([]int, n)
	for u := range n {
		for v := range n {
			if adj[u][v] {
				indegree[v]++
			}
		}
	}
	var queue []int
	for v, d := range indegree {
		if d == 0 {
			queue = append(queue, v)
		}
	}
	seen := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		seen++
		for v := range n {
			if adj[u][v] {
				indegree[v]--
				if indegree[v] == 0 {
					queue = append(queue, v)
				}
			}
		}
	}
	require.Equal(t, n, seen, "adjacency matrix contains a cycle")
}

// RequireDegreeInvariants checks that every node but the first has an
// incoming edge and every node but the last has an outgoing edge.
func RequireDegreeInvariants(t *testing.T, adj [][]bool) {
	t.Helper()

	n := len(adj)
	for i := range n {
		in, out := 0, 0
		for j := range n {
			if adj[j][i] {
				in++
			}
			if adj[i][j] {
				out++
			}
		}
		if i > 0 {
			require.Positive(t, in, "node %d has no incoming edge", i)
		}
		if i < n-1 {
			require.Positive(t, out, "node %d has no outgoing edge", i)
		}
	}
}

// RequireRegisterPaths checks that, for every register, the nodes touching it
// are chained in trace order from Start to End, and that no edge between two
// operations skips over a node touching all of their shared registers.
func RequireRegisterPaths(t *testing.T, adj [][]bool, nodes execution.Trace, registers int) {
	t.Helper()

	require.Len(t, adj, len(nodes))
	require.Equal(t, gate.Start, nodes[0].Kind)
	require.Equal(t, gate.End, nodes[len(nodes)-1].Kind)

	for w := range registers {
		prev := 0
		for i := 1; i < len(nodes); i++ {
			if !touches(nodes[i], w) {
				continue
			}
			require.True(t, adj[prev][i], "register %d: expected edge %d -> %d", w, prev, i)
			prev = i
		}
		require.Equal(t, len(nodes)-1, prev, "register %d chain does not end at End", w)
	}

	for u := 1; u < len(nodes)-1; u++ {
		for v := 1; v < len(nodes)-1; v++ {
			if !adj[u][v] {
				continue
			}
			require.Less(t, u, v, "edge %d -> %d runs against trace order", u, v)
			ok := false
			for _, w := range nodes[u].Wires {
				if !slices.Contains(nodes[v].Wires, w) {
					continue
				}
				skipped := false
				for k := u + 1; k < v; k++ {
					if touches(nodes[k], w) {
						skipped = true
						break
					}
				}
				if !skipped {
					ok = true
				}
			}
			require.True(t, ok, "edge %d -> %d is not a nearest shared-register link", u, v)
		}
	}
}

// RequireGraphInvariants runs every structural check.
func RequireGraphInvariants(t *testing.T, adj [][]bool, nodes execution.Trace, registers int) {
	t.Helper()
	RequireAcyclic(t, adj)
	RequireDegreeInvariants(t, adj)
	RequireRegisterPaths(t, adj, nodes, registers)
}
