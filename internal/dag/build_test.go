package dag

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
	"github.com/vk/circuitgraph/internal/layer"
	"github.com/vk/circuitgraph/internal/testutil"
	"github.com/vk/circuitgraph/internal/translator"
)

var (
	start = execution.Entry{Kind: gate.Start}
	end   = execution.Entry{Kind: gate.End}
)

func op(k gate.Kind, wires ...int) execution.Entry {
	return execution.Entry{Kind: k, Wires: wires}
}

func defaultCatalog(t *testing.T) *gate.Catalog {
	t.Helper()
	cat, err := gate.NewCatalog(gate.DefaultAllowed)
	require.NoError(t, err)
	return cat
}

func requireEdges(t *testing.T, g *Graph, expected ...Edge) {
	t.Helper()
	assert.ElementsMatch(t, expected, g.Edges())
}

func TestBuild_TwoRegisterScenario(t *testing.T) {
	t.Parallel()

	// Rot(0), RZ(1), C(U3)(0,1), C(U3)(1,0): the layer translated from
	// upload=[[0],[1]], rotation=[[0],[1]], entangle=[[2],[1]].
	trace := execution.Trace{start, op(gate.Rot, 0), op(gate.RZ, 1), op(gate.CU3, 0, 1), op(gate.CU3, 1, 0), end}

	g, err := Build(context.Background(), trace, defaultCatalog(t), 2)
	require.NoError(t, err)

	require.Equal(t, 6, g.Len())
	requireEdges(t, g,
		Edge{0, 1}, Edge{0, 2},
		Edge{2, 3}, Edge{1, 3},
		// The second C(U3) finds both registers on the first one.
		Edge{3, 4},
		Edge{4, 5},
	)

	// Vocabulary: START Identity RX RY RZ Rot C(U3) END, then 2 registers.
	assert.Equal(t, [][]int{
		{1, 0, 0, 0, 0, 0, 0, 0, 1, 1},
		{0, 0, 0, 0, 0, 1, 0, 0, 1, 0},
		{0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 1, 0, 1, 1},
		{0, 0, 0, 0, 0, 0, 1, 0, 1, 1},
		{0, 0, 0, 0, 0, 0, 0, 1, 1, 1},
	}, g.Features)
}

func TestBuild_ScenarioFromTranslator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	enc := layer.Encoding{
		Registers: 2,
		Layers:    1,
		Upload:    [][]int{{0}, {1}},
		Rotation:  [][]int{{0}, {1}},
		Entangle:  [][]int{{2}, {1}},
	}
	program, err := translator.Translate(ctx, enc, nil)
	require.NoError(t, err)
	trace, err := execution.NewTape(2, nil).Execute(ctx, program)
	require.NoError(t, err)

	g, err := Build(ctx, execution.Frame(trace), defaultCatalog(t), 2)
	require.NoError(t, err)

	assert.True(t, g.Adjacency[0][1], "Start -> op0")
	assert.True(t, g.Adjacency[0][2], "Start -> op1")
	assert.True(t, g.Adjacency[1][3], "op0 -> op2")
	assert.True(t, g.Adjacency[2][3], "op1 -> op2")
	assert.True(t, g.Adjacency[3][4], "op2 -> op3")
	assert.True(t, g.Adjacency[4][5], "op3 -> End")
	testutil.RequireGraphInvariants(t, g.Adjacency, g.Nodes, 2)
}

func TestBuild_SingleRealPredecessorKeepsStartEdge(t *testing.T) {
	t.Parallel()

	trace := execution.Trace{start, op(gate.RX, 1), op(gate.CU3, 0, 1), end}
	g, err := Build(context.Background(), trace, defaultCatalog(t), 2)
	require.NoError(t, err)

	// C(U3) reads register 1 from RX and register 0 from Start.
	requireEdges(t, g, Edge{0, 1}, Edge{1, 2}, Edge{0, 2}, Edge{2, 3})
	assert.Equal(t, []int{0, 1}, g.Predecessors(2))
}

func TestBuild_NoRealPredecessorDrawsSingleStartEdge(t *testing.T) {
	t.Parallel()

	trace := execution.Trace{start, op(gate.CU3, 1, 0), end}
	g, err := Build(context.Background(), trace, defaultCatalog(t), 2)
	require.NoError(t, err)

	requireEdges(t, g, Edge{0, 1}, Edge{1, 2})
}

func TestBuild_NearestPredecessorPerRegister(t *testing.T) {
	t.Parallel()

	trace := execution.Trace{
		start,
		op(gate.RX, 0),     // 1
		op(gate.RY, 1),     // 2
		op(gate.RZ, 0),     // 3
		op(gate.CU3, 1, 2), // 4
		op(gate.CU3, 0, 1), // 5
		end,                // 6
	}
	g, err := Build(context.Background(), trace, defaultCatalog(t), 3)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, g.Predecessors(1))
	assert.Equal(t, []int{0}, g.Predecessors(2))
	assert.Equal(t, []int{1}, g.Predecessors(3))
	// Register 1 from RY, register 2 from Start.
	assert.Equal(t, []int{0, 2}, g.Predecessors(4))
	// Register 1 from C(U3)(1,2), register 0 from RZ.
	assert.Equal(t, []int{3, 4}, g.Predecessors(5))
	testutil.RequireGraphInvariants(t, g.Adjacency, g.Nodes, 3)
}

func TestBuild_TerminalEdges(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		trace    execution.Trace
		expected []Edge
	}{
		{
			name:     "two-register operation with one register read later",
			trace:    execution.Trace{start, op(gate.CU3, 0, 1), op(gate.RX, 1), end},
			expected: []Edge{{0, 1}, {1, 2}, {1, 3}, {2, 3}},
		},
		{
			name:     "two-register operation fully consumed",
			trace:    execution.Trace{start, op(gate.CU3, 0, 1), op(gate.RX, 1), op(gate.RY, 0), end},
			expected: []Edge{{0, 1}, {1, 2}, {1, 3}, {2, 4}, {3, 4}},
		},
		{
			name:  "single-register operation overwritten later",
			trace: execution.Trace{start, op(gate.RX, 0), op(gate.RY, 0), end},
			// Register 1 is never used, so Start also feeds End directly.
			expected: []Edge{{0, 1}, {1, 2}, {2, 3}, {0, 3}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Build(context.Background(), tc.trace, defaultCatalog(t), 2)
			require.NoError(t, err)
			requireEdges(t, g, tc.expected...)
		})
	}
}

func TestBuild_EmptyProgram(t *testing.T) {
	t.Parallel()

	g, err := Build(context.Background(), execution.Trace{start, end}, defaultCatalog(t), 3)
	require.NoError(t, err)

	require.Equal(t, 2, g.Len())
	requireEdges(t, g, Edge{0, 1})
	assert.Equal(t, [][]int{
		{1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1},
		{0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1},
	}, g.Features)
}

func TestBuild_IdleRegisterLinksStartToEnd(t *testing.T) {
	t.Parallel()

	g, err := Build(context.Background(), execution.Trace{start, op(gate.RX, 0), end}, defaultCatalog(t), 3)
	require.NoError(t, err)
	requireEdges(t, g, Edge{0, 1}, Edge{1, 2}, Edge{0, 2})
}

func TestBuild_MalformedGateList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		trace     execution.Trace
		expectErr string
	}{
		{name: "empty trace", trace: execution.Trace{}, expectErr: "must open with START"},
		{name: "missing leading start", trace: execution.Trace{op(gate.RX, 0), end}, expectErr: "must open with START"},
		{name: "missing trailing end", trace: execution.Trace{start, op(gate.RX, 0)}, expectErr: "must close with END"},
		{name: "start only", trace: execution.Trace{start}, expectErr: "must close with END"},
		{name: "sentinel inside", trace: execution.Trace{start, end, op(gate.RX, 0), end}, expectErr: "END is not an operation"},
		{name: "two-register operation with one operand", trace: execution.Trace{start, op(gate.CU3, 0), end}, expectErr: "acts on 2 registers"},
		{name: "two-register operation with three operands", trace: execution.Trace{start, op(gate.CNOT, 0, 1, 0), end}, expectErr: "acts on 2 registers"},
		{name: "operand out of range", trace: execution.Trace{start, op(gate.RX, 2), end}, expectErr: "outside [0, 2)"},
		{name: "repeated operand", trace: execution.Trace{start, op(gate.CZ, 1, 1), end}, expectErr: "uses register 1 twice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Build(context.Background(), tc.trace, defaultCatalog(t), 2)
			require.ErrorIs(t, err, ErrMalformedGateList)
			assert.Contains(t, err.Error(), tc.expectErr)
			assert.Nil(t, g)
		})
	}
}

func TestBuild_UnknownGateKind(t *testing.T) {
	t.Parallel()

	cat, err := gate.NewCatalog([]gate.Kind{gate.Identity, gate.RX, gate.RY, gate.RZ, gate.CU3})
	require.NoError(t, err)

	_, err = Build(context.Background(), execution.Trace{start, op(gate.Rot, 0), end}, cat, 1)
	require.ErrorIs(t, err, gate.ErrUnknownGateKind)
	assert.Contains(t, err.Error(), "node 1")
}

func TestBuild_RequiresCatalogAndRegisters(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), execution.Trace{start, end}, nil, 1)
	require.Error(t, err)

	_, err = Build(context.Background(), execution.Trace{start, end}, defaultCatalog(t), 0)
	require.ErrorIs(t, err, ErrMalformedGateList)
}

func TestBuild_DoesNotAliasTrace(t *testing.T) {
	t.Parallel()

	trace := execution.Trace{start, op(gate.CU3, 0, 1), end}
	g, err := Build(context.Background(), trace, defaultCatalog(t), 2)
	require.NoError(t, err)

	trace[1].Wires[0] = 1
	assert.Equal(t, []int{0, 1}, g.Nodes[1].Wires)
}

func TestBuild_RandomTracesSatisfyInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(21, 22))
	kinds := []gate.Kind{gate.Identity, gate.RX, gate.RY, gate.RZ, gate.Rot, gate.U3, gate.Hadamard, gate.CU3, gate.CNOT, gate.CZ, gate.SWAP}
	cat, err := gate.NewCatalog(kinds)
	require.NoError(t, err)

	for range 200 {
		registers := 1 + rng.IntN(6)
		trace := testutil.RandomTrace(rng, registers, rng.IntN(30), kinds)

		g, err := Build(context.Background(), trace, cat, registers)
		require.NoError(t, err)
		require.Len(t, g.Features, len(trace))
		for _, row := range g.Features {
			require.Len(t, row, cat.Size()+registers)
		}
		testutil.RequireGraphInvariants(t, g.Adjacency, g.Nodes, registers)
	}
}

func TestBuild_TranslatedProgramsSatisfyInvariants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rng := rand.New(rand.NewPCG(31, 32))
	cat := defaultCatalog(t)
	for range 100 {
		registers := 1 + rng.IntN(5)
		layers := rng.IntN(4)
		enc := testutil.RandomEncoding(rng, registers, layers)

		program, err := translator.Translate(ctx, enc, rng)
		require.NoError(t, err)
		trace, err := execution.NewTape(registers, cat).Execute(ctx, program)
		require.NoError(t, err)

		g, err := Build(ctx, execution.Frame(trace), cat, registers)
		require.NoError(t, err)
		require.Equal(t, 2*registers*layers+2, g.Len())
		testutil.RequireGraphInvariants(t, g.Adjacency, g.Nodes, registers)
	}
}

func TestBuild_ScheduleDoesNotChangeDependencies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rng := rand.New(rand.NewPCG(41, 42))
	cat := defaultCatalog(t)
	for range 50 {
		registers := 2 + rng.IntN(4)
		enc := testutil.RandomEncoding(rng, registers, 1+rng.IntN(3))
		program, err := translator.Translate(ctx, enc, rng)
		require.NoError(t, err)

		tape, err := execution.NewTape(registers, cat).Execute(ctx, program)
		require.NoError(t, err)
		moments, err := execution.NewMoments(registers, cat).Execute(ctx, program)
		require.NoError(t, err)

		a, err := Build(ctx, execution.Frame(tape), cat, registers)
		require.NoError(t, err)
		b, err := Build(ctx, execution.Frame(moments), cat, registers)
		require.NoError(t, err)

		assert.Len(t, b.Edges(), len(a.Edges()))
		testutil.RequireGraphInvariants(t, b.Adjacency, b.Nodes, registers)
	}
}

func TestBuild_ConcurrentCallsShareCatalog(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	trace := execution.Trace{start, op(gate.Rot, 0), op(gate.RZ, 1), op(gate.CU3, 0, 1), op(gate.CU3, 1, 0), end}
	expected, err := Build(context.Background(), trace, cat, 2)
	require.NoError(t, err)

	results := make(chan *Graph, 16)
	for range cap(results) {
		go func() {
			g, err := Build(context.Background(), trace, cat, 2)
			assert.NoError(t, err)
			results <- g
		}()
	}
	for range cap(results) {
		assert.Equal(t, expected, <-results)
	}
}
