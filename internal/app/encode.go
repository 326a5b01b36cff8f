package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/vk/circuitgraph/internal/circuit"
	"github.com/vk/circuitgraph/internal/dag"
	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
	"github.com/vk/circuitgraph/internal/layer"
	"github.com/vk/circuitgraph/internal/translator"
)

// EncodeOptions configures one run of the pipeline. The zero value uses the
// default vocabulary, a fresh random source and the tape adapter.
type EncodeOptions struct {
	Catalog *gate.Catalog
	Rand    *rand.Rand
	Adapter execution.Adapter
}

// Result holds every intermediate product of one encoding.
type Result struct {
	Program circuit.Program
	Trace   execution.Trace
	Graph   *dag.Graph
}

// Encode translates enc, runs the program through the adapter, frames the
// reported trace and builds its dependency graph.
func Encode(ctx context.Context, enc layer.Encoding, opts EncodeOptions) (*Result, error) {
	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = gate.NewCatalog(gate.DefaultAllowed); err != nil {
			return nil, err
		}
	}
	adapter := opts.Adapter
	if adapter == nil {
		adapter = execution.NewTape(enc.Registers, cat)
	}

	program, err := translator.Translate(ctx, enc, opts.Rand)
	if err != nil {
		return nil, fmt.Errorf("failed to translate encoding: %w", err)
	}
	trace, err := adapter.Execute(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("failed to execute program: %w", err)
	}
	trace = execution.Frame(trace)

	graph, err := dag.Build(ctx, trace, cat, enc.Registers)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	return &Result{Program: program, Trace: trace, Graph: graph}, nil
}
