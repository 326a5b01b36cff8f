// Package sink writes encoded architectures to their destinations: JSON
// lines, Graphviz files and a socket.io publisher for downstream consumers.
package sink

import (
	"context"
	"errors"

	"github.com/vk/circuitgraph/internal/circuit"
	"github.com/vk/circuitgraph/internal/dag"
	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
)

// Record is one encoded architecture.
type Record struct {
	Name       string
	Vocabulary []gate.Kind
	Program    circuit.Program
	Graph      *dag.Graph
}

// Payload is the serialized form of a Record. Adjacency is written as 0/1
// integers so that it can be loaded as a matrix directly.
type Payload struct {
	Name       string            `json:"name"`
	Registers  int               `json:"registers"`
	Vocabulary []gate.Kind       `json:"vocabulary"`
	Program    circuit.Program   `json:"program"`
	Nodes      []execution.Entry `json:"nodes"`
	Features   [][]int           `json:"features"`
	Adjacency  [][]int           `json:"adjacency"`
	Edges      []dag.Edge        `json:"edges"`
}

// Payload builds the serialized form of the record.
func (r *Record) Payload() Payload {
	return Payload{
		Name:       r.Name,
		Registers:  r.Graph.Registers,
		Vocabulary: r.Vocabulary,
		Program:    r.Program,
		Nodes:      r.Graph.Nodes,
		Features:   r.Graph.Features,
		Adjacency:  r.Graph.AdjacencyInts(),
		Edges:      r.Graph.Edges(),
	}
}

// Sink receives encoded architectures. Implementations must be safe for
// concurrent use.
type Sink interface {
	Write(ctx context.Context, rec *Record) error
	Close() error
}

// Multi fans every record out to all of its sinks in order.
type Multi []Sink

// Write stops at the first failing sink.
func (m Multi) Write(ctx context.Context, rec *Record) error {
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
