package testutil

import (
	"math/rand/v2"

	"github.com/vk/circuitgraph/internal/execution"
	"github.com/vk/circuitgraph/internal/gate"
	"github.com/vk/circuitgraph/internal/layer"
)

// RandomEncoding draws a valid layer encoding of the given shape.
func RandomEncoding(rng *rand.Rand, registers, layers int) layer.Encoding {
	enc := layer.Encoding{
		Registers: registers,
		Layers:    layers,
		Upload:    make([][]int, registers),
		Rotation:  make([][]int, registers),
		Entangle:  make([][]int, registers),
	}
	for j := range registers {
		enc.Upload[j] = make([]int, layers)
		enc.Rotation[j] = make([]int, layers)
		enc.Entangle[j] = make([]int, layers)
		for l := range layers {
			enc.Upload[j][l] = rng.IntN(2)
			enc.Rotation[j][l] = rng.IntN(2)
			enc.Entangle[j][l] = 1 + rng.IntN(registers)
		}
	}
	return enc
}

// RandomTrace draws a framed trace of length operations over kinds. Kinds of
// arity 2 are skipped when registers < 2.
func RandomTrace(rng *rand.Rand, registers, length int, kinds []gate.Kind) execution.Trace {
	var pool []gate.Kind
	for _, k := range kinds {
		if k.Arity() <= registers {
			pool = append(pool, k)
		}
	}

	trace := execution.Trace{{Kind: gate.Start}}
	for range length {
		k := pool[rng.IntN(len(pool))]
		var wires []int
		switch k.Arity() {
		case 1:
			wires = []int{rng.IntN(registers)}
		case 2:
			perm := rng.Perm(registers)
			wires = []int{perm[0], perm[1]}
		}
		trace = append(trace, execution.Entry{Kind: k, Wires: wires})
	}
	return append(trace, execution.Entry{Kind: gate.End})
}
