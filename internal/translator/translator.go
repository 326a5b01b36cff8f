package translator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/vk/circuitgraph/internal/circuit"
	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/gate"
	"github.com/vk/circuitgraph/internal/layer"
)

// ErrConfigMismatch is returned for encodings whose shape or values disagree
// with the declared registers and layers.
var ErrConfigMismatch = layer.ErrConfigMismatch

// NewSource returns a random source seeded deterministically from seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Translate emits the operation program for enc. A nil rng gets a fresh,
// call-local source.
func Translate(ctx context.Context, enc layer.Encoding, rng *rand.Rand) (circuit.Program, error) {
	logger := ctxlog.FromContext(ctx)
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	t := &translation{rng: rng, program: make(circuit.Program, 0, 2*enc.Registers*enc.Layers)}
	for l := range enc.Layers {
		for j := range enc.Registers {
			kind, err := localKind(enc.Upload[j][l], enc.Rotation[j][l])
			if err != nil {
				return nil, err
			}
			t.emit(kind, j)
		}
		for k := range enc.Registers {
			target := enc.Entangle[k][l] - 1
			if target == k {
				t.emit(gate.Rot, k)
			} else {
				t.emit(gate.CU3, k, target)
			}
		}
	}

	logger.Debug("Translated layer encoding.", "registers", enc.Registers, "layers", enc.Layers, "operations", len(t.program))
	return t.program, nil
}

// localKind maps the (upload, rotation) code of one register to its local
// rotation.
func localKind(upload, rotation int) (gate.Kind, error) {
	switch upload<<1 | rotation {
	case 0b00:
		return gate.Rot, nil
	case 0b01:
		return gate.RX, nil
	case 0b10:
		return gate.RY, nil
	case 0b11:
		return gate.RZ, nil
	default:
		return 0, fmt.Errorf("%w: local code (%d, %d)", ErrConfigMismatch, upload, rotation)
	}
}

type translation struct {
	rng     *rand.Rand
	program circuit.Program
}

func (t *translation) emit(kind gate.Kind, wires ...int) {
	params := make([]float64, kind.Params())
	for i := range params {
		params[i] = t.rng.Float64() * 2 * math.Pi
	}
	t.program = append(t.program, circuit.Operation{
		Kind:   kind,
		Index:  len(t.program),
		Wires:  wires,
		Params: params,
	})
}
