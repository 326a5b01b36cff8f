// Package layer holds the compact, layer-indexed description of a circuit
// architecture: three integer matrices of shape registers × layers.
package layer

import (
	"errors"
	"fmt"
)

// ErrConfigMismatch is returned when an Encoding's matrices disagree with its
// declared dimensions or carry out-of-range codes.
var ErrConfigMismatch = errors.New("layer encoding does not match configuration")

// Encoding is an architecture template. Row j of each matrix belongs to
// register j, column l to layer l.
type Encoding struct {
	Registers int
	Layers    int

	// Upload and Rotation hold 0/1 codes selecting the local rotation.
	Upload   [][]int
	Rotation [][]int
	// Entangle holds 1-based target registers. A register targeting itself
	// gets a local rotation instead of a two-register operation.
	Entangle [][]int
}

// Validate checks shapes and value ranges.
func (e Encoding) Validate() error {
	if e.Registers <= 0 {
		return fmt.Errorf("%w: registers must be positive, got %d", ErrConfigMismatch, e.Registers)
	}
	if e.Layers < 0 {
		return fmt.Errorf("%w: layers must not be negative, got %d", ErrConfigMismatch, e.Layers)
	}
	for _, m := range []struct {
		name string
		rows [][]int
	}{
		{"upload", e.Upload},
		{"rotation", e.Rotation},
		{"entangle", e.Entangle},
	} {
		if err := e.checkShape(m.name, m.rows); err != nil {
			return err
		}
	}

	for j := range e.Registers {
		for l := range e.Layers {
			if c := e.Upload[j][l]; c != 0 && c != 1 {
				return fmt.Errorf("%w: upload[%d][%d] = %d, want 0 or 1", ErrConfigMismatch, j, l, c)
			}
			if c := e.Rotation[j][l]; c != 0 && c != 1 {
				return fmt.Errorf("%w: rotation[%d][%d] = %d, want 0 or 1", ErrConfigMismatch, j, l, c)
			}
			if t := e.Entangle[j][l]; t < 1 || t > e.Registers {
				return fmt.Errorf("%w: entangle[%d][%d] = %d, want a target in [1, %d]", ErrConfigMismatch, j, l, t, e.Registers)
			}
		}
	}
	return nil
}

func (e Encoding) checkShape(name string, rows [][]int) error {
	if len(rows) != e.Registers {
		return fmt.Errorf("%w: %s has %d rows, want %d registers", ErrConfigMismatch, name, len(rows), e.Registers)
	}
	for j, row := range rows {
		if len(row) != e.Layers {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d layers", ErrConfigMismatch, name, j, len(row), e.Layers)
		}
	}
	return nil
}

// FromInterleaved splits the flat "net" form, where rows arrive as
// (upload, rotation, entangle) triples per register, into an Encoding.
func FromInterleaved(net [][]int, registers, layers int) (Encoding, error) {
	if len(net) != 3*registers {
		return Encoding{}, fmt.Errorf("%w: interleaved encoding has %d rows, want %d (3 per register)", ErrConfigMismatch, len(net), 3*registers)
	}
	enc := Encoding{
		Registers: registers,
		Layers:    layers,
		Upload:    make([][]int, 0, registers),
		Rotation:  make([][]int, 0, registers),
		Entangle:  make([][]int, 0, registers),
	}
	for i := 0; i < len(net); i += 3 {
		enc.Upload = append(enc.Upload, net[i])
		enc.Rotation = append(enc.Rotation, net[i+1])
		enc.Entangle = append(enc.Entangle, net[i+2])
	}
	return enc, enc.Validate()
}

// Interleaved is the inverse of FromInterleaved.
func (e Encoding) Interleaved() [][]int {
	net := make([][]int, 0, 3*len(e.Upload))
	for j := range e.Upload {
		net = append(net, e.Upload[j], e.Rotation[j], e.Entangle[j])
	}
	return net
}
