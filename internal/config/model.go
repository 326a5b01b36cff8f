package config

import (
	"fmt"

	"github.com/vk/circuitgraph/internal/gate"
	"github.com/vk/circuitgraph/internal/layer"
)

// Model is the unified, format-agnostic representation of every architecture
// declared across the loaded files.
type Model struct {
	Architectures []*Architecture
}

// Architecture is the format-agnostic representation of an `architecture`
// block: a layer encoding plus the settings needed to encode it.
type Architecture struct {
	Name      string
	Source    string
	Registers int
	Layers    int
	// AllowedKinds is the ordered operation pool. Empty means gate.DefaultAllowed.
	AllowedKinds []string
	// Seed fixes the parameter draws when set.
	Seed *uint64

	Upload   [][]int
	Rotation [][]int
	Entangle [][]int
	// Net is the interleaved alternative to the three matrices above.
	Net [][]int
}

// Lookup returns the architecture with the given name.
func (m *Model) Lookup(name string) (*Architecture, bool) {
	for _, a := range m.Architectures {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Encoding assembles and validates the layer encoding of the architecture.
func (a *Architecture) Encoding() (layer.Encoding, error) {
	if len(a.Net) > 0 {
		if len(a.Upload) > 0 || len(a.Rotation) > 0 || len(a.Entangle) > 0 {
			return layer.Encoding{}, fmt.Errorf("%w: architecture %q sets both net and per-matrix codes", layer.ErrConfigMismatch, a.Name)
		}
		enc, err := layer.FromInterleaved(a.Net, a.Registers, a.Layers)
		if err != nil {
			return layer.Encoding{}, fmt.Errorf("architecture %q: %w", a.Name, err)
		}
		return enc, nil
	}

	enc := layer.Encoding{
		Registers: a.Registers,
		Layers:    a.Layers,
		Upload:    a.Upload,
		Rotation:  a.Rotation,
		Entangle:  a.Entangle,
	}
	if err := enc.Validate(); err != nil {
		return layer.Encoding{}, fmt.Errorf("architecture %q: %w", a.Name, err)
	}
	return enc, nil
}

// Allowed parses the configured operation pool.
func (a *Architecture) Allowed() ([]gate.Kind, error) {
	if len(a.AllowedKinds) == 0 {
		return gate.DefaultAllowed, nil
	}
	kinds, err := gate.ParseKinds(a.AllowedKinds)
	if err != nil {
		return nil, fmt.Errorf("architecture %q: %w", a.Name, err)
	}
	return kinds, nil
}
