package hcl

import (
	"fmt"

	"github.com/vk/circuitgraph/internal/config"
)

// translateArchitecture converts the HCL-specific block into the
// format-agnostic config.Architecture.
func translateArchitecture(b *architectureBlock, source string) (*config.Architecture, error) {
	arch := &config.Architecture{
		Name:         b.Name,
		Source:       source,
		Registers:    b.Registers,
		Layers:       b.Layers,
		AllowedKinds: b.AllowedKinds,
		Upload:       b.Upload,
		Rotation:     b.Rotation,
		Entangle:     b.Entangle,
		Net:          b.Net,
	}
	if b.Seed != nil {
		if *b.Seed < 0 {
			return nil, fmt.Errorf("architecture %q in %s: seed must not be negative, got %d", b.Name, source, *b.Seed)
		}
		seed := uint64(*b.Seed)
		arch.Seed = &seed
	}
	return arch, nil
}
