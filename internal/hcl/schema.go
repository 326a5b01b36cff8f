package hcl

import "github.com/hashicorp/hcl/v2"

// localsRoot is the first decoding pass: it peels the `locals` blocks off a
// file and leaves everything else in Remain.
type localsRoot struct {
	Locals []*localsBlock `hcl:"locals,block"`
	Remain hcl.Body       `hcl:",remain"`
}

type localsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// fileRoot is the second decoding pass over the remaining top-level blocks.
type fileRoot struct {
	Architectures []*architectureBlock `hcl:"architecture,block"`
}

// architectureBlock maps directly to the `architecture "<name>" {}` block.
type architectureBlock struct {
	Name         string   `hcl:"name,label"`
	Registers    int      `hcl:"registers"`
	Layers       int      `hcl:"layers"`
	AllowedKinds []string `hcl:"allowed_kinds,optional"`
	Seed         *int64   `hcl:"seed,optional"`
	Upload       [][]int  `hcl:"upload,optional"`
	Rotation     [][]int  `hcl:"rotation,optional"`
	Entangle     [][]int  `hcl:"entangle,optional"`
	Net          [][]int  `hcl:"net,optional"`
}
