// Package translator turns a layer encoding into an operation program.
//
// Each layer contributes a local stage (one single-register rotation per
// register, selected by the 2-bit upload/rotation code) followed by an
// entangling stage (one operation per register, controlled by its entangle
// target). The resulting emission order is canonical but does not imply data
// dependency; package dag recovers the real dependencies from register usage.
//
// Parameter values are drawn uniformly from [0, 2π) using the random source
// passed by the caller, so structure is deterministic and values are not.
package translator
