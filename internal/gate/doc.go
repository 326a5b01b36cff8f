// Package gate defines the closed set of operation kinds a circuit program may
// contain and the catalog that one-hot encodes them for the graph encoder.
//
// A Kind carries its structural facts (operand register count, parameter
// count, canonical name). Adding a kind means extending the enumeration here
// and the two switches that need per-kind behavior: Arity/Params in this
// package and the code selection in package translator.
//
// A Catalog is built from an ordered list of allowed kinds and is read-only
// once constructed, so a single instance can be shared across goroutines.
package gate
