// Package testutil holds helpers shared by the package tests: random
// encodings and traces, invariant assertions over dependency matrices, and a
// thread-safe log buffer. It only depends on the leaf packages so any package
// test can import it.
package testutil
