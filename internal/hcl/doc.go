// Package hcl provides the concrete HCL implementation of the configuration
// loading interface defined in the `config` package.
//
// Architecture files declare one `architecture "<name>"` block per layer
// encoding. An optional `locals` block per file declares values that the
// architecture blocks of that file can reference as `local.<name>`. Every
// expression is evaluated with a small set of cty standard library functions
// (range, concat, chunklist, flatten, ...) so that large code matrices can be
// generated instead of written out.
package hcl
