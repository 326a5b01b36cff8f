// Package integrationtests runs the whole pipeline end to end: HCL files on
// disk are loaded, encoded and written through the real sinks.
package integrationtests
