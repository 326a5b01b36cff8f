// Package execution is the boundary between an operation program and the
// engine that runs it. An Adapter reports, in the order the engine schedules
// them, the kind and ordered operand registers of every operation. The
// dependency graph builder consumes that trace and nothing else.
//
// Two adapters ship with the package: Tape, which schedules operations in
// program order, and Moments, which packs operations into as-soon-as-possible
// moments the way a circuit scheduler would. Both preserve per-register order,
// which is all the builder relies on.
package execution
