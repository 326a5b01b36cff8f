// Package dag builds the dependency graph of a scheduled circuit program.
//
// The input is an execution trace framed by the Start and End sentinels. The
// output is a Graph with one node per trace entry: row 0 is Start, the last
// row is End, and the rows in between follow trace order. Each node has a
// feature vector (one-hot kind ⧺ register occupancy) and the adjacency matrix
// records "value produced here is consumed there" edges.
//
// Emission order is not dependency order. Build recovers dependencies purely
// from shared register usage:
//
//   - Predecessors: scanning earlier nodes in reverse, an edge is drawn from
//     every node that first covers one of the operation's registers. Start
//     spans every register, so it picks up whatever no real node covered. A
//     two-register operation with a single real ancestor therefore gets both
//     that edge and an edge from Start.
//   - Successors into End: scanning later nodes forward, an edge to End is
//     drawn when at least one of the operation's registers is never read
//     again before End.
//
// Both scans share one coverage accumulator type and walk the node list
// through iterators, so each tie-break rule can be tested on its own.
package dag
