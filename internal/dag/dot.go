package dag

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz format. Nodes are labelled with their
// index, kind and operand registers.
func (g *Graph) DOT(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", name)
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")

	for i, n := range g.Nodes {
		if n.Kind.IsSentinel() {
			fmt.Fprintf(&sb, "  n%d [label=%q, shape=ellipse];\n", i, n.Kind.String())
			continue
		}
		fmt.Fprintf(&sb, "  n%d [label=%q];\n", i, fmt.Sprintf("%d: %s %v", i, n.Kind, n.Wires))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  n%d -> n%d;\n", e.From, e.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}
