package crossref

import (
	"fmt"
	"strings"

	"github.com/chadrwalters/nova-sub004/internal/util"
)

// ExportDOT renders the reference graph as a Graphviz DOT digraph for
// visualization tooling. Nodes are labeled with the file basename and edges
// with the reference kind. Both sections follow insertion order, so the
// output is deterministic.
func (t *Tracker) ExportDOT() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("digraph references {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box];\n")
	sb.WriteString("\n")

	for _, node := range t.graph.nodes {
		sb.WriteString(fmt.Sprintf("    %q [label=%q];\n", node, util.Basename(node)))
	}
	if t.graph.edgeCount() > 0 {
		sb.WriteString("\n")
	}
	for _, key := range t.graph.edgeList {
		sb.WriteString(fmt.Sprintf("    %q -> %q [label=%q];\n",
			key.source, key.target, string(t.graph.edges[key].kind)))
	}

	sb.WriteString("}\n")
	return sb.String()
}
