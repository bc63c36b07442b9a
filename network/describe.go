package network

import (
	"fmt"
	"io"
	"strings"
)

// Describe writes a human-readable dump of the network: every node with its
// role, adjacency and probabilities.
func (n *Network[V]) Describe(w io.Writer) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var b strings.Builder
	b.WriteString("--------------------\n")
	b.WriteString("| Bayesian Network |\n")
	b.WriteString("--------------------\n")
	fmt.Fprintf(&b, "domain: %v\n\n", n.domain)

	for _, nd := range n.nodes {
		fmt.Fprintf(&b, "%d: %s (%s)\n", nd.ID, nd.Name, nd.Role)
		if nd.Prior != nil {
			fmt.Fprintf(&b, "  prior: %s\n", n.formatDist(nd.Prior))
		}
		if len(nd.Parents) > 0 {
			fmt.Fprintf(&b, "  parents: %s\n", n.formatIDs(nd.Parents))
		}
		if nd.CPT != nil {
			key := make([]int, nd.CPT.Arity())
			for i := range nd.CPT.Len() {
				row := nd.CPT.Row(i)
				if row == nil {
					continue
				}
				nd.CPT.Key(i, key)
				fmt.Fprintf(&b, "    %v -> %s\n", n.values(key), n.formatDist(row))
			}
		}
		if len(nd.Children) > 0 {
			fmt.Fprintf(&b, "  children: %s\n", n.formatIDs(nd.Children))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (n *Network[V]) formatDist(dist []float64) string {
	parts := make([]string, len(dist))
	for i, p := range dist {
		parts[i] = fmt.Sprintf("%v: %g", n.domain[i], p)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (n *Network[V]) formatIDs(ids []int) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = n.nodes[id].Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
