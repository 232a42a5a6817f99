package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// palette holds (cluster background, primary fill) pairs assigned to shard
// groups in name order.
var palette = [][2]string{
	{"#F0F6FF", "#AECBFA"},
	{"#E5F8F0", "#A3E5C7"},
	{"#FEF5E5", "#FADCA3"},
	{"#F5E5F4", "#DDA3D5"},
}

const (
	singletonFill = "#EAEAFB"
	clusterBorder = "#CCCCCC"
	edgeColor     = "#444444"
)

// DotRenderer serializes dependency graphs to Graphviz DOT source. Output is
// deterministic for a fixed graph: nodes, edges and clusters are emitted in
// sorted order.
type DotRenderer struct{}

// NewDotRenderer creates a new DotRenderer.
func NewDotRenderer() *DotRenderer {
	return &DotRenderer{}
}

// RenderDetailed renders the full instance graph: singletons as standalone
// boxes, sharded instances grouped into one cluster per replica, primaries
// highlighted with their group color. Clusters are derived from the per-node
// group and replica index metadata.
func (r *DotRenderer) RenderDetailed(graph *models.DependencyGraph) string {
	// group name -> replica index -> member instance IDs
	groups := make(map[string]map[int][]string)
	var singletons []string
	for _, id := range graph.NodeIDs() {
		node, _ := graph.Node(id)
		if !node.Sharded() {
			singletons = append(singletons, id)
			continue
		}
		if groups[node.Group] == nil {
			groups[node.Group] = make(map[int][]string)
		}
		groups[node.Group][node.Index] = append(groups[node.Group][node.Index], id)
	}

	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	colors := make(map[string][2]string, len(groupNames))
	for i, name := range groupNames {
		colors[name] = palette[i%len(palette)]
	}

	var b strings.Builder
	b.WriteString("digraph startup {\n")
	b.WriteString("  rankdir=TB;\n  splines=ortho;\n  nodesep=0.5;\n  ranksep=0.8;\n  fontname=\"Helvetica\";\n  compound=true;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=11];\n")
	fmt.Fprintf(&b, "  edge [arrowsize=0.8, color=%q];\n", edgeColor)

	for _, id := range singletons {
		node, _ := graph.Node(id)
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q, penwidth=1.5];\n", id, node.Logical, singletonFill)
	}

	for _, groupName := range groupNames {
		replicas := groups[groupName]
		indices := make([]int, 0, len(replicas))
		for index := range replicas {
			indices = append(indices, index)
		}
		sort.Ints(indices)

		groupColor := colors[groupName]
		for _, index := range indices {
			fmt.Fprintf(&b, "  subgraph \"cluster_%s_%d\" {\n", groupName, index)
			fmt.Fprintf(&b, "    label=\"%s-%d\";\n", groupName, index)
			fmt.Fprintf(&b, "    style=\"filled,rounded\";\n    fillcolor=%q;\n    color=%q;\n    fontsize=10;\n", groupColor[0], clusterBorder)

			members := replicas[index]
			sort.Strings(members)
			for _, id := range members {
				node, _ := graph.Node(id)
				label := fmt.Sprintf("%s-%d", node.Logical, node.Index)
				if node.Primary {
					fmt.Fprintf(&b, "    %q [label=%q, fillcolor=%q, penwidth=2.0];\n", id, label, groupColor[1])
				} else {
					fmt.Fprintf(&b, "    %q [label=%q, fillcolor=\"#FFFFFF\"];\n", id, label)
				}
			}
			b.WriteString("  }\n")
		}
	}

	writeEdges(&b, graph)
	b.WriteString("}\n")
	return b.String()
}

// RenderLogical renders the simplified logical component graph left to right,
// without clusters or replica detail.
func (r *DotRenderer) RenderLogical(graph *models.DependencyGraph) string {
	var b strings.Builder
	b.WriteString("digraph logical {\n")
	b.WriteString("  rankdir=LR;\n  fontname=\"Helvetica\";\n")
	fmt.Fprintf(&b, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, fontname=\"Helvetica\"];\n", singletonFill)
	b.WriteString("  edge [arrowsize=0.8];\n")

	for _, id := range graph.NodeIDs() {
		fmt.Fprintf(&b, "  %q;\n", id)
	}
	writeEdges(&b, graph)
	b.WriteString("}\n")
	return b.String()
}

func writeEdges(b *strings.Builder, graph *models.DependencyGraph) {
	edgeSet := graph.EdgeSet()
	edges := make([]models.Edge, 0, len(edgeSet))
	for edge := range edgeSet {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	for _, edge := range edges {
		fmt.Fprintf(b, "  %q -> %q;\n", edge.From, edge.To)
	}
}
