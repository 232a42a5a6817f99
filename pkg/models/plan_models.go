package models

import (
	"fmt"
	"sort"
	"time"
)

// SingletonIndex is the replica index carried by instances that did not come
// from a shard group.
const SingletonIndex = -1

// ShardedID composes the identifier of a sharded instance from its group
// name, component logical name and replica index. Singleton identifiers are
// simply the logical name, so the two namespaces only collide when a
// singleton is literally named like a composed sharded identifier; the
// expander rejects that case.
func ShardedID(group, logical string, index int) string {
	return fmt.Sprintf("%s-%s-%d", group, logical, index)
}

// ServiceInstance is one concrete node of the expanded topology. Instances
// are created during expansion and never mutated afterward.
type ServiceInstance struct {
	ID      string                 // Unique across the expanded set
	Logical string                 // Originating spec name
	Group   string                 // Owning shard group, empty for singletons
	Index   int                    // Replica index, SingletonIndex for singletons
	Command string                 // Start command with $INDEX substituted
	Primary bool                   // Sharded instance whose logical name equals its group
	Meta    map[string]interface{} // Opaque descriptive attributes
}

// Sharded reports whether the instance came from a shard group.
func (i *ServiceInstance) Sharded() bool {
	return i.Group != ""
}

// Edge is a "From must be running before To starts" constraint between two
// instance identifiers.
type Edge struct {
	From string
	To   string
}

// DependencyGraph is an immutable directed graph over service instance
// identifiers. The stored edge list may contain duplicates; EdgeSet is the
// deduplicated view that resolution must order by.
type DependencyGraph struct {
	nodes map[string]*ServiceInstance
	edges []Edge
}

// NewDependencyGraph builds a graph value from an instance set and edge list.
// The inputs are copied so the graph cannot be mutated through them.
func NewDependencyGraph(instances []*ServiceInstance, edges []Edge) *DependencyGraph {
	nodes := make(map[string]*ServiceInstance, len(instances))
	for _, instance := range instances {
		nodes[instance.ID] = instance
	}
	copied := make([]Edge, len(edges))
	copy(copied, edges)
	return &DependencyGraph{nodes: nodes, edges: copied}
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Node returns the instance behind an identifier.
func (g *DependencyGraph) Node(id string) (*ServiceInstance, bool) {
	instance, ok := g.nodes[id]
	return instance, ok
}

// NodeIDs returns all node identifiers in lexicographic order.
func (g *DependencyGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns a copy of the edge list as declared, duplicates included.
func (g *DependencyGraph) Edges() []Edge {
	copied := make([]Edge, len(g.edges))
	copy(copied, g.edges)
	return copied
}

// EdgeSet returns the deduplicated edge set.
func (g *DependencyGraph) EdgeSet() map[Edge]struct{} {
	set := make(map[Edge]struct{}, len(g.edges))
	for _, edge := range g.edges {
		set[edge] = struct{}{}
	}
	return set
}

// HasEdge reports whether the graph contains the given constraint.
func (g *DependencyGraph) HasEdge(from, to string) bool {
	for _, edge := range g.edges {
		if edge.From == from && edge.To == to {
			return true
		}
	}
	return false
}

// StartupPlan is the result of one resolution run over a topology.
type StartupPlan struct {
	RunID     string           // Unique identifier of the resolution run
	Topology  string           // Name of the resolved topology
	CreatedAt time.Time        // When the plan was computed
	Order     []string         // Instance identifiers in startup order
	Graph     *DependencyGraph // The graph the order was derived from
}
