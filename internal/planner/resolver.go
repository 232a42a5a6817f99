package planner

import (
	"sort"

	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// ResolverInterface defines the method for computing a startup order.
type ResolverInterface interface {
	Resolve(graph *models.DependencyGraph) ([]string, error) // Computes a total startup order or fails on a cycle.
}

// Resolver computes a deterministic topological order of a dependency graph
// using Kahn's algorithm. Ties between ready nodes are broken by lexicographic
// identifier order, so the same graph always resolves to the same sequence.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns a permutation of the graph's node identifiers in which the
// source of every edge appears strictly before its target. Duplicate edges
// are collapsed before counting in-degrees. When the graph is cyclic no
// partial order is returned; the CycleError names one concrete cycle.
func (r *Resolver) Resolve(graph *models.DependencyGraph) ([]string, error) {
	edgeSet := graph.EdgeSet()

	inDegree := make(map[string]int, graph.Len())
	for _, id := range graph.NodeIDs() {
		inDegree[id] = 0
	}
	successors := make(map[string][]string)
	for edge := range edgeSet {
		if _, ok := graph.Node(edge.From); !ok {
			return nil, NewConfigurationError("edge references unknown instance %q", edge.From)
		}
		if _, ok := graph.Node(edge.To); !ok {
			return nil, NewConfigurationError("edge references unknown instance %q", edge.To)
		}
		successors[edge.From] = append(successors[edge.From], edge.To)
		inDegree[edge.To]++
	}

	var ready []string
	for _, id := range graph.NodeIDs() {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, graph.Len())
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		released := false
		for _, succ := range successors[next] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) < graph.Len() {
		remaining := make(map[string]bool, graph.Len()-len(order))
		for id, degree := range inDegree {
			if degree > 0 {
				remaining[id] = true
			}
		}
		return nil, &CycleError{Cycle: findCycle(remaining, edgeSet)}
	}

	return order, nil
}

// findCycle extracts one concrete cycle from the subgraph of nodes Kahn's
// algorithm could not release. Every such node has at least one unreleased
// predecessor, so walking predecessors must eventually revisit a node.
func findCycle(remaining map[string]bool, edges map[models.Edge]struct{}) []string {
	predecessors := make(map[string][]string)
	for edge := range edges {
		if remaining[edge.From] && remaining[edge.To] {
			predecessors[edge.To] = append(predecessors[edge.To], edge.From)
		}
	}
	for _, preds := range predecessors {
		sort.Strings(preds)
	}

	start := ""
	for id := range remaining {
		if start == "" || id < start {
			start = id
		}
	}

	visited := make(map[string]int)
	var path []string
	current := start
	for {
		if at, seen := visited[current]; seen {
			cycle := append([]string{}, path[at:]...)
			// The walk followed predecessor edges, so reverse the
			// slice to present the cycle in startup-order direction.
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			return cycle
		}
		visited[current] = len(path)
		path = append(path, current)
		current = predecessors[current][0]
	}
}
