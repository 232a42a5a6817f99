package planner

import (
	"fmt"
	"sort"

	"github.com/plantarium-platform/trellis-go/internal/storage/repos"
	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// GraphBuilderInterface defines methods for building dependency graphs.
type GraphBuilderInterface interface {
	BuildGraph(topology *models.Topology) (*models.DependencyGraph, error)        // Builds the concrete instance graph.
	BuildLogicalGraph(topology *models.Topology) (*models.DependencyGraph, error) // Builds the simplified logical graph.
}

// GraphBuilder derives "must start before" edges from the expanded instance
// set and the declared dependency references. A dependency naming a component
// that does not exist anywhere in the topology is a configuration error; the
// builder never drops an unresolved edge silently.
type GraphBuilder struct {
	InstanceRepo repos.InstanceRepositoryInterface
}

// NewGraphBuilder creates a new GraphBuilder backed by the given instance repository.
func NewGraphBuilder(instanceRepo repos.InstanceRepositoryInterface) *GraphBuilder {
	return &GraphBuilder{
		InstanceRepo: instanceRepo,
	}
}

// BuildGraph builds the dependency graph over the expanded instances held in
// the instance repository. Three edge rules are applied and unioned:
//
//  1. A spec dependency on singleton S adds S -> X for every instance X of
//     that spec.
//  2. A spec dependency on shard group G adds an edge from every replica's
//     primary instance of G into every instance X of that spec.
//  3. A non-primary sharded instance waits for the primary instance of the
//     same replica index in its own group.
//
// The resulting node set is exactly the expanded instance set.
func (b *GraphBuilder) BuildGraph(topology *models.Topology) (*models.DependencyGraph, error) {
	instances, err := b.InstanceRepo.ListInstances()
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %v", err)
	}

	var edges []models.Edge
	for _, target := range instances {
		spec, ok := topology.SpecFor(target.Logical, target.Group)
		if !ok {
			return nil, NewConfigurationError("instance %q has no originating spec", target.ID)
		}

		for _, dep := range spec.DependsOn.Singletons {
			if _, exists := topology.Singletons[dep]; !exists {
				return nil, NewConfigurationError("%q depends on unknown singleton %q", target.Logical, dep)
			}
			edges = append(edges, models.Edge{From: dep, To: target.ID})
		}

		for _, dep := range spec.DependsOn.Shards {
			if _, exists := topology.ShardGroups[dep]; !exists {
				return nil, NewConfigurationError("%q depends on unknown shard group %q", target.Logical, dep)
			}
			primaries, err := b.InstanceRepo.FindGroupPrimaries(dep)
			if err != nil {
				return nil, fmt.Errorf("failed to look up primaries of group %s: %v", dep, err)
			}
			for _, primary := range primaries {
				edges = append(edges, models.Edge{From: primary.ID, To: target.ID})
			}
		}

		if target.Sharded() && !target.Primary {
			primaryID := models.ShardedID(target.Group, target.Group, target.Index)
			if _, err := b.InstanceRepo.FindInstanceByID(primaryID); err != nil {
				return nil, NewConfigurationError("shard group %q has no primary instance for replica %d", target.Group, target.Index)
			}
			edges = append(edges, models.Edge{From: primaryID, To: target.ID})
		}
	}

	return models.NewDependencyGraph(instances, edges), nil
}

// BuildLogicalGraph builds the simplified graph of logical components,
// ignoring replication. Nodes are logical names; edges come from the declared
// dependency lists plus one primary -> component edge per non-primary shard
// group member.
func (b *GraphBuilder) BuildLogicalGraph(topology *models.Topology) (*models.DependencyGraph, error) {
	components := make(map[string]*models.ServiceSpec)
	for name, spec := range topology.Singletons {
		components[name] = spec
	}
	for _, group := range topology.ShardGroups {
		for _, component := range group.Components {
			// The first spec seen for a logical name wins; shared
			// components declare identical dependencies.
			if _, exists := components[component.Name]; !exists {
				components[component.Name] = component
			}
		}
	}

	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]*models.ServiceInstance, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, &models.ServiceInstance{
			ID:      name,
			Logical: name,
			Index:   models.SingletonIndex,
		})
	}

	var edges []models.Edge
	for _, name := range names {
		spec := components[name]
		for _, dep := range spec.DependsOn.Singletons {
			if _, exists := topology.Singletons[dep]; !exists {
				return nil, NewConfigurationError("%q depends on unknown singleton %q", name, dep)
			}
			edges = append(edges, models.Edge{From: dep, To: name})
		}
		for _, dep := range spec.DependsOn.Shards {
			if _, exists := topology.ShardGroups[dep]; !exists {
				return nil, NewConfigurationError("%q depends on unknown shard group %q", name, dep)
			}
			edges = append(edges, models.Edge{From: dep, To: name})
		}
	}

	groupNames := make([]string, 0, len(topology.ShardGroups))
	for name := range topology.ShardGroups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, groupName := range groupNames {
		for _, component := range topology.ShardGroups[groupName].Components {
			if component.Name != groupName {
				edges = append(edges, models.Edge{From: groupName, To: component.Name})
			}
		}
	}

	return models.NewDependencyGraph(nodes, edges), nil
}
