package planner

import (
	"sort"
	"strconv"
	"strings"

	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// ExpanderInterface defines the method for expanding a topology.
type ExpanderInterface interface {
	Expand(topology *models.Topology) ([]*models.ServiceInstance, error) // Turns a topology into concrete service instances.
}

// Expander flattens a declarative topology into concrete service instances.
// Expansion is a pure function of its input; the topology is never modified.
type Expander struct{}

// NewExpander creates a new Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand emits one instance per singleton and Count instances per shard group
// component. Singleton identifiers equal the logical name; sharded
// identifiers are composed from group name, component name and replica index.
// Instances are emitted in deterministic order: singletons sorted by name,
// then groups sorted by name, replicas ascending, components as declared.
func (e *Expander) Expand(topology *models.Topology) ([]*models.ServiceInstance, error) {
	total := len(topology.Singletons)
	for _, group := range topology.ShardGroups {
		total += group.Count * len(group.Components)
	}

	instances := make([]*models.ServiceInstance, 0, total)
	seen := make(map[string]struct{}, total)

	emit := func(instance *models.ServiceInstance) error {
		if _, exists := seen[instance.ID]; exists {
			return NewConfigurationError("duplicate instance identifier %q", instance.ID)
		}
		seen[instance.ID] = struct{}{}
		instances = append(instances, instance)
		return nil
	}

	for _, name := range sortedKeys(topology.Singletons) {
		spec := topology.Singletons[name]
		if err := emit(&models.ServiceInstance{
			ID:      name,
			Logical: name,
			Index:   models.SingletonIndex,
			Command: spec.Command,
			Meta:    copyMeta(spec.Meta),
		}); err != nil {
			return nil, err
		}
	}

	groupNames := make([]string, 0, len(topology.ShardGroups))
	for name := range topology.ShardGroups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, groupName := range groupNames {
		group := topology.ShardGroups[groupName]
		for i := 0; i < group.Count; i++ {
			for _, component := range group.Components {
				if err := emit(&models.ServiceInstance{
					ID:      models.ShardedID(groupName, component.Name, i),
					Logical: component.Name,
					Group:   groupName,
					Index:   i,
					Command: strings.ReplaceAll(component.Command, models.IndexPlaceholder, strconv.Itoa(i)),
					Primary: component.Name == groupName,
					Meta:    copyMeta(component.Meta),
				}); err != nil {
					return nil, err
				}
			}
		}
	}

	return instances, nil
}

func sortedKeys(specs map[string]*models.ServiceSpec) []string {
	keys := make([]string, 0, len(specs))
	for key := range specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// copyMeta detaches an instance's meta from the shared spec so no instance
// can observe another's mutations.
func copyMeta(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	copied := make(map[string]interface{}, len(meta))
	for key, value := range meta {
		copied[key] = value
	}
	return copied
}
