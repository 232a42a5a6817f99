package topology

import (
	"fmt"
	"os"

	"github.com/plantarium-platform/trellis-go/internal/planner"
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"gopkg.in/yaml.v2"
)

// LoaderInterface defines the method for loading topology configurations.
type LoaderInterface interface {
	Load(path string) (*models.Topology, error) // Reads and validates a topology YAML file.
}

// Loader reads a topology description from a YAML file and validates its
// structure before handing it to the planner.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes the topology file at path. Singleton specs and shard groups
// are named by their map keys; Load copies the keys into the Name fields so
// downstream code never re-derives them. Structural problems (replica count
// below one, a group without its primary component, duplicate component
// names) are reported as configuration errors.
func (l *Loader) Load(path string) (*models.Topology, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open topology file: %v", err)
	}
	defer file.Close()

	var topology models.Topology
	if err := yaml.NewDecoder(file).Decode(&topology); err != nil {
		return nil, fmt.Errorf("failed to decode topology YAML %s: %v", path, err)
	}

	for name, spec := range topology.Singletons {
		spec.Name = name
	}
	for name, group := range topology.ShardGroups {
		group.Name = name
	}

	if err := validate(&topology); err != nil {
		return nil, err
	}
	return &topology, nil
}

func validate(topology *models.Topology) error {
	for name, group := range topology.ShardGroups {
		if group.Count < 1 {
			return planner.NewConfigurationError("shard group %q has replica count %d, want at least 1", name, group.Count)
		}
		if len(group.Components) == 0 {
			return planner.NewConfigurationError("shard group %q has no components", name)
		}

		seen := make(map[string]struct{}, len(group.Components))
		for _, component := range group.Components {
			if component.Name == "" {
				return planner.NewConfigurationError("shard group %q has a component without a name", name)
			}
			if _, dup := seen[component.Name]; dup {
				return planner.NewConfigurationError("shard group %q declares component %q twice", name, component.Name)
			}
			seen[component.Name] = struct{}{}
		}
		if group.Primary() == nil {
			return planner.NewConfigurationError("shard group %q is missing its primary component %q", name, name)
		}
	}
	return nil
}
