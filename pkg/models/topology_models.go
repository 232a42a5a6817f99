package models

// IndexPlaceholder is the token in a command template that the expander
// replaces with the zero-based replica index.
const IndexPlaceholder = "$INDEX"

// DependsOn declares a service's dependencies on singleton services and on
// whole shard groups.
type DependsOn struct {
	Singletons []string `yaml:"singletons"` // Logical singleton names
	Shards     []string `yaml:"shards"`     // Shard group names
}

// ServiceSpec is the template for one logical service, parsed from YAML.
// Meta carries free-form descriptive attributes through opaquely; the planner
// never inspects it.
type ServiceSpec struct {
	Name      string                 `yaml:"name"` // Logical service name
	Command   string                 `yaml:"cmd"`  // Start command template, may contain $INDEX
	DependsOn DependsOn              `yaml:"depends_on"`
	Meta      map[string]interface{} `yaml:"meta"`
}

// ShardGroup is a named set of component specs replicated together Count
// times. Exactly one component's name must equal the group name; that
// component is the group's primary.
type ShardGroup struct {
	Name       string         `yaml:"-"`
	Count      int            `yaml:"count"`
	Components []*ServiceSpec `yaml:"components"`
}

// Primary returns the group's primary component, or nil if the group is
// malformed. The loader rejects topologies where this would return nil.
func (g *ShardGroup) Primary() *ServiceSpec {
	for _, component := range g.Components {
		if component.Name == g.Name {
			return component
		}
	}
	return nil
}

// Topology is the declarative description of a deployment: singleton services
// keyed by name plus shard groups keyed by group name.
type Topology struct {
	Name        string                  `yaml:"name"`
	Singletons  map[string]*ServiceSpec `yaml:"singletons"`
	ShardGroups map[string]*ShardGroup  `yaml:"shard_groups"`
}

// SpecFor returns the spec an instance originated from: the singleton spec
// when group is empty, otherwise the matching component of the named group.
func (t *Topology) SpecFor(logical, group string) (*ServiceSpec, bool) {
	if group == "" {
		spec, ok := t.Singletons[logical]
		return spec, ok
	}
	shardGroup, ok := t.ShardGroups[group]
	if !ok {
		return nil, false
	}
	for _, component := range shardGroup.Components {
		if component.Name == logical {
			return component, true
		}
	}
	return nil, false
}
