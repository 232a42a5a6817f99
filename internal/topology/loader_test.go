package topology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plantarium-platform/trellis-go/internal/planner"
	"github.com/stretchr/testify/assert"
)

func writeTopology(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topology.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)
	return path
}

func TestLoader_LoadTestdataTopology(t *testing.T) {
	topology, err := NewLoader().Load("../../testdata/topology.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "trading-floor", topology.Name)

	assert.Len(t, topology.Singletons, 2)
	assert.Equal(t, "watchdog", topology.Singletons["watchdog"].Name)
	assert.Equal(t, "./watchdog --listen :9100", topology.Singletons["watchdog"].Command)

	gateway := topology.Singletons["gateway"]
	assert.Equal(t, []string{"watchdog"}, gateway.DependsOn.Singletons)
	assert.Equal(t, []string{"sor"}, gateway.DependsOn.Shards)
	assert.Equal(t, "edge-team", gateway.Meta["owner"])

	sor := topology.ShardGroups["sor"]
	assert.Equal(t, "sor", sor.Name)
	assert.Equal(t, 2, sor.Count)
	assert.Len(t, sor.Components, 2)
	assert.Equal(t, "sor", sor.Primary().Name)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open topology file")
}

func TestLoader_MalformedYAML(t *testing.T) {
	path := writeTopology(t, "singletons: [not, a, map")
	_, err := NewLoader().Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode topology YAML")
}

func TestLoader_ReplicaCountBelowOne(t *testing.T) {
	path := writeTopology(t, `
shard_groups:
  sor:
    count: 0
    components:
      - name: sor
        cmd: ./sor
`)
	_, err := NewLoader().Load(path)
	assert.Error(t, err)

	var configErr *planner.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "replica count")
}

func TestLoader_MissingPrimaryComponent(t *testing.T) {
	path := writeTopology(t, `
shard_groups:
  sor:
    count: 2
    components:
      - name: sor-aux
        cmd: ./sor-aux
`)
	_, err := NewLoader().Load(path)
	assert.Error(t, err)

	var configErr *planner.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "primary component")
}

func TestLoader_DuplicateComponent(t *testing.T) {
	path := writeTopology(t, `
shard_groups:
  sor:
    count: 1
    components:
      - name: sor
        cmd: ./sor
      - name: sor
        cmd: ./sor-again
`)
	_, err := NewLoader().Load(path)
	assert.Error(t, err)

	var configErr *planner.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "twice")
}
