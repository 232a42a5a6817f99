package render

import (
	"strings"
	"testing"

	"github.com/plantarium-platform/trellis-go/pkg/models"
	"github.com/stretchr/testify/assert"
)

func detailedGraph() *models.DependencyGraph {
	instances := []*models.ServiceInstance{
		{ID: "watchdog", Logical: "watchdog", Index: models.SingletonIndex},
		{ID: "sor-sor-0", Logical: "sor", Group: "sor", Index: 0, Primary: true},
		{ID: "sor-sor-1", Logical: "sor", Group: "sor", Index: 1, Primary: true},
		{ID: "sor-sor-aux-0", Logical: "sor-aux", Group: "sor", Index: 0},
		{ID: "sor-sor-aux-1", Logical: "sor-aux", Group: "sor", Index: 1},
	}
	edges := []models.Edge{
		{From: "watchdog", To: "sor-sor-0"},
		{From: "watchdog", To: "sor-sor-1"},
		{From: "sor-sor-0", To: "sor-sor-aux-0"},
		{From: "sor-sor-1", To: "sor-sor-aux-1"},
	}
	return models.NewDependencyGraph(instances, edges)
}

func TestDotRenderer_DetailedClusters(t *testing.T) {
	dot := NewDotRenderer().RenderDetailed(detailedGraph())

	assert.True(t, strings.HasPrefix(dot, "digraph startup {"))
	assert.Contains(t, dot, `subgraph "cluster_sor_0"`)
	assert.Contains(t, dot, `subgraph "cluster_sor_1"`)
	assert.Contains(t, dot, `label="sor-0";`)
	assert.Contains(t, dot, `label="sor-1";`)
}

func TestDotRenderer_DetailedNodeStyling(t *testing.T) {
	dot := NewDotRenderer().RenderDetailed(detailedGraph())

	// Singletons are labeled by logical name and filled with the singleton color.
	assert.Contains(t, dot, `"watchdog" [label="watchdog", fillcolor="#EAEAFB", penwidth=1.5];`)
	// Primaries carry the group fill and a heavier border.
	assert.Contains(t, dot, `"sor-sor-0" [label="sor-0", fillcolor="#AECBFA", penwidth=2.0];`)
	// Non-primary components stay white.
	assert.Contains(t, dot, `"sor-sor-aux-1" [label="sor-aux-1", fillcolor="#FFFFFF"];`)
}

func TestDotRenderer_DetailedEdges(t *testing.T) {
	dot := NewDotRenderer().RenderDetailed(detailedGraph())

	assert.Contains(t, dot, `"watchdog" -> "sor-sor-0";`)
	assert.Contains(t, dot, `"watchdog" -> "sor-sor-1";`)
	assert.Contains(t, dot, `"sor-sor-0" -> "sor-sor-aux-0";`)
	assert.Contains(t, dot, `"sor-sor-1" -> "sor-sor-aux-1";`)
}

func TestDotRenderer_DetailedIsDeterministic(t *testing.T) {
	renderer := NewDotRenderer()
	first := renderer.RenderDetailed(detailedGraph())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, renderer.RenderDetailed(detailedGraph()))
	}
}

func TestDotRenderer_DuplicateEdgesCollapsed(t *testing.T) {
	graph := models.NewDependencyGraph(
		[]*models.ServiceInstance{
			{ID: "a", Logical: "a", Index: models.SingletonIndex},
			{ID: "b", Logical: "b", Index: models.SingletonIndex},
		},
		[]models.Edge{
			{From: "a", To: "b"},
			{From: "a", To: "b"},
		},
	)

	dot := NewDotRenderer().RenderDetailed(graph)
	assert.Equal(t, 1, strings.Count(dot, `"a" -> "b";`))
}

func TestDotRenderer_Logical(t *testing.T) {
	graph := models.NewDependencyGraph(
		[]*models.ServiceInstance{
			{ID: "watchdog", Logical: "watchdog", Index: models.SingletonIndex},
			{ID: "sor", Logical: "sor", Index: models.SingletonIndex},
			{ID: "sor-aux", Logical: "sor-aux", Index: models.SingletonIndex},
		},
		[]models.Edge{
			{From: "watchdog", To: "sor"},
			{From: "sor", To: "sor-aux"},
		},
	)

	dot := NewDotRenderer().RenderLogical(graph)
	assert.True(t, strings.HasPrefix(dot, "digraph logical {"))
	assert.Contains(t, dot, "rankdir=LR;")
	assert.Contains(t, dot, `"watchdog";`)
	assert.Contains(t, dot, `"watchdog" -> "sor";`)
	assert.Contains(t, dot, `"sor" -> "sor-aux";`)
	assert.NotContains(t, dot, "subgraph")
}
