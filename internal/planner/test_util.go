package planner

import (
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockExpander is a mock implementation of the ExpanderInterface.
type MockExpander struct {
	mock.Mock
}

func (m *MockExpander) Expand(topology *models.Topology) ([]*models.ServiceInstance, error) {
	args := m.Called(topology)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceInstance), args.Error(1)
}

// MockGraphBuilder is a mock implementation of the GraphBuilderInterface.
type MockGraphBuilder struct {
	mock.Mock
}

func (m *MockGraphBuilder) BuildGraph(topology *models.Topology) (*models.DependencyGraph, error) {
	args := m.Called(topology)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DependencyGraph), args.Error(1)
}

func (m *MockGraphBuilder) BuildLogicalGraph(topology *models.Topology) (*models.DependencyGraph, error) {
	args := m.Called(topology)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DependencyGraph), args.Error(1)
}

// MockResolver is a mock implementation of the ResolverInterface.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(graph *models.DependencyGraph) ([]string, error) {
	args := m.Called(graph)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
