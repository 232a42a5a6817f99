package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantarium-platform/trellis-go/internal/storage"
	"github.com/plantarium-platform/trellis-go/internal/storage/repos"
	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// PlanManagerInterface defines the methods for running the planning pipeline.
type PlanManagerInterface interface {
	Plan(topology *models.Topology) (*models.StartupPlan, error)             // Runs expand -> build -> resolve and stores the result.
	LogicalGraph(topology *models.Topology) (*models.DependencyGraph, error) // Builds the simplified logical graph only.
}

// PlanManager wires the expander, graph builder and resolver into one
// idempotent pipeline. Every call recomputes the plan from scratch; there is
// no cross-invocation state beyond the stored result.
type PlanManager struct {
	Expander     ExpanderInterface
	Builder      GraphBuilderInterface
	Resolver     ResolverInterface
	InstanceRepo repos.InstanceRepositoryInterface
	PlanRepo     repos.PlanRepositoryInterface
}

// NewPlanManager creates a new instance of PlanManager with the required dependencies.
func NewPlanManager(expander ExpanderInterface, builder GraphBuilderInterface, resolver ResolverInterface,
	instanceRepo repos.InstanceRepositoryInterface, planRepo repos.PlanRepositoryInterface) *PlanManager {
	return &PlanManager{
		Expander:     expander,
		Builder:      builder,
		Resolver:     resolver,
		InstanceRepo: instanceRepo,
		PlanRepo:     planRepo,
	}
}

// NewPlanManagerWithDI creates a PlanManager with its dependencies initialized
// internally against the process-wide PlanDB.
func NewPlanManagerWithDI() *PlanManager {
	planDB := storage.GetPlanDB()
	instanceRepo := repos.NewInstanceRepository(planDB)
	planRepo := repos.NewPlanRepository(planDB)
	return NewPlanManager(NewExpander(), NewGraphBuilder(instanceRepo), NewResolver(), instanceRepo, planRepo)
}

// Plan expands the topology, builds the dependency graph and resolves the
// startup order. The expanded instances and the resulting plan are stored in
// the repositories; the plan is also returned to the caller.
func (m *PlanManager) Plan(topology *models.Topology) (*models.StartupPlan, error) {
	instances, err := m.Expander.Expand(topology)
	if err != nil {
		return nil, err
	}

	if err := m.InstanceRepo.ClearInstances(); err != nil {
		return nil, fmt.Errorf("failed to reset instance storage: %v", err)
	}
	for _, inst := range instances {
		if err := m.InstanceRepo.AddInstance(inst); err != nil {
			return nil, fmt.Errorf("failed to store instance %s: %v", inst.ID, err)
		}
	}

	graph, err := m.Builder.BuildGraph(topology)
	if err != nil {
		return nil, err
	}

	order, err := m.Resolver.Resolve(graph)
	if err != nil {
		return nil, err
	}

	plan := &models.StartupPlan{
		RunID:     uuid.New().String(),
		Topology:  topology.Name,
		CreatedAt: time.Now(),
		Order:     order,
		Graph:     graph,
	}
	if err := m.PlanRepo.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("plan resolved, but failed to save to repository: %v", err)
	}

	return plan, nil
}

// LogicalGraph builds the simplified logical component graph without
// expanding replicas.
func (m *PlanManager) LogicalGraph(topology *models.Topology) (*models.DependencyGraph, error) {
	return m.Builder.BuildLogicalGraph(topology)
}
