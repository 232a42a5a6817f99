package repos

import (
	"fmt"

	"github.com/plantarium-platform/trellis-go/internal/storage"
	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// PlanRepositoryInterface defines methods for managing resolved startup plans.
type PlanRepositoryInterface interface {
	SavePlan(plan *models.StartupPlan) error
	FindPlanByTopology(topology string) (*models.StartupPlan, error)
}

// PlanRepository is an implementation of PlanRepositoryInterface.
type PlanRepository struct {
	storage *storage.PlanDB
}

// NewPlanRepository initializes a new PlanRepository with the provided storage.
func NewPlanRepository(storage *storage.PlanDB) *PlanRepository {
	return &PlanRepository{
		storage: storage,
	}
}

// SavePlan stores a plan, replacing any previous plan for the same topology.
func (r *PlanRepository) SavePlan(plan *models.StartupPlan) error {
	return r.storage.WithLock(func() error {
		r.storage.Plans[plan.Topology] = plan
		return nil
	})
}

// FindPlanByTopology retrieves the latest plan computed for a topology.
func (r *PlanRepository) FindPlanByTopology(topology string) (*models.StartupPlan, error) {
	var plan *models.StartupPlan
	err := r.storage.WithRLock(func() error {
		var exists bool
		plan, exists = r.storage.Plans[topology]
		if !exists {
			return fmt.Errorf("no plan found for topology %s", topology)
		}
		return nil
	})
	return plan, err
}
