package repos

import (
	"fmt"
	"sort"

	"github.com/plantarium-platform/trellis-go/internal/storage"
	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// InstanceRepositoryInterface defines methods for managing expanded service
// instances.
type InstanceRepositoryInterface interface {
	AddInstance(instance *models.ServiceInstance) error
	FindInstanceByID(id string) (*models.ServiceInstance, error)
	ListInstances() ([]*models.ServiceInstance, error)
	FindGroupPrimaries(group string) ([]*models.ServiceInstance, error)
	ClearInstances() error
}

// InstanceRepository is an implementation of InstanceRepositoryInterface.
type InstanceRepository struct {
	storage *storage.PlanDB
}

// NewInstanceRepository initializes a new InstanceRepository with the provided storage.
func NewInstanceRepository(storage *storage.PlanDB) *InstanceRepository {
	return &InstanceRepository{
		storage: storage,
	}
}

// AddInstance adds an expanded instance to the storage.
func (r *InstanceRepository) AddInstance(instance *models.ServiceInstance) error {
	return r.storage.WithLock(func() error {
		if _, exists := r.storage.Instances[instance.ID]; exists {
			return fmt.Errorf("instance %s already exists", instance.ID)
		}

		r.storage.Instances[instance.ID] = instance
		return nil
	})
}

// FindInstanceByID retrieves an instance by its identifier.
func (r *InstanceRepository) FindInstanceByID(id string) (*models.ServiceInstance, error) {
	var found *models.ServiceInstance
	err := r.storage.WithRLock(func() error {
		var exists bool
		found, exists = r.storage.Instances[id]
		if !exists {
			return fmt.Errorf("instance %s not found", id)
		}
		return nil
	})
	return found, err
}

// ListInstances lists all instances sorted by identifier.
func (r *InstanceRepository) ListInstances() ([]*models.ServiceInstance, error) {
	var instances []*models.ServiceInstance
	err := r.storage.WithRLock(func() error {
		instances = make([]*models.ServiceInstance, 0, len(r.storage.Instances))
		for _, instance := range r.storage.Instances {
			instances = append(instances, instance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(instances, func(i, j int) bool {
		return instances[i].ID < instances[j].ID
	})
	return instances, nil
}

// FindGroupPrimaries returns the primary instance of every replica of a shard
// group, sorted by replica index.
func (r *InstanceRepository) FindGroupPrimaries(group string) ([]*models.ServiceInstance, error) {
	var primaries []*models.ServiceInstance
	err := r.storage.WithRLock(func() error {
		for _, instance := range r.storage.Instances {
			if instance.Group == group && instance.Primary {
				primaries = append(primaries, instance)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(primaries, func(i, j int) bool {
		return primaries[i].Index < primaries[j].Index
	})
	return primaries, nil
}

// ClearInstances removes all instances, preparing the storage for a fresh
// expansion run.
func (r *InstanceRepository) ClearInstances() error {
	return r.storage.WithLock(func() error {
		r.storage.Instances = make(map[string]*models.ServiceInstance)
		return nil
	})
}
