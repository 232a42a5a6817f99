package storage

import (
	"sync"

	"github.com/plantarium-platform/trellis-go/pkg/models"
)

// PlanDB is an in-memory store for the expanded instance set and the startup
// plans computed from it. Instances are keyed by their identifier, plans by
// topology name.
type PlanDB struct {
	Instances map[string]*models.ServiceInstance
	Plans     map[string]*models.StartupPlan
	mu        sync.RWMutex
}

// instance is the singleton instance of PlanDB.
var instance *PlanDB
var once sync.Once

// GetPlanDB returns the process-wide PlanDB instance.
func GetPlanDB() *PlanDB {
	once.Do(func() {
		instance = NewPlanDB()
	})
	return instance
}

// NewPlanDB creates an empty PlanDB. Tests use this to avoid sharing the
// process-wide instance.
func NewPlanDB() *PlanDB {
	return &PlanDB{
		Instances: make(map[string]*models.ServiceInstance),
		Plans:     make(map[string]*models.StartupPlan),
	}
}

// WithLock executes fn while holding the write lock.
func (s *PlanDB) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// WithRLock executes fn while holding the read lock.
func (s *PlanDB) WithRLock(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

func (s *PlanDB) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Instances = make(map[string]*models.ServiceInstance)
	s.Plans = make(map[string]*models.StartupPlan)
}
