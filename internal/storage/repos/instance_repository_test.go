package repos

import (
	"testing"

	"github.com/plantarium-platform/trellis-go/internal/storage"
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"github.com/stretchr/testify/assert"
)

func seedInstances(t *testing.T, repo *InstanceRepository) {
	t.Helper()
	instances := []*models.ServiceInstance{
		{ID: "watchdog", Logical: "watchdog", Index: models.SingletonIndex},
		{ID: "sor-sor-0", Logical: "sor", Group: "sor", Index: 0, Primary: true},
		{ID: "sor-sor-1", Logical: "sor", Group: "sor", Index: 1, Primary: true},
		{ID: "sor-sor-aux-0", Logical: "sor-aux", Group: "sor", Index: 0},
		{ID: "sor-sor-aux-1", Logical: "sor-aux", Group: "sor", Index: 1},
	}
	for _, instance := range instances {
		assert.NoError(t, repo.AddInstance(instance))
	}
}

func TestInstanceRepository_AddAndFind(t *testing.T) {
	repo := NewInstanceRepository(storage.NewPlanDB())
	seedInstances(t, repo)

	instance, err := repo.FindInstanceByID("sor-sor-1")
	assert.NoError(t, err)
	assert.Equal(t, "sor", instance.Logical)
	assert.Equal(t, 1, instance.Index)

	_, err = repo.FindInstanceByID("ghost")
	assert.Error(t, err)
	assert.Equal(t, "instance ghost not found", err.Error())
}

func TestInstanceRepository_DuplicateAdd(t *testing.T) {
	repo := NewInstanceRepository(storage.NewPlanDB())
	instance := &models.ServiceInstance{ID: "watchdog", Logical: "watchdog"}
	assert.NoError(t, repo.AddInstance(instance))

	err := repo.AddInstance(instance)
	assert.Error(t, err)
	assert.Equal(t, "instance watchdog already exists", err.Error())
}

func TestInstanceRepository_ListSorted(t *testing.T) {
	repo := NewInstanceRepository(storage.NewPlanDB())
	seedInstances(t, repo)

	instances, err := repo.ListInstances()
	assert.NoError(t, err)

	ids := make([]string, len(instances))
	for i, instance := range instances {
		ids[i] = instance.ID
	}
	assert.Equal(t, []string{"sor-sor-0", "sor-sor-1", "sor-sor-aux-0", "sor-sor-aux-1", "watchdog"}, ids)
}

func TestInstanceRepository_FindGroupPrimaries(t *testing.T) {
	repo := NewInstanceRepository(storage.NewPlanDB())
	seedInstances(t, repo)

	primaries, err := repo.FindGroupPrimaries("sor")
	assert.NoError(t, err)
	assert.Len(t, primaries, 2)
	assert.Equal(t, "sor-sor-0", primaries[0].ID)
	assert.Equal(t, "sor-sor-1", primaries[1].ID)

	none, err := repo.FindGroupPrimaries("missing")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestInstanceRepository_Clear(t *testing.T) {
	repo := NewInstanceRepository(storage.NewPlanDB())
	seedInstances(t, repo)

	assert.NoError(t, repo.ClearInstances())
	instances, err := repo.ListInstances()
	assert.NoError(t, err)
	assert.Empty(t, instances)
}
