package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/dsm-migrator/constants"
)

func TestRememberAndResolve(t *testing.T) {
	r := New()
	runID := uuid.New()
	targetID := uuid.New()

	require.NoError(t, r.Remember(runID, constants.KindCustomers, "C-1", targetID))

	got, ok := r.Resolve(runID, constants.KindCustomers, "C-1")
	assert.True(t, ok)
	assert.Equal(t, targetID, got)

	_, ok = r.Resolve(runID, constants.KindCustomers, "C-2")
	assert.False(t, ok)

	// same source id under a different kind is a distinct key
	_, ok = r.Resolve(runID, constants.KindJobs, "C-1")
	assert.False(t, ok)
}

func TestRememberIsWriteOnce(t *testing.T) {
	r := New()
	runID := uuid.New()

	require.NoError(t, r.Remember(runID, constants.KindJobs, "J-1", uuid.New()))
	err := r.Remember(runID, constants.KindJobs, "J-1", uuid.New())
	assert.Error(t, err)
}

func TestRememberRejectsEmptySourceID(t *testing.T) {
	r := New()
	assert.Error(t, r.Remember(uuid.New(), constants.KindJobs, "", uuid.New()))
}

func TestMappingsScopedToRun(t *testing.T) {
	r := New()
	runA := uuid.New()
	runB := uuid.New()

	require.NoError(t, r.Remember(runA, constants.KindCustomers, "C-1", uuid.New()))
	require.NoError(t, r.Remember(runA, constants.KindEmployees, "E-1", uuid.New()))
	require.NoError(t, r.Remember(runB, constants.KindCustomers, "C-1", uuid.New()))

	assert.Len(t, r.Mappings(runA), 2)
	assert.Len(t, r.Mappings(runB), 1)
	assert.Equal(t, 3, r.Len())
}
