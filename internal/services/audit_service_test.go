package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_Sweep(t *testing.T) {
	db := setupTestDB(t)
	registry := NewPrecinctService(db)
	audit := NewAuditService(db, nil)

	labA := createPrecinct(t, registry, "Lab A")
	labB := createPrecinct(t, registry, "Lab B")

	t.Run("clean registry reports nothing", func(t *testing.T) {
		_, err := registry.AssignCourses(1, labA.ID, []string{"BSIT"})
		require.NoError(t, err)
		_, err = registry.AssignCourses(1, labB.ID, []string{"BSCS"})
		require.NoError(t, err)

		conflicts, err := audit.Sweep()
		assert.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("course claimed by two precincts is flagged", func(t *testing.T) {
		_, err := registry.AssignCourses(1, labB.ID, []string{"BSCS", "BSIT"})
		require.NoError(t, err)

		conflicts, err := audit.Sweep()
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, uint(1), conflicts[0].ElectionID)
		assert.Equal(t, "BSIT", conflicts[0].CourseName)
		assert.ElementsMatch(t, []uint{labA.ID, labB.ID}, conflicts[0].PrecinctIDs)
	})

	t.Run("the same course in a different election is separate", func(t *testing.T) {
		_, err := registry.AssignCourses(2, labA.ID, []string{"BSIT"})
		require.NoError(t, err)
		_, err = registry.AssignCourses(2, labB.ID, []string{"BSIT"})
		require.NoError(t, err)

		conflicts, err := audit.Sweep()
		require.NoError(t, err)
		require.Len(t, conflicts, 2)
		assert.Equal(t, uint(1), conflicts[0].ElectionID)
		assert.Equal(t, uint(2), conflicts[1].ElectionID)
	})

	t.Run("run without a notifier does not panic", func(t *testing.T) {
		assert.NotPanics(t, audit.Run)
	})
}

func TestAuditService_SweepStoreOutage(t *testing.T) {
	db := setupTestDB(t)
	audit := NewAuditService(db, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = audit.Sweep()
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
