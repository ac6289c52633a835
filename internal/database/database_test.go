package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themisvote/themis/backend/internal/models"
)

func TestOpen(t *testing.T) {
	// Test with memory DB
	db, err := Open("file::memory:?cache=shared")
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Test with file DB
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	db, err = Open(dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, db)
}

func TestMigrate(t *testing.T) {
	db, err := Open("file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	// required settings rows exist
	var semester models.Setting
	require.NoError(t, db.Where("key = ?", "current_semester").First(&semester).Error)
	assert.NotEmpty(t, semester.Value)

	var tokenHash models.Setting
	require.NoError(t, db.Where("key = ?", "operator_token_hash").First(&tokenHash).Error)

	// re-running must not clobber operator edits
	require.NoError(t, db.Model(&semester).Update("value", "2026-2").Error)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Where("key = ?", "current_semester").First(&semester).Error)
	assert.Equal(t, "2026-2", semester.Value)
}
