package services

import (
	"testing"

	"github.com/animehub/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database, runs migrations and seeds the
// sentinel lore entry. The pool is pinned to a single connection because each
// in-memory database is private to its connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func createTestProfile(t *testing.T, db *gorm.DB, name string) *models.CharacterProfile {
	t.Helper()
	profile, err := NewCharacterService(db).CreateProfile(name, "Test Series", "", "")
	require.NoError(t, err)
	return profile
}

func createTestLoreEntry(t *testing.T, db *gorm.DB, title string) *models.LoreEntry {
	t.Helper()
	svc := NewLoreService(db)
	loreType, err := svc.CreateLoreType("Battle-" + title)
	require.NoError(t, err)
	entry, err := svc.CreateLoreEntry(title, loreType.ID, "narrative of "+title)
	require.NoError(t, err)
	return entry
}
