package services

import (
	"testing"

	"github.com/animehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelLoreEntryIsSeeded(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	entry, err := svc.GetLoreEntry(models.SentinelLoreEntryID)
	require.NoError(t, err)
	assert.True(t, entry.IsSentinel())
	assert.Equal(t, "Unassigned", entry.Title)
}

func TestSentinelLoreEntryIsImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	err := svc.UpdateLoreEntry(models.SentinelLoreEntryID, map[string]interface{}{"title": "hacked"})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	err = svc.DeleteLoreEntry(models.SentinelLoreEntryID)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	entry, err := svc.GetLoreEntry(models.SentinelLoreEntryID)
	require.NoError(t, err)
	assert.Equal(t, "Unassigned", entry.Title)
}

func TestGetAllLoreEntriesHidesSentinel(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	createTestLoreEntry(t, db, "The Great Siege")

	entries, total, err := svc.GetAllLoreEntries(0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "The Great Siege", entries[0].Title)
}

func TestDeleteLoreEntryClearsGreatestFeatReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	entry := createTestLoreEntry(t, db, "Dragon Slaying")
	other := createTestLoreEntry(t, db, "Unrelated")

	first := createTestProfile(t, db, "Asuka")
	second := createTestProfile(t, db, "Rei")
	third := createTestProfile(t, db, "Shinji")
	require.NoError(t, svc.UpdateGreatestFeat(first.ID, entry.ID))
	require.NoError(t, svc.UpdateGreatestFeat(second.ID, entry.ID))
	require.NoError(t, svc.UpdateGreatestFeat(third.ID, other.ID))

	require.NoError(t, svc.AddCharacterLink(first.ID, entry.ID, "Protagonist"))

	require.NoError(t, svc.DeleteLoreEntry(entry.ID))

	// Both referencing profiles fall back to the sentinel
	var profiles []models.CharacterProfile
	require.NoError(t, db.Order("id").Find(&profiles).Error)
	assert.Equal(t, models.SentinelLoreEntryID, profiles[0].GreatestFeatLoreID)
	assert.Equal(t, models.SentinelLoreEntryID, profiles[1].GreatestFeatLoreID)
	// Unrelated references are untouched
	assert.Equal(t, other.ID, profiles[2].GreatestFeatLoreID)

	// The join rows are gone along with the entry
	var links int64
	require.NoError(t, db.Model(&models.CharacterLoreLink{}).Where("lore_entry_id = ?", entry.ID).Count(&links).Error)
	assert.Zero(t, links)

	_, err := svc.GetLoreEntry(entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// A profile pointing at an entry row that no longer exists is corruption, not
// a normal delete. The transaction must roll back and surface the anomaly
// instead of silently clearing the references.
func TestDeleteLoreEntryDetectsDanglingReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	entry := createTestLoreEntry(t, db, "Vanished")
	profile := createTestProfile(t, db, "Orphaned")
	require.NoError(t, svc.UpdateGreatestFeat(profile.ID, entry.ID))

	require.NoError(t, db.Exec("DELETE FROM lore_entries WHERE id = ?", entry.ID).Error)

	err := svc.DeleteLoreEntry(entry.ID)
	assert.ErrorIs(t, err, ErrIntegrityAnomaly)

	// The rollback leaves the dangling reference in place for inspection
	var reloaded models.CharacterProfile
	require.NoError(t, db.First(&reloaded, profile.ID).Error)
	assert.Equal(t, entry.ID, reloaded.GreatestFeatLoreID)
}

func TestDeleteLoreEntryMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	assert.ErrorIs(t, svc.DeleteLoreEntry(9999), ErrNotFound)
}

func TestUpdateGreatestFeat(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	profile := createTestProfile(t, db, "Mikasa")
	entry := createTestLoreEntry(t, db, "Wall Defense")

	require.NoError(t, svc.UpdateGreatestFeat(profile.ID, entry.ID))

	var reloaded models.CharacterProfile
	require.NoError(t, db.First(&reloaded, profile.ID).Error)
	assert.Equal(t, entry.ID, reloaded.GreatestFeatLoreID)

	// Resetting to the sentinel is a valid assignment
	require.NoError(t, svc.UpdateGreatestFeat(profile.ID, models.SentinelLoreEntryID))
	require.NoError(t, db.First(&reloaded, profile.ID).Error)
	assert.Equal(t, models.SentinelLoreEntryID, reloaded.GreatestFeatLoreID)
}

func TestUpdateGreatestFeatMissingEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	profile := createTestProfile(t, db, "Mikasa")
	assert.ErrorIs(t, svc.UpdateGreatestFeat(profile.ID, 9999), ErrNotFound)

	entry := createTestLoreEntry(t, db, "Wall Defense")
	assert.ErrorIs(t, svc.UpdateGreatestFeat(9999, entry.ID), ErrNotFound)
}

func TestLoreTypeConflictAndInUseGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	loreType, err := svc.CreateLoreType("Backstory")
	require.NoError(t, err)

	_, err = svc.CreateLoreType("backstory")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateLoreEntry("Origins", loreType.ID, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteLoreType(loreType.ID), ErrInvalidOperation)
}

func TestCharacterLoreLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoreService(db)

	profile := createTestProfile(t, db, "Levi")
	entry := createTestLoreEntry(t, db, "Expedition")

	require.NoError(t, svc.AddCharacterLink(profile.ID, entry.ID, "Captain"))
	assert.ErrorIs(t, svc.AddCharacterLink(profile.ID, entry.ID, "Captain"), ErrConflict)

	require.NoError(t, svc.RemoveCharacterLink(profile.ID, entry.ID))
	assert.ErrorIs(t, svc.RemoveCharacterLink(profile.ID, entry.ID), ErrNotFound)
}
