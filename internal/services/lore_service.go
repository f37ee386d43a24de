package services

import (
	"errors"
	"fmt"

	"github.com/animehub/backend/internal/models"
	"gorm.io/gorm"
)

// LoreService manages lore types and entries and keeps the greatest-feat
// foreign key on character profiles consistent: the column either holds the
// sentinel 0 or the id of a live lore entry, never a dangling reference.
type LoreService struct {
	db *gorm.DB
}

func NewLoreService(db *gorm.DB) *LoreService {
	return &LoreService{db: db}
}

// CreateLoreType creates a lookup entry (e.g. "Battle", "Backstory").
func (s *LoreService) CreateLoreType(name string) (*models.LoreType, error) {
	var count int64
	if err := s.db.Model(&models.LoreType{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: lore type %q already exists", ErrConflict, name)
	}

	loreType := &models.LoreType{Name: name}
	if err := s.db.Create(loreType).Error; err != nil {
		return nil, err
	}
	return loreType, nil
}

// GetAllLoreTypes returns the lookup table.
func (s *LoreService) GetAllLoreTypes() ([]models.LoreType, error) {
	var types []models.LoreType
	if err := s.db.Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// DeleteLoreType removes a lookup entry unless any lore entry still uses it.
func (s *LoreService) DeleteLoreType(loreTypeID uint) error {
	var inUse int64
	if err := s.db.Model(&models.LoreEntry{}).Where("lore_type_id = ?", loreTypeID).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: lore type %d is used by %d entries", ErrInvalidOperation, loreTypeID, inUse)
	}

	result := s.db.Delete(&models.LoreType{}, loreTypeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: lore type %d", ErrNotFound, loreTypeID)
	}
	return nil
}

// CreateLoreEntry creates a lore entry after checking the lore type exists.
func (s *LoreService) CreateLoreEntry(title string, loreTypeID uint, narrative string) (*models.LoreEntry, error) {
	var count int64
	if err := s.db.Model(&models.LoreType{}).Where("id = ?", loreTypeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: lore type %d", ErrNotFound, loreTypeID)
	}

	entry := &models.LoreEntry{
		Title:      title,
		LoreTypeID: loreTypeID,
		Narrative:  narrative,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetLoreEntry returns an entry with its type and character links loaded.
func (s *LoreService) GetLoreEntry(loreEntryID uint) (*models.LoreEntry, error) {
	var entry models.LoreEntry
	if err := s.db.Preload("LoreType").Preload("CharacterLinks").
		First(&entry, "id = ?", loreEntryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lore entry %d", ErrNotFound, loreEntryID)
		}
		return nil, err
	}
	return &entry, nil
}

// GetAllLoreEntries lists entries with pagination, hiding the sentinel row.
func (s *LoreService) GetAllLoreEntries(offset, limit int) ([]models.LoreEntry, int64, error) {
	var entries []models.LoreEntry
	var total int64

	query := s.db.Model(&models.LoreEntry{}).Where("id <> ?", models.SentinelLoreEntryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Preload("LoreType").
		Where("id <> ?", models.SentinelLoreEntryID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// UpdateLoreEntry updates title/narrative/type on an existing entry. The
// sentinel row is immutable.
func (s *LoreService) UpdateLoreEntry(loreEntryID uint, updates map[string]interface{}) error {
	if loreEntryID == models.SentinelLoreEntryID {
		return fmt.Errorf("%w: the sentinel lore entry cannot be modified", ErrInvalidOperation)
	}

	allowedFields := map[string]bool{
		"title":        true,
		"narrative":    true,
		"lore_type_id": true,
	}
	filtered := make(map[string]interface{})
	for key, value := range updates {
		if allowedFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return fmt.Errorf("%w: no valid fields to update", ErrInvalidOperation)
	}

	result := s.db.Model(&models.LoreEntry{}).Where("id = ?", loreEntryID).Updates(filtered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: lore entry %d", ErrNotFound, loreEntryID)
	}
	return nil
}

// DeleteLoreEntry removes a lore entry. Order matters: every profile whose
// greatest feat points at the entry is reset to the sentinel first, because
// the foreign key restricts deletes while references exist. The reference
// clear, the join-row cascade and the delete commit as one transaction.
func (s *LoreService) DeleteLoreEntry(loreEntryID uint) error {
	if loreEntryID == models.SentinelLoreEntryID {
		return fmt.Errorf("%w: the sentinel lore entry cannot be deleted", ErrInvalidOperation)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	cleared := tx.Model(&models.CharacterProfile{}).
		Where("greatest_feat_lore_id = ?", loreEntryID).
		Update("greatest_feat_lore_id", models.SentinelLoreEntryID)
	if cleared.Error != nil {
		tx.Rollback()
		return cleared.Error
	}

	var entry models.LoreEntry
	if err := tx.First(&entry, "id = ?", loreEntryID).Error; err != nil {
		tx.Rollback()
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if cleared.RowsAffected > 0 {
			// Profiles referenced an entry that does not exist. Surface it;
			// silently clearing the references would hide the corruption.
			return fmt.Errorf("%w: %d profiles referenced missing lore entry %d",
				ErrIntegrityAnomaly, cleared.RowsAffected, loreEntryID)
		}
		return fmt.Errorf("%w: lore entry %d", ErrNotFound, loreEntryID)
	}

	if err := tx.Where("lore_entry_id = ?", loreEntryID).Delete(&models.CharacterLoreLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	deleted := tx.Delete(&entry)
	if deleted.Error != nil {
		tx.Rollback()
		return deleted.Error
	}
	if deleted.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: lore entry %d vanished mid-delete", ErrIntegrityAnomaly, loreEntryID)
	}

	return tx.Commit().Error
}

// UpdateGreatestFeat overwrites the greatest-feat reference on a profile after
// existence checks on both sides. No cross-entity fan-out happens here; the
// sentinel id 0 is a valid target (it exists as a seeded row).
func (s *LoreService) UpdateGreatestFeat(profileID, loreEntryID uint) error {
	var entryCount int64
	if err := s.db.Model(&models.LoreEntry{}).Where("id = ?", loreEntryID).Count(&entryCount).Error; err != nil {
		return err
	}
	if entryCount == 0 {
		return fmt.Errorf("%w: lore entry %d", ErrNotFound, loreEntryID)
	}

	result := s.db.Model(&models.CharacterProfile{}).
		Where("id = ?", profileID).
		Update("greatest_feat_lore_id", loreEntryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}
	return nil
}

// AddCharacterLink links a character into a lore entry's cast.
func (s *LoreService) AddCharacterLink(profileID, loreEntryID uint, role string) error {
	var profileCount int64
	if err := s.db.Model(&models.CharacterProfile{}).Where("id = ?", profileID).Count(&profileCount).Error; err != nil {
		return err
	}
	if profileCount == 0 {
		return fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}

	var entryCount int64
	if err := s.db.Model(&models.LoreEntry{}).Where("id = ?", loreEntryID).Count(&entryCount).Error; err != nil {
		return err
	}
	if entryCount == 0 {
		return fmt.Errorf("%w: lore entry %d", ErrNotFound, loreEntryID)
	}

	var existing int64
	if err := s.db.Model(&models.CharacterLoreLink{}).
		Where("character_profile_id = ? AND lore_entry_id = ?", profileID, loreEntryID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("%w: character %d is already linked to lore entry %d", ErrConflict, profileID, loreEntryID)
	}

	return s.db.Create(&models.CharacterLoreLink{
		CharacterProfileID: profileID,
		LoreEntryID:        loreEntryID,
		Role:               role,
	}).Error
}

// RemoveCharacterLink unlinks a character from a lore entry.
func (s *LoreService) RemoveCharacterLink(profileID, loreEntryID uint) error {
	result := s.db.Where("character_profile_id = ? AND lore_entry_id = ?", profileID, loreEntryID).
		Delete(&models.CharacterLoreLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: no link between character %d and lore entry %d", ErrNotFound, profileID, loreEntryID)
	}
	return nil
}
