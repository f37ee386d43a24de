package services

import (
	"errors"
	"fmt"

	"github.com/animehub/backend/internal/models"
	"gorm.io/gorm"
)

type CharacterService struct {
	db *gorm.DB
}

func NewCharacterService(db *gorm.DB) *CharacterService {
	return &CharacterService{db: db}
}

// CreateProfile creates a character profile. The greatest-feat reference
// starts at the sentinel (no feat assigned).
func (s *CharacterService) CreateProfile(name, series, biography, avatarURL string) (*models.CharacterProfile, error) {
	profile := &models.CharacterProfile{
		Name:               name,
		Series:             series,
		Biography:          biography,
		AvatarURL:          avatarURL,
		GreatestFeatLoreID: models.SentinelLoreEntryID,
	}
	if err := s.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByID retrieves a profile with attires, accessories and lore links.
func (s *CharacterService) GetProfileByID(profileID uint) (*models.CharacterProfile, error) {
	var profile models.CharacterProfile
	err := s.db.
		Preload("Attires", func(db *gorm.DB) *gorm.DB {
			return db.Order("attires.id")
		}).
		Preload("Attires.AccessoryLinks.Accessory").
		Preload("LoreLinks.LoreEntry").
		Preload("BestFriend").
		First(&profile, "id = ?", profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
		}
		return nil, err
	}
	return &profile, nil
}

// GetAllProfiles retrieves profiles with pagination.
func (s *CharacterService) GetAllProfiles(offset, limit int) ([]models.CharacterProfile, int64, error) {
	var profiles []models.CharacterProfile
	var total int64

	if err := s.db.Model(&models.CharacterProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Order("name").Offset(offset).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// SearchProfiles searches profiles by name or series.
func (s *CharacterService) SearchProfiles(query string, offset, limit int) ([]models.CharacterProfile, int64, error) {
	var profiles []models.CharacterProfile
	var total int64

	searchQuery := "%" + query + "%"
	base := s.db.Model(&models.CharacterProfile{}).
		Where("name LIKE ? OR series LIKE ?", searchQuery, searchQuery)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Where("name LIKE ? OR series LIKE ?", searchQuery, searchQuery).
		Order("name").Offset(offset).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// UpdateProfile updates basic profile fields. Greatest-feat changes go
// through LoreService.UpdateGreatestFeat instead.
func (s *CharacterService) UpdateProfile(profileID uint, updates map[string]interface{}) error {
	allowedFields := map[string]bool{
		"name":       true,
		"series":     true,
		"biography":  true,
		"avatar_url": true,
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

	result := s.db.Model(&models.CharacterProfile{}).Where("id = ?", profileID).Updates(filtered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}
	return nil
}

// SetBestFriend points the self-referencing best-friend column at another
// profile, or clears it when friendID is nil.
func (s *CharacterService) SetBestFriend(profileID uint, friendID *uint) error {
	if friendID != nil {
		if *friendID == profileID {
			return fmt.Errorf("%w: a character cannot be their own best friend", ErrInvalidOperation)
		}
		var count int64
		if err := s.db.Model(&models.CharacterProfile{}).Where("id = ?", *friendID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: character profile %d", ErrNotFound, *friendID)
		}
	}

	result := s.db.Model(&models.CharacterProfile{}).Where("id = ?", profileID).Update("best_friend_id", friendID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}
	return nil
}

// DeleteProfile removes a profile and everything hanging off it: attires with
// their accessory links, lore links, and best-friend references from other
// profiles. Shared accessories stay. All of it commits as one transaction.
func (s *CharacterService) DeleteProfile(profileID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var attireIDs []uint
	if err := tx.Model(&models.Attire{}).Where("character_profile_id = ?", profileID).
		Pluck("id", &attireIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(attireIDs) > 0 {
		if err := tx.Where("attire_id IN ?", attireIDs).Delete(&models.AccessoryLink{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("id IN ?", attireIDs).Delete(&models.Attire{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Where("character_profile_id = ?", profileID).Delete(&models.CharacterLoreLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.CharacterProfile{}).
		Where("best_friend_id = ?", profileID).
		Update("best_friend_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}

	result := tx.Delete(&models.CharacterProfile{}, profileID)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}

	return tx.Commit().Error
}
