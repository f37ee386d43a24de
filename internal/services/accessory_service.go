package services

import (
	"errors"
	"fmt"

	"github.com/animehub/backend/internal/models"
	"gorm.io/gorm"
)

// AccessoryService owns the attire aggregate: it normalizes accessory records
// by content so the same real-world item is stored once and shared across
// attires through the accessory_links join table.
type AccessoryService struct {
	db *gorm.DB
}

func NewAccessoryService(db *gorm.DB) *AccessoryService {
	return &AccessoryService{db: db}
}

// AccessorySpec is a caller-supplied accessory description. Field lengths are
// validated at the API layer before this service sees them.
type AccessorySpec struct {
	Description  string
	IsWeapon     bool
	UniqueEffect *string
}

// AttireSpec describes a new attire for a character profile.
type AttireSpec struct {
	Name                 string
	Type                 string
	Description          string
	HairstyleDescription string
	Accessories          []AccessorySpec
}

// accessoryKey is the logical identity of an accessory within one request.
func accessoryKey(description string, uniqueEffect *string) string {
	if uniqueEffect == nil {
		return description + "\x00"
	}
	return description + "\x00" + *uniqueEffect
}

// resolveAccessory looks up an accessory by exact content match on
// (description, unique_effect). On a miss it returns a new, unpersisted record
// for the caller to add to the current transaction. No writes happen here.
//
// There is no unique index backing this lookup, so two concurrent requests
// resolving the same content can both miss and create duplicates. Known gap.
func (s *AccessoryService) resolveAccessory(tx *gorm.DB, spec AccessorySpec) (*models.Accessory, error) {
	query := tx.Where("description = ?", spec.Description)
	if spec.UniqueEffect == nil {
		query = query.Where("unique_effect IS NULL")
	} else {
		query = query.Where("unique_effect = ?", *spec.UniqueEffect)
	}

	var accessory models.Accessory
	err := query.First(&accessory).Error
	if err == nil {
		return &accessory, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &models.Accessory{
		Description:  spec.Description,
		IsWeapon:     spec.IsWeapon,
		UniqueEffect: spec.UniqueEffect,
	}, nil
}

// CreateAttire persists a new attire for the given profile together with its
// accessory links and any accessories that did not exist yet, as a single
// transaction. Accessories are deduplicated by content both against the store
// and within the request. Returns the new attire's id.
func (s *AccessoryService) CreateAttire(profileID uint, spec AttireSpec) (uint, error) {
	var count int64
	if err := s.db.Model(&models.CharacterProfile{}).Where("id = ?", profileID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: character profile %d", ErrNotFound, profileID)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	attire := &models.Attire{
		Name:                 spec.Name,
		Type:                 spec.Type,
		Description:          spec.Description,
		HairstyleDescription: spec.HairstyleDescription,
		CharacterProfileID:   profileID,
	}
	if err := tx.Create(attire).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	// Dedupe within the request so two identical specs in one batch resolve
	// to the same row and produce a single link.
	resolved := make(map[string]*models.Accessory)
	for _, accSpec := range spec.Accessories {
		key := accessoryKey(accSpec.Description, accSpec.UniqueEffect)
		if _, seen := resolved[key]; seen {
			continue
		}

		accessory, err := s.resolveAccessory(tx, accSpec)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		if accessory.ID == 0 {
			if err := tx.Create(accessory).Error; err != nil {
				tx.Rollback()
				return 0, err
			}
		}
		resolved[key] = accessory

		link := &models.AccessoryLink{
			AccessoryID: accessory.ID,
			AttireID:    attire.ID,
		}
		if err := tx.Create(link).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return attire.ID, nil
}

// GetAttire returns an attire with its accessories loaded.
func (s *AccessoryService) GetAttire(attireID uint) (*models.Attire, error) {
	var attire models.Attire
	if err := s.db.Preload("AccessoryLinks.Accessory").First(&attire, attireID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attire %d", ErrNotFound, attireID)
		}
		return nil, err
	}
	return &attire, nil
}

// GetAttiresByProfile returns all attires of a profile with accessories loaded.
func (s *AccessoryService) GetAttiresByProfile(profileID uint) ([]models.Attire, error) {
	var attires []models.Attire
	if err := s.db.Preload("AccessoryLinks.Accessory").
		Where("character_profile_id = ?", profileID).
		Order("id").Find(&attires).Error; err != nil {
		return nil, err
	}
	return attires, nil
}

// DeleteAttire removes an attire and its links. The owning profile and any
// shared accessories are untouched; the links cascade at application level.
func (s *AccessoryService) DeleteAttire(attireID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("attire_id = ?", attireID).Delete(&models.AccessoryLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	result := tx.Delete(&models.Attire{}, attireID)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: attire %d", ErrNotFound, attireID)
	}

	return tx.Commit().Error
}
