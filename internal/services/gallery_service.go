package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/animehub/backend/internal/models"
	"gorm.io/gorm"
)

// GalleryService manages gallery folders (categories) and their images. Its
// central invariant: within one category, at most one image carries the
// featured flag at any committed state. Every mutation that can touch the flag
// runs its writes in a fixed order inside one transaction.
type GalleryService struct {
	db *gorm.DB
}

func NewGalleryService(db *gorm.DB) *GalleryService {
	return &GalleryService{db: db}
}

// GalleryImageInput is a caller-supplied image for folder creation.
type GalleryImageInput struct {
	ImageURL   string
	AltText    string
	IsFeatured bool
}

// FolderNameTaken reports whether a category with this name already exists,
// case-insensitively. Handlers use it to refuse a batch create before any
// uploaded file is written to storage.
func (s *GalleryService) FolderNameTaken(name string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.GalleryImageCategory{}).
		Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateFolder creates a new category together with its initial image batch.
// The category name is unique case-insensitively. Exactly one image in the
// batch must be marked featured; the service validates the caller's flags
// rather than electing a default. Returns the new category id.
func (s *GalleryService) CreateFolder(name string, isMature bool, images []GalleryImageInput) (uint, error) {
	taken, err := s.FolderNameTaken(name)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}

	featured := 0
	for _, img := range images {
		if img.IsFeatured {
			featured++
		}
	}
	if featured != 1 {
		return 0, fmt.Errorf("%w: exactly one image must be featured, got %d", ErrInvalidOperation, featured)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	category := &models.GalleryImageCategory{Name: name}
	if err := tx.Create(category).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	now := time.Now().UTC()
	for _, img := range images {
		row := &models.GalleryImage{
			ImageURL:        img.ImageURL,
			AltText:         img.AltText,
			IsFeatured:      img.IsFeatured,
			IsMatureContent: isMature,
			CategoryID:      category.ID,
			DateAdded:       now,
			DateModified:    now,
		}
		if err := tx.Create(row).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return category.ID, nil
}

// AddImage inserts a single image into an existing category. When the new
// image is to be featured, the currently featured image (if any) is unfeatured
// first; both writes commit together so the one-featured-per-category
// invariant holds at every committed state.
func (s *GalleryService) AddImage(categoryID uint, imageURL, altText string, isFeatured, isMature bool) (uint, error) {
	var count int64
	if err := s.db.Model(&models.GalleryImageCategory{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	now := time.Now().UTC()
	if isFeatured {
		if err := tx.Model(&models.GalleryImage{}).
			Where("category_id = ? AND is_featured = ?", categoryID, true).
			Updates(map[string]interface{}{
				"is_featured":   false,
				"date_modified": now,
			}).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	image := &models.GalleryImage{
		ImageURL:        imageURL,
		AltText:         altText,
		IsFeatured:      isFeatured,
		IsMatureContent: isMature,
		CategoryID:      categoryID,
		DateAdded:       now,
		DateModified:    now,
	}
	if err := tx.Create(image).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return image.ID, nil
}

// UpdateFolder applies folder-level settings: the maturity flag for every
// image and the designated featured image. The broad update (which also
// clears every featured flag) must run before the narrow one that sets the
// designated image; reversing the order would immediately unset it again.
func (s *GalleryService) UpdateFolder(categoryID uint, isMature bool, featuredImageID uint) error {
	var count int64
	if err := s.db.Model(&models.GalleryImageCategory{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
	}

	var member int64
	if err := s.db.Model(&models.GalleryImage{}).
		Where("id = ? AND category_id = ?", featuredImageID, categoryID).
		Count(&member).Error; err != nil {
		return err
	}
	if member == 0 {
		return fmt.Errorf("%w: image %d is not in category %d", ErrNotFound, featuredImageID, categoryID)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	now := time.Now().UTC()
	if err := tx.Model(&models.GalleryImage{}).
		Where("category_id = ?", categoryID).
		Updates(map[string]interface{}{
			"is_mature_content": isMature,
			"is_featured":       false,
			"date_modified":     now,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.GalleryImage{}).
		Where("id = ?", featuredImageID).
		Updates(map[string]interface{}{
			"is_featured":   true,
			"date_modified": now,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// MoveImage moves a single image into another category. A featured image
// loses its flag on the way: the featured designation does not travel across
// categories, and the old category is left without a featured image until an
// admin designates a new one.
func (s *GalleryService) MoveImage(imageID, newCategoryID uint, isMature bool) error {
	var image models.GalleryImage
	if err := s.db.First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: image %d", ErrNotFound, imageID)
		}
		return err
	}

	var count int64
	if err := s.db.Model(&models.GalleryImageCategory{}).Where("id = ?", newCategoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, newCategoryID)
	}

	return s.db.Model(&models.GalleryImage{}).
		Where("id = ?", imageID).
		Updates(map[string]interface{}{
			"category_id":       newCategoryID,
			"is_mature_content": isMature,
			"is_featured":       false,
			"date_modified":     time.Now().UTC(),
		}).Error
}

// DeleteImage removes a single image.
func (s *GalleryService) DeleteImage(imageID uint) error {
	result := s.db.Delete(&models.GalleryImage{}, imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: image %d", ErrNotFound, imageID)
	}
	return nil
}

// DeleteFolder bulk-deletes a category's images and then the category row,
// in that order, as one transaction. The category delete only runs when the
// image delete touched at least one row; an already-empty category therefore
// cannot be removed through this path.
func (s *GalleryService) DeleteFolder(categoryID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	images := tx.Where("category_id = ?", categoryID).Delete(&models.GalleryImage{})
	if images.Error != nil {
		tx.Rollback()
		return images.Error
	}
	if images.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: category %d has no images to delete", ErrInvalidOperation, categoryID)
	}

	result := tx.Delete(&models.GalleryImageCategory{}, categoryID)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: images deleted but category %d missing", ErrIntegrityAnomaly, categoryID)
	}

	return tx.Commit().Error
}

// GetCategoryByID returns a single category.
func (s *GalleryService) GetCategoryByID(categoryID uint) (*models.GalleryImageCategory, error) {
	var category models.GalleryImageCategory
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
		}
		return nil, err
	}
	return &category, nil
}

// GetAllCategories returns every category, ungated (admin view).
func (s *GalleryService) GetAllCategories() ([]models.GalleryImageCategory, error) {
	var categories []models.GalleryImageCategory
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetImagesByCategory returns a category's images, ungated (admin view).
func (s *GalleryService) GetImagesByCategory(categoryID uint) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	if err := s.db.Where("category_id = ?", categoryID).Order("id").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
