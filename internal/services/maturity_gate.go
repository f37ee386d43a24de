package services

import (
	"github.com/animehub/backend/internal/models"
)

// Maturity gating for gallery browsing. A category's maturity is derived at
// query time from its images, never stored on the category row. Denied access
// hides content (empty results) instead of returning an error, so viewers
// cannot probe which categories exist.

// IsCategoryMature reports whether any image currently in the category is
// marked mature.
func (s *GalleryService) IsCategoryMature(categoryID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.GalleryImage{}).
		Where("category_id = ? AND is_mature_content = ?", categoryID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanView reports whether a viewer with the given adult status may see the
// category's content.
func (s *GalleryService) CanView(categoryID uint, viewerIsAdult bool) (bool, error) {
	if viewerIsAdult {
		return true, nil
	}
	mature, err := s.IsCategoryMature(categoryID)
	if err != nil {
		return false, err
	}
	return !mature, nil
}

// GetCategoriesForViewer lists categories visible to the viewer. Non-adult
// viewers never see categories containing mature images.
func (s *GalleryService) GetCategoriesForViewer(viewerIsAdult bool) ([]models.GalleryImageCategory, error) {
	query := s.db.Model(&models.GalleryImageCategory{}).Order("name")
	if !viewerIsAdult {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM gallery_images WHERE gallery_images.category_id = gallery_image_categories.id AND gallery_images.is_mature_content = ?)",
			true,
		)
	}

	var categories []models.GalleryImageCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetImagesForViewer returns a category's images, or an empty slice when the
// gate denies access. Hide, don't error.
func (s *GalleryService) GetImagesForViewer(categoryID uint, viewerIsAdult bool) ([]models.GalleryImage, error) {
	allowed, err := s.CanView(categoryID, viewerIsAdult)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.GalleryImage{}, nil
	}
	return s.GetImagesByCategory(categoryID)
}

// GetCategoryForViewer returns a category, or nil without error when the gate
// denies access.
func (s *GalleryService) GetCategoryForViewer(categoryID uint, viewerIsAdult bool) (*models.GalleryImageCategory, error) {
	allowed, err := s.CanView(categoryID, viewerIsAdult)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, nil
	}
	return s.GetCategoryByID(categoryID)
}
