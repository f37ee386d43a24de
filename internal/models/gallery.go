package models

import (
	"time"
)

// GalleryImageCategory is a named folder of gallery images. Its maturity
// status is not stored here: a category counts as mature if any of its images
// is marked mature.
type GalleryImageCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GalleryImage belongs to exactly one category. At most one image per category
// carries IsFeatured at any committed state; the gallery service owns that
// invariant.
type GalleryImage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ImageURL        string `gorm:"size:1000;not null" json:"image_url"`
	AltText         string `gorm:"size:500" json:"alt_text"`
	IsFeatured      bool   `gorm:"default:false" json:"is_featured"`
	IsMatureContent bool   `gorm:"default:false" json:"is_mature_content"`
	CategoryID      uint   `gorm:"not null;index" json:"category_id"`

	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`
}
