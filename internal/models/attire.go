package models

import (
	"time"
)

// Accessory is a reusable item or weapon description shared across attires.
// Its identity is logical: two rows with the same (description, unique_effect)
// pair describe the same real-world object, so lookups by content are tried
// before a new row is created. There is deliberately no unique index on the
// pair; see the accessory service for the dedup rules.
type Accessory struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Description  string  `gorm:"size:500;not null" json:"description"`
	IsWeapon     bool    `gorm:"default:false" json:"is_weapon"`
	UniqueEffect *string `gorm:"size:500" json:"unique_effect,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attire is a named outfit owned by exactly one character profile. Deleting an
// attire removes its links but never the shared accessories behind them.
type Attire struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	Name                 string `gorm:"size:255;not null" json:"name"`
	Type                 string `gorm:"size:100" json:"type"`
	Description          string `gorm:"size:2000" json:"description"`
	HairstyleDescription string `gorm:"size:1000" json:"hairstyle_description"`
	CharacterProfileID   uint   `gorm:"not null;index" json:"character_profile_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	AccessoryLinks []AccessoryLink `gorm:"foreignKey:AttireID" json:"accessory_links,omitempty"`
}

// AccessoryLink joins attires and accessories many-to-many.
type AccessoryLink struct {
	AccessoryID uint `gorm:"primaryKey;autoIncrement:false" json:"accessory_id"`
	AttireID    uint `gorm:"primaryKey;autoIncrement:false" json:"attire_id"`

	// Relations
	Accessory *Accessory `gorm:"foreignKey:AccessoryID" json:"accessory,omitempty"`
}
