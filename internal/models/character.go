package models

import (
	"time"
)

// CharacterProfile is the central entity of the site: one row per character,
// with lore bios attached through CharacterLoreLink and outfits through Attire.
// GreatestFeatLoreID always points at an existing LoreEntry; the reserved
// sentinel entry (id 0) stands in for "no feat assigned".
type CharacterProfile struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Name               string `gorm:"size:255;not null" json:"name"`
	Series             string `gorm:"size:255" json:"series"`
	Biography          string `gorm:"size:4000" json:"biography"`
	AvatarURL          string `gorm:"size:1000" json:"avatar_url"`
	GreatestFeatLoreID uint   `gorm:"not null;default:0" json:"greatest_feat_lore_id"`
	BestFriendID       *uint  `json:"best_friend_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Attires    []Attire            `gorm:"foreignKey:CharacterProfileID" json:"attires,omitempty"`
	LoreLinks  []CharacterLoreLink `gorm:"foreignKey:CharacterProfileID" json:"lore_links,omitempty"`
	BestFriend *CharacterProfile   `gorm:"foreignKey:BestFriendID" json:"best_friend,omitempty"`
}
