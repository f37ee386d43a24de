package models

import (
	"time"
)

// SentinelLoreEntryID is the reserved LoreEntry row meaning "no feat assigned".
// It is seeded at migration time and can never be deleted; character profiles
// fall back to it whenever their greatest-feat entry goes away.
const SentinelLoreEntryID uint = 0

// SentinelLoreTypeID is the reserved LoreType row backing the sentinel entry.
// lore_entries.lore_type_id carries a foreign key, so the sentinel entry needs
// a real type row to point at; both are seeded together.
const SentinelLoreTypeID uint = 0

// LoreType is a lookup table (e.g. "Battle", "Backstory", "Legend").
type LoreType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type LoreEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"size:255;not null" json:"title"`
	LoreTypeID uint   `gorm:"not null;default:0" json:"lore_type_id"`
	Narrative  string `gorm:"size:8000" json:"narrative"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	LoreType       *LoreType           `gorm:"foreignKey:LoreTypeID" json:"lore_type,omitempty"`
	CharacterLinks []CharacterLoreLink `gorm:"foreignKey:LoreEntryID" json:"character_links,omitempty"`
}

// IsSentinel reports whether this is the reserved "no feat" entry.
func (e *LoreEntry) IsSentinel() bool {
	return e.ID == SentinelLoreEntryID
}

// CharacterLoreLink joins characters and lore entries many-to-many, optionally
// recording the character's role in the story.
type CharacterLoreLink struct {
	CharacterProfileID uint   `gorm:"primaryKey;autoIncrement:false" json:"character_profile_id"`
	LoreEntryID        uint   `gorm:"primaryKey;autoIncrement:false" json:"lore_entry_id"`
	Role               string `gorm:"size:255" json:"role,omitempty"`

	// Relations
	LoreEntry *LoreEntry `gorm:"foreignKey:LoreEntryID" json:"lore_entry,omitempty"`
}
