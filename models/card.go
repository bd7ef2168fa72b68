package models

import (
	"time"

	"gorm.io/gorm"
)

// Card represents an individual flashcard
type Card struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	PublicID string `gorm:"size:32;uniqueIndex;not null" json:"id"`
	DeckID   uint   `gorm:"not null;index" json:"-"`
	// AuthorID records who wrote the card. Permissions always follow the
	// deck owner, never this field.
	AuthorID   uint       `gorm:"index" json:"-"`
	FrontText  string     `gorm:"type:text;not null" json:"frontText"`
	BackText   string     `gorm:"type:text;not null" json:"backText"`
	Difficulty Difficulty `gorm:"size:10;not null;default:easy" json:"difficulty"`

	TimesReviewed int       `gorm:"not null;default:0" json:"timesReviewed"`
	SuccessRate   float64   `gorm:"not null;default:0" json:"successRate"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	return assignPublicID(&c.PublicID)
}
