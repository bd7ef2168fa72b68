package models

import (
	"time"

	"gorm.io/gorm"
)

// Deck represents a named collection of cards owned by one user
type Deck struct {
	ID            uint          `gorm:"primaryKey" json:"-"`
	PublicID      string        `gorm:"size:32;uniqueIndex;not null" json:"id"`
	OwnerID       uint          `gorm:"not null;index" json:"-"`
	Owner         *User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;" json:"owner,omitempty"`
	Name          string        `gorm:"size:200;not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description"`
	PublishStatus PublishStatus `gorm:"size:20;not null;default:private;index" json:"publishStatus"`
	Rating        float64       `gorm:"not null;default:0" json:"rating"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Cards      []Card     `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE;" json:"cards,omitempty"`
	Categories []Category `gorm:"many2many:deck_categories;constraint:OnDelete:CASCADE;" json:"categories,omitempty"`
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	return assignPublicID(&d.PublicID)
}
