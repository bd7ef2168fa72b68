package models

import "time"

// Category is a global tag shared by any number of decks.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
