package models

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	PublicID     string    `gorm:"size:32;uniqueIndex;not null" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Details *UserDetails `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"details,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignPublicID(&u.PublicID)
}

// UserDetails holds the editable profile text of a user. Every user has
// exactly one row, created together with the user.
type UserDetails struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	Bio       string    `gorm:"size:500" json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func assignPublicID(id *string) error {
	if *id != "" {
		return nil
	}
	publicID, err := gonanoid.New()
	if err != nil {
		return err
	}
	*id = publicID
	return nil
}
