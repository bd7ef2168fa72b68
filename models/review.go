package models

import (
	"time"
)

// CardReview records one study attempt of a card by a user.
type CardReview struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CardID     uint      `gorm:"not null;index"`
	Card       Card      `gorm:"foreignKey:CardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Correct    bool      `gorm:"not null"`
	ReviewedAt time.Time `gorm:"autoCreateTime"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &UserDetails{}, &Follow{}, &Category{}, &Deck{}, &Card{}, &CardReview{},
	}
}
