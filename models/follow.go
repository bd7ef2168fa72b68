package models

import "time"

// Follow is a directed edge: FollowerID receives FollowedID's
// followers-only decks.
type Follow struct {
	ID         uint      `gorm:"primaryKey"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followed;check:chk_no_self_follow,follower_id <> followed_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE;"`
	CreatedAt  time.Time `gorm:"index"`
}
