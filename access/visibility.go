// Package access decides which decks a viewer may read. Every read path
// goes through CanViewDeck, or through VisibleTo when the decision has to
// be pushed into a query for pagination.
package access

import (
	"github.com/andrewpaige1/flashly-api/models"
	"gorm.io/gorm"
)

// Viewer is the identity a read is evaluated for. The zero Viewer is
// anonymous.
type Viewer struct {
	UserID    uint
	following map[uint]struct{}
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer { return Viewer{} }

// NewViewer builds a signed-in viewer from the ids of the users they follow.
func NewViewer(userID uint, following []uint) Viewer {
	v := Viewer{UserID: userID, following: make(map[uint]struct{}, len(following))}
	for _, id := range following {
		v.following[id] = struct{}{}
	}
	return v
}

func (v Viewer) IsAnonymous() bool { return v.UserID == 0 }

// Follows reports whether the viewer has a follow edge to ownerID.
func (v Viewer) Follows(ownerID uint) bool {
	_, ok := v.following[ownerID]
	return ok
}

// CanViewDeck reports whether v may see d.
//
//   - public: everyone, including anonymous viewers.
//   - followers-only: the owner and users following the owner.
//   - private: the owner only.
func CanViewDeck(d *models.Deck, v Viewer) bool {
	if d == nil {
		return false
	}
	if d.PublishStatus == models.StatusPublic {
		return true
	}
	if v.IsAnonymous() {
		return false
	}
	if v.UserID == d.OwnerID {
		return true
	}
	return d.PublishStatus == models.StatusFollowers && v.Follows(d.OwnerID)
}

// VisibleTo is the query form of CanViewDeck, for listings that paginate in
// the store. It must be applied to a query over the decks table.
func VisibleTo(v Viewer) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v.IsAnonymous() {
			return db.Where("decks.publish_status = ?", models.StatusPublic)
		}
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("followed_id").
			Where("follower_id = ?", v.UserID)
		return db.Where(
			"(decks.publish_status = ? OR decks.owner_id = ? OR (decks.publish_status = ? AND decks.owner_id IN (?)))",
			models.StatusPublic, v.UserID, models.StatusFollowers, followed,
		)
	}
}

// FilterDecks keeps the decks v may see, preserving order.
func FilterDecks(decks []models.Deck, v Viewer) []models.Deck {
	visible := decks[:0]
	for i := range decks {
		if CanViewDeck(&decks[i], v) {
			visible = append(visible, decks[i])
		}
	}
	return visible
}
