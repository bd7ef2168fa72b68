package service

import (
	"context"
	"time"

	"github.com/andrewpaige1/flashly-api/access"
	"github.com/andrewpaige1/flashly-api/models"
)

// Profile is a user's public page: identity, follow counts and every deck
// the viewer may see, each with its cards and categories.
type Profile struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	Bio            string        `json:"bio"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	FollowersCount int64         `json:"followersCount"`
	FollowingCount int64         `json:"followingCount"`
	IsFollowing    bool          `json:"isFollowing"`
	Decks          []models.Deck `json:"decks"`
}

// profileRow is one row of the profile join: a deck, possibly one of its
// cards and possibly one of its categories. The join fans out, so the same
// deck, card and category repeat across rows.
type profileRow struct {
	DeckID            uint
	DeckPublicID      string
	DeckOwnerID       uint
	DeckName          string
	DeckDescription   string
	DeckPublishStatus models.PublishStatus
	DeckRating        float64
	DeckCreatedAt     time.Time
	DeckUpdatedAt     time.Time

	CardID            *uint
	CardPublicID      *string
	CardAuthorID      *uint
	CardFrontText     *string
	CardBackText      *string
	CardDifficulty    *string
	CardTimesReviewed *int
	CardSuccessRate   *float64
	CardCreatedAt     *time.Time
	CardUpdatedAt     *time.Time

	CategoryID        *uint
	CategoryName      *string
	CategorySlug      *string
	CategoryCreatedAt *time.Time
	CategoryUpdatedAt *time.Time
}

const profileColumns = `
	d.id AS deck_id, d.public_id AS deck_public_id, d.owner_id AS deck_owner_id,
	d.name AS deck_name, d.description AS deck_description,
	d.publish_status AS deck_publish_status, d.rating AS deck_rating,
	d.created_at AS deck_created_at, d.updated_at AS deck_updated_at,
	c.id AS card_id, c.public_id AS card_public_id, c.author_id AS card_author_id,
	c.front_text AS card_front_text, c.back_text AS card_back_text,
	c.difficulty AS card_difficulty, c.times_reviewed AS card_times_reviewed,
	c.success_rate AS card_success_rate,
	c.created_at AS card_created_at, c.updated_at AS card_updated_at,
	cat.id AS category_id, cat.name AS category_name, cat.slug AS category_slug,
	cat.created_at AS category_created_at, cat.updated_at AS category_updated_at`

// Profile assembles the profile of userID as seen by viewerID.
func (s *Service) Profile(ctx context.Context, userID string, viewerID uint) (*Profile, error) {
	db := s.conn(ctx)

	var user models.User
	if err := db.Preload("Details").Where("public_id = ?", userID).First(&user).Error; err != nil {
		return nil, storeErr("Profile", "user", err)
	}

	v, err := viewer(db, viewerID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.followCounts(db, user.ID)
	if err != nil {
		return nil, storeErr("Profile", "user", err)
	}

	var rows []profileRow
	err = db.Table("decks AS d").
		Select(profileColumns).
		Joins("LEFT JOIN cards c ON c.deck_id = d.id").
		Joins("LEFT JOIN deck_categories dc ON dc.deck_id = d.id").
		Joins("LEFT JOIN categories cat ON cat.id = dc.category_id").
		Where("d.owner_id = ?", user.ID).
		Order("d.created_at DESC, d.id DESC, c.created_at ASC, c.id ASC, cat.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("Profile", "deck", err)
	}

	profile := &Profile{
		ID:             user.PublicID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Username:       user.Username,
		Email:          user.Email,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    v.Follows(user.ID),
		Decks:          groupProfileRows(rows, v),
	}
	if user.Details != nil {
		profile.Bio = user.Details.Bio
	}
	return profile, nil
}

// groupProfileRows folds joined rows into decks keyed by deck id, with cards
// and categories de-duplicated by their own ids. Row order is kept, so the
// query's ORDER BY decides the output order. Decks v may not see are
// dropped.
func groupProfileRows(rows []profileRow, v access.Viewer) []models.Deck {
	decks := []models.Deck{}
	deckIndex := make(map[uint]int)
	seenCards := make(map[uint]bool)
	seenCategories := make(map[[2]uint]bool)

	for _, row := range rows {
		i, ok := deckIndex[row.DeckID]
		if !ok {
			deck := models.Deck{
				ID:            row.DeckID,
				PublicID:      row.DeckPublicID,
				OwnerID:       row.DeckOwnerID,
				Name:          row.DeckName,
				Description:   row.DeckDescription,
				PublishStatus: row.DeckPublishStatus,
				Rating:        row.DeckRating,
				CreatedAt:     row.DeckCreatedAt,
				UpdatedAt:     row.DeckUpdatedAt,
				Cards:         []models.Card{},
				Categories:    []models.Category{},
			}
			if !access.CanViewDeck(&deck, v) {
				deckIndex[row.DeckID] = -1
				continue
			}
			decks = append(decks, deck)
			i = len(decks) - 1
			deckIndex[row.DeckID] = i
		}
		if i < 0 {
			continue
		}

		if row.CardID != nil && !seenCards[*row.CardID] {
			seenCards[*row.CardID] = true
			decks[i].Cards = append(decks[i].Cards, models.Card{
				ID:            *row.CardID,
				PublicID:      deref(row.CardPublicID),
				DeckID:        row.DeckID,
				AuthorID:      deref(row.CardAuthorID),
				FrontText:     deref(row.CardFrontText),
				BackText:      deref(row.CardBackText),
				Difficulty:    models.Difficulty(deref(row.CardDifficulty)),
				TimesReviewed: deref(row.CardTimesReviewed),
				SuccessRate:   deref(row.CardSuccessRate),
				CreatedAt:     deref(row.CardCreatedAt),
				UpdatedAt:     deref(row.CardUpdatedAt),
			})
		}

		if row.CategoryID != nil {
			key := [2]uint{row.DeckID, *row.CategoryID}
			if !seenCategories[key] {
				seenCategories[key] = true
				decks[i].Categories = append(decks[i].Categories, models.Category{
					ID:        *row.CategoryID,
					Name:      deref(row.CategoryName),
					Slug:      deref(row.CategorySlug),
					CreatedAt: deref(row.CategoryCreatedAt),
					UpdatedAt: deref(row.CategoryUpdatedAt),
				})
			}
		}
	}
	return decks
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
