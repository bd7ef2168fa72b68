package service

import (
	"context"
	"strings"

	"github.com/andrewpaige1/flashly-api/access"
	"github.com/andrewpaige1/flashly-api/models"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// DeckSummary is a deck as listed in explore, feed and "my decks".
type DeckSummary struct {
	models.Deck
	OwnerUsername string `json:"ownerUsername"`
	CardCount     int64  `json:"cardCount"`
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DeckPage is one page of a deck listing.
type DeckPage struct {
	Decks    []DeckSummary `json:"decks"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int64         `json:"total"`
	HasNext  bool          `json:"hasNext"`
}

type ExploreFilter struct {
	// Query matches deck names case-insensitively.
	Query string
	// Category is a category name or slug.
	Category string
}

// Explore lists public decks, best rated first and newest first among equal
// ratings.
func (s *Service) Explore(ctx context.Context, viewerID uint, filter ExploreFilter, page int) (*DeckPage, error) {
	db := s.conn(ctx)
	v, err := viewer(db, viewerID)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		q := db.Model(&models.Deck{}).Where("decks.publish_status = ?", models.StatusPublic)
		if query := strings.TrimSpace(filter.Query); query != "" {
			q = q.Where(`LOWER(decks.name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(query))+"%")
		}
		if category := strings.TrimSpace(filter.Category); category != "" {
			tagged := db.Table("deck_categories").
				Select("deck_categories.deck_id").
				Joins("JOIN categories ON categories.id = deck_categories.category_id").
				Where("categories.slug = ?", slug.Make(category))
			q = q.Where("decks.id IN (?)", tagged)
		}
		return q
	}

	return s.deckPage(db, "Explore", base, "decks.rating DESC, decks.created_at DESC, decks.id DESC",
		v, page, s.opts.ExplorePageSize)
}

// Feed lists decks of the users viewerID follows that viewerID may see,
// together with viewerID's own decks, newest first.
func (s *Service) Feed(ctx context.Context, viewerID uint, page int) (*DeckPage, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	db := s.conn(ctx)
	v, err := viewer(db, viewerID)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		followed := db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)
		return db.Model(&models.Deck{}).
			Where("(decks.owner_id IN (?) OR decks.owner_id = ?)", followed, viewerID).
			Scopes(access.VisibleTo(v))
	}

	return s.deckPage(db, "Feed", base, "decks.created_at DESC, decks.rating DESC, decks.id DESC",
		v, page, s.opts.FeedPageSize)
}

// ListOwnDecks lists every deck of ownerID regardless of tier, newest first.
func (s *Service) ListOwnDecks(ctx context.Context, ownerID uint, page int) (*DeckPage, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	db := s.conn(ctx)
	v, err := viewer(db, ownerID)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		return db.Model(&models.Deck{}).Where("decks.owner_id = ?", ownerID)
	}

	return s.deckPage(db, "ListOwnDecks", base, "decks.created_at DESC, decks.id DESC",
		v, page, s.opts.FeedPageSize)
}

// deckPage runs a deck listing: count, fetch one page, drop anything the
// viewer may not see and attach owner names and card counts.
func (s *Service) deckPage(db *gorm.DB, op string, base func() *gorm.DB, order string, v access.Viewer, page, size int) (*DeckPage, error) {
	page = normalizePage(page)

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, storeErr(op, "deck", err)
	}

	result := &DeckPage{Decks: []DeckSummary{}, Page: page, PageSize: size, Total: total}
	// Past the last page there is nothing to fetch, and (page-1)*size
	// could overflow.
	lastPage := (total + int64(size) - 1) / int64(size)
	if int64(page) > lastPage {
		return result, nil
	}

	var decks []models.Deck
	err := base().
		Preload("Owner").
		Order(order).
		Limit(size).
		Offset((page - 1) * size).
		Find(&decks).Error
	if err != nil {
		return nil, storeErr(op, "deck", err)
	}
	decks = access.FilterDecks(decks, v)

	counts, err := cardCounts(db, decks)
	if err != nil {
		return nil, storeErr(op, "deck", err)
	}

	summaries := make([]DeckSummary, 0, len(decks))
	for _, d := range decks {
		summary := DeckSummary{Deck: d, CardCount: counts[d.ID]}
		if d.Owner != nil {
			summary.OwnerUsername = d.Owner.Username
		}
		summaries = append(summaries, summary)
	}

	result.Decks = summaries
	result.HasNext = int64(page) < lastPage
	return result, nil
}

func cardCounts(db *gorm.DB, decks []models.Deck) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(decks))
	if len(decks) == 0 {
		return counts, nil
	}
	ids := make([]uint, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}

	var rows []struct {
		DeckID uint
		Total  int64
	}
	err := db.Model(&models.Card{}).
		Select("deck_id, COUNT(*) AS total").
		Where("deck_id IN ?", ids).
		Group("deck_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.DeckID] = row.Total
	}
	return counts, nil
}
