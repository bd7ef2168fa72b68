// Package service implements the flashcard domain: accounts, the follow
// graph, decks and cards, and the feed, explore and profile reads. All
// visibility decisions go through package access.
package service

import (
	"context"
	"unicode/utf8"

	"github.com/andrewpaige1/flashly-api/access"
	"github.com/andrewpaige1/flashly-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenIssuer creates the session credential returned on register and login.
type TokenIssuer interface {
	CreateToken(subject string) (string, error)
}

type Options struct {
	ExplorePageSize int
	FeedPageSize    int
}

type Service struct {
	db     *gorm.DB
	tokens TokenIssuer
	log    *zap.Logger
	opts   Options
}

func New(db *gorm.DB, tokens TokenIssuer, log *zap.Logger, opts Options) *Service {
	if opts.ExplorePageSize <= 0 {
		opts.ExplorePageSize = 10
	}
	if opts.FeedPageSize <= 0 {
		opts.FeedPageSize = 10
	}
	return &Service{db: db, tokens: tokens, log: log, opts: opts}
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// viewer loads the follow set of viewerID. Zero is the anonymous viewer.
func viewer(tx *gorm.DB, viewerID uint) (access.Viewer, error) {
	if viewerID == 0 {
		return access.Anonymous(), nil
	}
	var following []uint
	err := tx.Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("followed_id", &following).Error
	if err != nil {
		return access.Viewer{}, storeErr("viewer", "user", err)
	}
	return access.NewViewer(viewerID, following), nil
}

// ownedDeck loads a deck for mutation by actorID.
func ownedDeck(tx *gorm.DB, deckID string, actorID uint) (*models.Deck, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	var deck models.Deck
	if err := tx.Where("public_id = ?", deckID).First(&deck).Error; err != nil {
		return nil, storeErr("ownedDeck", "deck", err)
	}
	if deck.OwnerID != actorID {
		return nil, forbidden("you do not own this deck")
	}
	return &deck, nil
}

// visibleDeck loads a deck and checks that viewerID may read it.
func visibleDeck(tx *gorm.DB, deckID string, viewerID uint) (*models.Deck, error) {
	var deck models.Deck
	if err := tx.Where("public_id = ?", deckID).First(&deck).Error; err != nil {
		return nil, storeErr("visibleDeck", "deck", err)
	}
	v, err := viewer(tx, viewerID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewDeck(&deck, v) {
		return nil, forbidden("you cannot view this deck")
	}
	return &deck, nil
}

// checkLength rejects values longer than their column allows.
func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return invalid("%s must be at most %d characters", field, limit)
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
