package service

import (
	"context"
	"strings"

	"github.com/andrewpaige1/flashly-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxDeckNameLength = 200

type DeckInput struct {
	Name          string
	Description   string
	PublishStatus string
	Categories    []string
}

// DeckPatch is a partial deck update. Nil fields are left alone; a non-nil
// Categories replaces the deck's whole tag set.
type DeckPatch struct {
	Name          *string
	Description   *string
	PublishStatus *string
	Categories    *[]string
}

// CreateDeck stores a new deck for ownerID. The publish status defaults to
// private.
func (s *Service) CreateDeck(ctx context.Context, ownerID uint, in DeckInput) (*models.Deck, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if err := checkLength("name", name, maxDeckNameLength); err != nil {
		return nil, err
	}
	status := models.StatusPrivate
	if strings.TrimSpace(in.PublishStatus) != "" {
		parsed, ok := models.ParsePublishStatus(in.PublishStatus)
		if !ok {
			return nil, invalid("invalid publishStatus %q", in.PublishStatus)
		}
		status = parsed
	}

	deck := models.Deck{
		OwnerID:       ownerID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		PublishStatus: status,
		Rating:        0,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&deck).Error; err != nil {
			return err
		}
		if len(in.Categories) > 0 {
			return replaceCategories(tx, &deck, in.Categories)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("CreateDeck", "deck", err)
	}

	s.log.Info("CreateDeck: created deck", zap.String("deck", deck.PublicID), zap.Uint("owner", ownerID))
	return &deck, nil
}

// UpdateDeck applies patch to a deck owned by actorID.
func (s *Service) UpdateDeck(ctx context.Context, deckID string, actorID uint, patch DeckPatch) (*models.Deck, error) {
	var deck *models.Deck
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if deck, err = ownedDeck(tx, deckID, actorID); err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return invalid("name cannot be blank")
			}
			if err := checkLength("name", name, maxDeckNameLength); err != nil {
				return err
			}
			deck.Name = name
		}
		if patch.Description != nil {
			deck.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.PublishStatus != nil {
			status, ok := models.ParsePublishStatus(*patch.PublishStatus)
			if !ok {
				return invalid("invalid publishStatus %q", *patch.PublishStatus)
			}
			deck.PublishStatus = status
		}

		if err := tx.Omit(clause.Associations).Save(deck).Error; err != nil {
			return err
		}
		if patch.Categories != nil {
			return replaceCategories(tx, deck, *patch.Categories)
		}
		return tx.Model(deck).Order("name ASC").Association("Categories").Find(&deck.Categories)
	})
	if err != nil {
		return nil, storeErr("UpdateDeck", "deck", err)
	}

	s.log.Info("UpdateDeck: updated deck", zap.String("deck", deck.PublicID))
	return deck, nil
}

// DeleteDeck removes a deck owned by actorID together with its cards,
// their reviews and its category tags.
func (s *Service) DeleteDeck(ctx context.Context, deckID string, actorID uint) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := ownedDeck(tx, deckID, actorID)
		if err != nil {
			return err
		}
		if err := tx.Model(deck).Association("Categories").Clear(); err != nil {
			return err
		}
		cardIDs := tx.Model(&models.Card{}).Select("id").Where("deck_id = ?", deck.ID)
		if err := tx.Where("card_id IN (?)", cardIDs).Delete(&models.CardReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(deck).Error
	})
	if err != nil {
		return storeErr("DeleteDeck", "deck", err)
	}

	s.log.Info("DeleteDeck: deleted deck", zap.String("deck", deckID))
	return nil
}

// GetDeck returns a deck with its owner, cards and categories if viewerID
// may see it.
func (s *Service) GetDeck(ctx context.Context, deckID string, viewerID uint) (*models.Deck, error) {
	db := s.conn(ctx)
	deck, err := visibleDeck(db, deckID, viewerID)
	if err != nil {
		return nil, err
	}

	err = db.Preload("Owner").
		Preload("Cards", orderCards).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name ASC") }).
		First(deck, deck.ID).Error
	if err != nil {
		return nil, storeErr("GetDeck", "deck", err)
	}
	return deck, nil
}

func orderCards(db *gorm.DB) *gorm.DB {
	return db.Order("cards.created_at ASC, cards.id ASC")
}
