package service

import (
	"context"
	"strings"

	"github.com/andrewpaige1/flashly-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CardInput struct {
	FrontText  string
	BackText   string
	Difficulty string
}

type CardPatch struct {
	FrontText  *string
	BackText   *string
	Difficulty *string
}

// CreateCard adds a card to a deck owned by actorID and bumps the deck's
// updated_at. Difficulty defaults to easy.
func (s *Service) CreateCard(ctx context.Context, deckID string, actorID uint, in CardInput) (*models.Card, error) {
	var card models.Card
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := ownedDeck(tx, deckID, actorID)
		if err != nil {
			return err
		}

		front, back := strings.TrimSpace(in.FrontText), strings.TrimSpace(in.BackText)
		if front == "" || back == "" {
			return invalid("frontText and backText are required")
		}
		difficulty := models.DifficultyEasy
		if strings.TrimSpace(in.Difficulty) != "" {
			parsed, ok := models.ParseDifficulty(in.Difficulty)
			if !ok {
				return invalid("invalid difficulty %q", in.Difficulty)
			}
			difficulty = parsed
		}

		card = models.Card{
			DeckID:     deck.ID,
			AuthorID:   actorID,
			FrontText:  front,
			BackText:   back,
			Difficulty: difficulty,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		return touchDeck(tx, deck.ID)
	})
	if err != nil {
		return nil, storeErr("CreateCard", "card", err)
	}

	s.log.Info("CreateCard: created card", zap.String("deck", deckID), zap.String("card", card.PublicID))
	return &card, nil
}

// UpdateCard applies patch to a card of a deck owned by actorID.
func (s *Service) UpdateCard(ctx context.Context, deckID, cardID string, actorID uint, patch CardPatch) (*models.Card, error) {
	var card models.Card
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := ownedDeck(tx, deckID, actorID)
		if err != nil {
			return err
		}
		if err := tx.Where("public_id = ? AND deck_id = ?", cardID, deck.ID).First(&card).Error; err != nil {
			return err
		}

		if patch.FrontText != nil {
			front := strings.TrimSpace(*patch.FrontText)
			if front == "" {
				return invalid("frontText cannot be blank")
			}
			card.FrontText = front
		}
		if patch.BackText != nil {
			back := strings.TrimSpace(*patch.BackText)
			if back == "" {
				return invalid("backText cannot be blank")
			}
			card.BackText = back
		}
		if patch.Difficulty != nil {
			difficulty, ok := models.ParseDifficulty(*patch.Difficulty)
			if !ok {
				return invalid("invalid difficulty %q", *patch.Difficulty)
			}
			card.Difficulty = difficulty
		}

		if err := tx.Save(&card).Error; err != nil {
			return err
		}
		return touchDeck(tx, deck.ID)
	})
	if err != nil {
		return nil, storeErr("UpdateCard", "card", err)
	}

	s.log.Info("UpdateCard: updated card", zap.String("deck", deckID), zap.String("card", cardID))
	return &card, nil
}

// DeleteCard removes a card of a deck owned by actorID.
func (s *Service) DeleteCard(ctx context.Context, deckID, cardID string, actorID uint) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := ownedDeck(tx, deckID, actorID)
		if err != nil {
			return err
		}
		var card models.Card
		if err := tx.Where("public_id = ? AND deck_id = ?", cardID, deck.ID).First(&card).Error; err != nil {
			return err
		}
		if err := tx.Where("card_id = ?", card.ID).Delete(&models.CardReview{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&card).Error; err != nil {
			return err
		}
		return touchDeck(tx, deck.ID)
	})
	if err != nil {
		return storeErr("DeleteCard", "card", err)
	}

	s.log.Info("DeleteCard: deleted card", zap.String("deck", deckID), zap.String("card", cardID))
	return nil
}

// ListCards returns the cards of a deck viewerID may see, oldest first.
func (s *Service) ListCards(ctx context.Context, deckID string, viewerID uint) ([]models.Card, error) {
	db := s.conn(ctx)
	deck, err := visibleDeck(db, deckID, viewerID)
	if err != nil {
		return nil, err
	}

	cards := []models.Card{}
	if err := orderCards(db.Where("deck_id = ?", deck.ID)).Find(&cards).Error; err != nil {
		return nil, storeErr("ListCards", "card", err)
	}
	return cards, nil
}

// GetCard returns one card of a deck viewerID may see.
func (s *Service) GetCard(ctx context.Context, deckID, cardID string, viewerID uint) (*models.Card, error) {
	db := s.conn(ctx)
	deck, err := visibleDeck(db, deckID, viewerID)
	if err != nil {
		return nil, err
	}

	var card models.Card
	if err := db.Where("public_id = ? AND deck_id = ?", cardID, deck.ID).First(&card).Error; err != nil {
		return nil, storeErr("GetCard", "card", err)
	}
	return &card, nil
}

// ReviewCard records one study attempt by viewerID and folds it into the
// card's review counter and success rate. Any viewer of the deck may study
// it. The deck's updated_at is left alone.
func (s *Service) ReviewCard(ctx context.Context, deckID, cardID string, viewerID uint, correct bool) (*models.Card, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	var card models.Card
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := visibleDeck(tx, deckID, viewerID)
		if err != nil {
			return err
		}
		if err := tx.Where("public_id = ? AND deck_id = ?", cardID, deck.ID).First(&card).Error; err != nil {
			return err
		}

		review := models.CardReview{UserID: viewerID, CardID: card.ID, Correct: correct}
		if err := tx.Omit("User", "Card").Create(&review).Error; err != nil {
			return err
		}

		card.SuccessRate = nextSuccessRate(card.SuccessRate, card.TimesReviewed, correct)
		card.TimesReviewed++
		return tx.Model(&card).UpdateColumns(map[string]interface{}{
			"times_reviewed": card.TimesReviewed,
			"success_rate":   card.SuccessRate,
		}).Error
	})
	if err != nil {
		return nil, storeErr("ReviewCard", "card", err)
	}

	s.log.Info("ReviewCard: recorded review",
		zap.String("card", cardID), zap.Uint("user", viewerID), zap.Bool("correct", correct))
	return &card, nil
}

// nextSuccessRate folds one more attempt into a running ratio over n
// previous attempts. The result stays within [0, 1].
func nextSuccessRate(rate float64, n int, correct bool) float64 {
	hit := 0.0
	if correct {
		hit = 1
	}
	next := (rate*float64(n) + hit) / float64(n+1)
	switch {
	case next < 0:
		return 0
	case next > 1:
		return 1
	}
	return next
}

func touchDeck(tx *gorm.DB, deckID uint) error {
	return tx.Model(&models.Deck{}).Where("id = ?", deckID).Update("updated_at", tx.NowFunc()).Error
}
