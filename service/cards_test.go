package service

import (
	"context"
	"testing"

	"github.com/andrewpaige1/flashly-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCardDifficulty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	deck := env.deck(t, ada, "Deck", models.StatusPrivate)

	_, err := env.svc.CreateCard(ctx, deck.PublicID, ada.ID, CardInput{
		FrontText: "hola", BackText: "hello", Difficulty: "extreme",
	})
	require.ErrorIs(t, err, ErrValidation)

	card, err := env.svc.CreateCard(ctx, deck.PublicID, ada.ID, CardInput{FrontText: "hola", BackText: "hello"})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyEasy, card.Difficulty)
	assert.Equal(t, ada.ID, card.AuthorID)

	card, err = env.svc.CreateCard(ctx, deck.PublicID, ada.ID, CardInput{
		FrontText: "adiós", BackText: "goodbye", Difficulty: "HARD",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyHard, card.Difficulty)

	_, err = env.svc.CreateCard(ctx, deck.PublicID, ada.ID, CardInput{FrontText: "only front"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.CreateCard(ctx, "missing", ada.ID, CardInput{FrontText: "a", BackText: "b"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCardChecksOwnershipFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	deck := env.deck(t, ada, "Deck", models.StatusPublic)

	invalidCards := []CardInput{
		{},
		{FrontText: " ", BackText: "b"},
		{FrontText: "a", BackText: "b", Difficulty: "extreme"},
	}
	for _, in := range invalidCards {
		_, err := env.svc.CreateCard(ctx, deck.PublicID, bob.ID, in)
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.svc.CreateCard(ctx, "missing", ada.ID, in)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = env.svc.CreateCard(ctx, deck.PublicID, 0, in)
		require.ErrorIs(t, err, ErrUnauthenticated)

		_, err = env.svc.CreateCard(ctx, deck.PublicID, ada.ID, in)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestCardMutationsBumpDeck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	deck := env.deck(t, ada, "Deck", models.StatusPrivate)

	updatedAt := func() models.Deck {
		var d models.Deck
		require.NoError(t, env.db.First(&d, deck.ID).Error)
		return d
	}

	last := updatedAt().UpdatedAt
	card := env.card(t, ada, deck, "front")
	afterCreate := updatedAt().UpdatedAt
	assert.True(t, afterCreate.After(last))

	back := "new back"
	updated, err := env.svc.UpdateCard(ctx, deck.PublicID, card.PublicID, ada.ID, CardPatch{BackText: &back})
	require.NoError(t, err)
	assert.Equal(t, "front", updated.FrontText)
	assert.Equal(t, "new back", updated.BackText)
	afterUpdate := updatedAt().UpdatedAt
	assert.True(t, afterUpdate.After(afterCreate))

	require.NoError(t, env.svc.DeleteCard(ctx, deck.PublicID, card.PublicID, ada.ID))
	assert.True(t, updatedAt().UpdatedAt.After(afterUpdate))

	_, err = env.svc.GetCard(ctx, deck.PublicID, card.PublicID, ada.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCardValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	deck := env.deck(t, ada, "Deck", models.StatusPrivate)
	other := env.deck(t, ada, "Other", models.StatusPrivate)
	card := env.card(t, ada, deck, "front")

	blank := "  "
	_, err := env.svc.UpdateCard(ctx, deck.PublicID, card.PublicID, ada.ID, CardPatch{FrontText: &blank})
	require.ErrorIs(t, err, ErrValidation)

	bad := "extreme"
	_, err = env.svc.UpdateCard(ctx, deck.PublicID, card.PublicID, ada.ID, CardPatch{Difficulty: &bad})
	require.ErrorIs(t, err, ErrValidation)

	medium := "medium"
	updated, err := env.svc.UpdateCard(ctx, deck.PublicID, card.PublicID, ada.ID, CardPatch{Difficulty: &medium})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, updated.Difficulty)

	// A card is only addressable through its own deck.
	_, err = env.svc.UpdateCard(ctx, other.PublicID, card.PublicID, ada.ID, CardPatch{Difficulty: &medium})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	deck := env.deck(t, ada, "Deck", models.StatusFollowers)
	env.card(t, ada, deck, "first")
	env.card(t, ada, deck, "second")

	cards, err := env.svc.ListCards(ctx, deck.PublicID, ada.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "first", cards[0].FrontText)
	assert.Equal(t, "second", cards[1].FrontText)

	_, err = env.svc.ListCards(ctx, deck.PublicID, bob.ID)
	require.ErrorIs(t, err, ErrForbidden)

	env.follow(t, bob, ada)
	cards, err = env.svc.ListCards(ctx, deck.PublicID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	empty := env.deck(t, ada, "Empty", models.StatusPublic)
	cards, err = env.svc.ListCards(ctx, empty.PublicID, 0)
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestReviewCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	deck := env.deck(t, ada, "Deck", models.StatusPublic)
	card := env.card(t, ada, deck, "front")

	var before models.Deck
	require.NoError(t, env.db.First(&before, deck.ID).Error)

	for _, correct := range []bool{true, false, true, true} {
		_, err := env.svc.ReviewCard(ctx, deck.PublicID, card.PublicID, bob.ID, correct)
		require.NoError(t, err)
	}

	got, err := env.svc.GetCard(ctx, deck.PublicID, card.PublicID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TimesReviewed)
	assert.InDelta(t, 0.75, got.SuccessRate, 1e-9)

	var reviews int64
	require.NoError(t, env.db.Model(&models.CardReview{}).Where("card_id = ?", card.ID).Count(&reviews).Error)
	assert.Equal(t, int64(4), reviews)

	var after models.Deck
	require.NoError(t, env.db.First(&after, deck.ID).Error)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))

	_, err = env.svc.ReviewCard(ctx, deck.PublicID, card.PublicID, 0, true)
	require.ErrorIs(t, err, ErrUnauthenticated)

	private := env.deck(t, ada, "Private", models.StatusPrivate)
	hidden := env.card(t, ada, private, "hidden")
	_, err = env.svc.ReviewCard(ctx, private.PublicID, hidden.PublicID, bob.ID, true)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestNextSuccessRate(t *testing.T) {
	tests := []struct {
		rate    float64
		n       int
		correct bool
		want    float64
	}{
		{0, 0, true, 1},
		{0, 0, false, 0},
		{1, 1, false, 0.5},
		{0.5, 2, true, 2.0 / 3.0},
		{1, 9, true, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, nextSuccessRate(tt.rate, tt.n, tt.correct), 1e-9)
	}
}
