package service

import (
	"context"
	"testing"
	"time"

	"github.com/andrewpaige1/flashly-api/access"
	"github.com/andrewpaige1/flashly-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	cy := env.register(t, "cy")
	env.follow(t, bob, ada)

	env.deck(t, ada, "private", models.StatusPrivate)
	env.deck(t, ada, "followers", models.StatusFollowers)
	env.deck(t, ada, "public", models.StatusPublic)

	names := func(p *Profile) []string {
		var out []string
		for _, d := range p.Decks {
			out = append(out, d.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		viewer uint
		want   []string
	}{
		{"owner", ada.ID, []string{"public", "followers", "private"}},
		{"follower", bob.ID, []string{"public", "followers"}},
		{"stranger", cy.ID, []string{"public"}},
		{"anonymous", 0, []string{"public"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := env.svc.Profile(ctx, ada.PublicID, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(profile))
			assert.Equal(t, tt.viewer == bob.ID, profile.IsFollowing)
		})
	}
}

func TestProfileNesting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")

	bio := "likes maths"
	_, err := env.svc.UpdateProfile(ctx, ada.PublicID, ada.ID, ProfilePatch{Bio: &bio})
	require.NoError(t, err)

	tagged, err := env.svc.CreateDeck(ctx, ada.ID, DeckInput{
		Name:          "Tagged",
		PublishStatus: "public",
		Categories:    []string{"Math", "Algebra"},
	})
	require.NoError(t, err)
	for _, front := range []string{"one", "two", "three"} {
		env.card(t, ada, tagged, front)
	}
	env.deck(t, ada, "Empty", models.StatusPublic)

	profile, err := env.svc.Profile(ctx, ada.PublicID, 0)
	require.NoError(t, err)
	assert.Equal(t, ada.PublicID, profile.ID)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "likes maths", profile.Bio)
	require.Len(t, profile.Decks, 2)

	empty := profile.Decks[0]
	assert.Equal(t, "Empty", empty.Name)
	assert.Empty(t, empty.Cards)
	assert.Empty(t, empty.Categories)

	deck := profile.Decks[1]
	require.Len(t, deck.Cards, 3)
	assert.Equal(t, "one", deck.Cards[0].FrontText)
	assert.Equal(t, "three", deck.Cards[2].FrontText)
	assert.Equal(t, models.DifficultyEasy, deck.Cards[0].Difficulty)
	require.Len(t, deck.Categories, 2)
	assert.Equal(t, "Algebra", deck.Categories[0].Name)
	assert.Equal(t, "Math", deck.Categories[1].Name)

	_, err = env.svc.Profile(ctx, "missing", 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGroupProfileRows(t *testing.T) {
	ptr := func(s string) *string { return &s }
	id := func(n uint) *uint { return &n }
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Deck 1 has two cards and two categories, so the join yields four rows.
	rows := []profileRow{
		{DeckID: 1, DeckOwnerID: 7, DeckName: "d1", DeckPublishStatus: models.StatusPublic, DeckCreatedAt: now,
			CardID: id(10), CardFrontText: ptr("a"), CategoryID: id(100), CategoryName: ptr("Algebra")},
		{DeckID: 1, DeckOwnerID: 7, DeckName: "d1", DeckPublishStatus: models.StatusPublic, DeckCreatedAt: now,
			CardID: id(10), CardFrontText: ptr("a"), CategoryID: id(101), CategoryName: ptr("Math")},
		{DeckID: 1, DeckOwnerID: 7, DeckName: "d1", DeckPublishStatus: models.StatusPublic, DeckCreatedAt: now,
			CardID: id(11), CardFrontText: ptr("b"), CategoryID: id(100), CategoryName: ptr("Algebra")},
		{DeckID: 1, DeckOwnerID: 7, DeckName: "d1", DeckPublishStatus: models.StatusPublic, DeckCreatedAt: now,
			CardID: id(11), CardFrontText: ptr("b"), CategoryID: id(101), CategoryName: ptr("Math")},
		{DeckID: 2, DeckOwnerID: 7, DeckName: "d2", DeckPublishStatus: models.StatusPrivate, DeckCreatedAt: now,
			CardID: id(12), CardFrontText: ptr("secret")},
		{DeckID: 3, DeckOwnerID: 7, DeckName: "d3", DeckPublishStatus: models.StatusPublic, DeckCreatedAt: now},
	}

	decks := groupProfileRows(rows, access.Anonymous())
	require.Len(t, decks, 2)

	assert.Equal(t, "d1", decks[0].Name)
	require.Len(t, decks[0].Cards, 2)
	assert.Equal(t, "a", decks[0].Cards[0].FrontText)
	assert.Equal(t, "b", decks[0].Cards[1].FrontText)
	require.Len(t, decks[0].Categories, 2)
	assert.Equal(t, "Algebra", decks[0].Categories[0].Name)

	assert.Equal(t, "d3", decks[1].Name)
	assert.NotNil(t, decks[1].Cards)
	assert.Empty(t, decks[1].Cards)

	owner := groupProfileRows(rows, access.NewViewer(7, nil))
	require.Len(t, owner, 3)
	require.Len(t, owner[1].Cards, 1)
	assert.Equal(t, "secret", owner[1].Cards[0].FrontText)
}
