package service

import (
	"context"
	"testing"

	"github.com/andrewpaige1/flashly-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeCount(t *testing.T, env *testEnv) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func TestFollowUnfollow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	require.NoError(t, env.svc.Follow(ctx, ada.ID, bob.PublicID))
	assert.Equal(t, int64(1), edgeCount(t, env))

	err := env.svc.Follow(ctx, ada.ID, bob.PublicID)
	require.ErrorIs(t, err, ErrAlreadyFollowing)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, env.svc.Unfollow(ctx, ada.ID, bob.PublicID))
	assert.Equal(t, int64(0), edgeCount(t, env))

	err = env.svc.Unfollow(ctx, ada.ID, bob.PublicID)
	require.ErrorIs(t, err, ErrNotFollowing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowRemovesOnlyOneEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	cy := env.register(t, "cy")

	env.follow(t, ada, bob)
	env.follow(t, bob, ada)
	env.follow(t, ada, cy)

	require.NoError(t, env.svc.Unfollow(ctx, ada.ID, bob.PublicID))
	assert.Equal(t, int64(2), edgeCount(t, env))
}

func TestFollowErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")

	err := env.svc.Follow(ctx, ada.ID, ada.PublicID)
	require.ErrorIs(t, err, ErrSelfFollow)
	require.ErrorIs(t, err, ErrValidation)

	err = env.svc.Follow(ctx, ada.ID, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	err = env.svc.Follow(ctx, 0, ada.PublicID)
	require.ErrorIs(t, err, ErrUnauthenticated)

	err = env.svc.Unfollow(ctx, ada.ID, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, int64(0), edgeCount(t, env))
}

func TestFollowConstraintsHoldInStore(t *testing.T) {
	env := newTestEnv(t)
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")

	self := models.Follow{FollowerID: ada.ID, FollowedID: ada.ID}
	require.Error(t, env.db.Omit("Follower", "Followed").Create(&self).Error)

	first := models.Follow{FollowerID: ada.ID, FollowedID: bob.ID}
	require.NoError(t, env.db.Omit("Follower", "Followed").Create(&first).Error)
	dup := models.Follow{FollowerID: ada.ID, FollowedID: bob.ID}
	require.Error(t, env.db.Omit("Follower", "Followed").Create(&dup).Error)
}

func TestListFollowersAndFollowing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.register(t, "ada")
	bob := env.register(t, "bob")
	cy := env.register(t, "cy")

	env.follow(t, bob, ada)
	env.follow(t, cy, ada)
	env.follow(t, ada, cy)

	followers, err := env.svc.ListFollowers(ctx, ada.PublicID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "cy", followers[0].Username)
	assert.Equal(t, "bob", followers[1].Username)

	following, err := env.svc.ListFollowing(ctx, ada.PublicID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "cy", following[0].Username)

	none, err := env.svc.ListFollowing(ctx, bob.PublicID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = env.svc.ListFollowers(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
