package service

import (
	"context"
	"errors"

	"github.com/andrewpaige1/flashly-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Follow adds the edge followerID -> followed.
func (s *Service) Follow(ctx context.Context, followerID uint, followedID string) error {
	if followerID == 0 {
		return ErrUnauthenticated
	}

	var target models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var follower models.User
		if err := tx.First(&follower, followerID).Error; err != nil {
			return err
		}
		if err := tx.Where("public_id = ?", followedID).First(&target).Error; err != nil {
			return err
		}
		if target.ID == follower.ID {
			return ErrSelfFollow
		}

		taken, err := exists(tx.Model(&models.Follow{}).
			Where("follower_id = ? AND followed_id = ?", follower.ID, target.ID))
		if err != nil {
			return err
		}
		if taken {
			return ErrAlreadyFollowing
		}

		edge := models.Follow{FollowerID: follower.ID, FollowedID: target.ID}
		if err := tx.Omit("Follower", "Followed").Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
	if err != nil {
		return storeErr("Follow", "user", err)
	}

	s.log.Info("Follow: created edge", zap.Uint("follower", followerID), zap.String("followed", target.PublicID))
	return nil
}

// Unfollow removes the edge followerID -> followed. Removing an edge that
// does not exist fails with ErrNotFollowing, also on repeated calls.
func (s *Service) Unfollow(ctx context.Context, followerID uint, followedID string) error {
	if followerID == 0 {
		return ErrUnauthenticated
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Where("public_id = ?", followedID).First(&target).Error; err != nil {
			return err
		}
		result := tx.Where("follower_id = ? AND followed_id = ?", followerID, target.ID).Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFollowing
		}
		return nil
	})
	if err != nil {
		return storeErr("Unfollow", "user", err)
	}

	s.log.Info("Unfollow: removed edge", zap.Uint("follower", followerID), zap.String("followed", followedID))
	return nil
}

// ListFollowers returns the users following userID, newest edge first.
func (s *Service) ListFollowers(ctx context.Context, userID string) ([]models.User, error) {
	return s.listEdges(ctx, "ListFollowers", userID, "follows.follower_id", "follows.followed_id")
}

// ListFollowing returns the users userID follows, newest edge first.
func (s *Service) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	return s.listEdges(ctx, "ListFollowing", userID, "follows.followed_id", "follows.follower_id")
}

func (s *Service) listEdges(ctx context.Context, op, userID, joinCol, matchCol string) ([]models.User, error) {
	db := s.conn(ctx)

	var target models.User
	if err := db.Where("public_id = ?", userID).First(&target).Error; err != nil {
		return nil, storeErr(op, "user", err)
	}

	users := []models.User{}
	err := db.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(matchCol+" = ?", target.ID).
		Order("follows.created_at DESC, follows.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, storeErr(op, "user", err)
	}
	return users, nil
}

func (s *Service) followCounts(tx *gorm.DB, userID uint) (followers, following int64, err error) {
	if err = tx.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err = tx.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
