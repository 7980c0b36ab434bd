package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followingID int64) (*models.FollowStatus, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	Counts(ctx context.Context, userID int64) (*models.ProfileStats, error)
}

type followRepository struct {
	slots *slotstore.Slots
}

func NewFollowRepository(slots *slotstore.Slots) FollowRepository {
	return &followRepository{slots: slots}
}

// Toggle removes every follower→following edge when one exists and appends
// a new edge otherwise.
func (r *followRepository) Toggle(ctx context.Context, followerID, followingID int64) (*models.FollowStatus, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	var following bool
	var followers int

	edge := aggregate.Edge(followerID, followingID)
	err := slotstore.Mutate(ctx, r.slots, slotstore.SlotFollows, func(follows []models.Follow) ([]models.Follow, bool, error) {
		if aggregate.Any(follows, edge) {
			follows = aggregate.Filter(follows, func(f models.Follow) bool { return !edge(f) })
		} else {
			follows = append(follows, models.Follow{
				ID:          r.slots.NextID(),
				FollowerID:  followerID,
				FollowingID: followingID,
				CreatedAt:   time.Now(),
			})
			following = true
		}
		followers = aggregate.Count(follows, aggregate.Following(followingID))
		return follows, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle follow: %w", err)
	}

	return &models.FollowStatus{
		UserID:         followingID,
		IsFollowing:    following,
		FollowersCount: followers,
	}, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	follows, err := slotstore.Load[models.Follow](ctx, r.slots, slotstore.SlotFollows)
	if err != nil {
		return false, fmt.Errorf("failed to check following status: %w", err)
	}
	return aggregate.IsFollowing(follows, followerID, followingID), nil
}

// Counts reports followers and following for userID. PostsCount is left
// zero; ProfileRepository fills it from the posts slot.
func (r *followRepository) Counts(ctx context.Context, userID int64) (*models.ProfileStats, error) {
	follows, err := slotstore.Load[models.Follow](ctx, r.slots, slotstore.SlotFollows)
	if err != nil {
		return nil, fmt.Errorf("failed to get follow counts: %w", err)
	}

	stats := aggregate.ProfileStats(nil, follows, userID)
	return &stats, nil
}
