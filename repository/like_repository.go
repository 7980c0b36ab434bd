package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

// LikeRepository keeps per-post likes in likes_<postId> slots.
type LikeRepository interface {
	// SetLiked reports whether the slot changed alongside the new summary.
	SetLiked(ctx context.Context, postID, userID int64, liked bool) (*models.LikeInfo, bool, error)
	Summary(ctx context.Context, postID, userID int64) (*models.LikeInfo, error)
}

type likeRepository struct {
	slots *slotstore.Slots
}

func NewLikeRepository(slots *slotstore.Slots) LikeRepository {
	return &likeRepository{slots: slots}
}

// SetLiked appends a like when liked and the user has none, and removes the
// user's first like otherwise.
func (r *likeRepository) SetLiked(ctx context.Context, postID, userID int64, liked bool) (*models.LikeInfo, bool, error) {
	slot := slotstore.LikesSlot(postID)
	byUser := func(l models.Like) bool { return l.UserID == userID }

	var changed bool
	var err error
	if liked {
		err = slotstore.Mutate(ctx, r.slots, slot, func(likes []models.Like) ([]models.Like, bool, error) {
			if aggregate.Any(likes, byUser) {
				return likes, false, nil
			}
			changed = true
			return append(likes, models.Like{UserID: userID, CreatedAt: time.Now()}), true, nil
		})
	} else {
		changed, err = slotstore.RemoveFirst(ctx, r.slots, slot, byUser)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to update like: %w", err)
	}

	info, err := r.Summary(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}
	return info, changed, nil
}

func (r *likeRepository) Summary(ctx context.Context, postID, userID int64) (*models.LikeInfo, error) {
	likes, err := slotstore.Load[models.Like](ctx, r.slots, slotstore.LikesSlot(postID))
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	info := aggregate.LikeSummary(postID, likes, userID)
	return &info, nil
}
