package repository

import (
	"context"
	"errors"
	"fmt"

	models "my-social/model"
)

type ProfileRepository interface {
	Load(ctx context.Context, viewer *models.User, targetID int64) (*models.Profile, error)
}

type profileRepository struct {
	users     LocalUserRepository
	posts     LocalPostRepository
	follows   FollowRepository
	bookmarks BookmarkRepository
}

func NewProfileRepository(users LocalUserRepository, posts LocalPostRepository, follows FollowRepository, bookmarks BookmarkRepository) ProfileRepository {
	return &profileRepository{
		users:     users,
		posts:     posts,
		follows:   follows,
		bookmarks: bookmarks,
	}
}

// Load assembles the profile of targetID as seen by viewer. The viewer's
// own profile uses the viewer record and includes bookmarks; any other
// profile requires a record in the users slot.
func (r *profileRepository) Load(ctx context.Context, viewer *models.User, targetID int64) (*models.Profile, error) {
	own := viewer != nil && viewer.ID == targetID

	var display models.User
	if own {
		display = *viewer
	} else {
		found, err := r.users.Get(ctx, targetID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		display = *found
	}

	posts, err := r.posts.ByUser(ctx, display.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile posts: %w", err)
	}

	stats, err := r.follows.Counts(ctx, display.ID)
	if err != nil {
		return nil, err
	}
	stats.PostsCount = len(posts)

	profile := &models.Profile{
		User:         display.Summary(),
		IsPrivate:    display.IsPrivate,
		Posts:        posts,
		IsOwnProfile: own,
		Stats:        *stats,
	}

	if viewer != nil {
		profile.IsFollowing, err = r.follows.IsFollowing(ctx, viewer.ID, display.ID)
		if err != nil {
			return nil, err
		}
	}

	if own {
		profile.Bookmarks, err = r.bookmarks.ListPosts(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookmarks: %w", err)
		}
	}

	return profile, nil
}
