package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

// BookmarkRepository keeps each user's saved posts in bookmarks_<userId>.
type BookmarkRepository interface {
	SetBookmarked(ctx context.Context, userID, postID int64, bookmarked bool) (*models.BookmarkStatus, error)
	List(ctx context.Context, userID int64) ([]models.Bookmark, error)
	ListPosts(ctx context.Context, userID int64) ([]models.PostWithImages, error)
}

type bookmarkRepository struct {
	slots *slotstore.Slots
	posts LocalPostRepository
}

func NewBookmarkRepository(slots *slotstore.Slots, posts LocalPostRepository) BookmarkRepository {
	return &bookmarkRepository{slots: slots, posts: posts}
}

func (r *bookmarkRepository) SetBookmarked(ctx context.Context, userID, postID int64, bookmarked bool) (*models.BookmarkStatus, error) {
	slot := slotstore.BookmarksSlot(userID)
	byPost := func(b models.Bookmark) bool { return b.PostID == postID }

	var err error
	if bookmarked {
		err = slotstore.Mutate(ctx, r.slots, slot, func(bookmarks []models.Bookmark) ([]models.Bookmark, bool, error) {
			if aggregate.Any(bookmarks, byPost) {
				return bookmarks, false, nil
			}
			return append(bookmarks, models.Bookmark{PostID: postID, CreatedAt: time.Now()}), true, nil
		})
	} else {
		_, err = slotstore.RemoveFirst(ctx, r.slots, slot, byPost)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	return &models.BookmarkStatus{PostID: postID, IsBookmarked: bookmarked}, nil
}

func (r *bookmarkRepository) List(ctx context.Context, userID int64) ([]models.Bookmark, error) {
	bookmarks, err := slotstore.Load[models.Bookmark](ctx, r.slots, slotstore.BookmarksSlot(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	return bookmarks, nil
}

// ListPosts resolves the user's bookmarks against the posts slot. Bookmarks
// of deleted posts are skipped.
func (r *bookmarkRepository) ListPosts(ctx context.Context, userID int64) ([]models.PostWithImages, error) {
	bookmarks, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	return r.posts.WithImages(ctx, aggregate.JoinBookmarks(bookmarks, aggregate.IndexPosts(posts)))
}
