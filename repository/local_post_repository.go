package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

// LocalPostRepository reads the posts slot and the post_images_<id> slots
// that hold each post's gallery.
type LocalPostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ByID(ctx context.Context, postID int64) (*models.Post, error)
	ByUser(ctx context.Context, userID int64) ([]models.PostWithImages, error)
	Create(ctx context.Context, post models.Post, images []models.PostImage) (*models.PostWithImages, error)
	WithImages(ctx context.Context, posts []models.Post) ([]models.PostWithImages, error)
	Delete(ctx context.Context, postID int64) error
}

type localPostRepository struct {
	slots *slotstore.Slots
}

func NewLocalPostRepository(slots *slotstore.Slots) LocalPostRepository {
	return &localPostRepository{slots: slots}
}

func (r *localPostRepository) List(ctx context.Context) ([]models.Post, error) {
	posts, err := slotstore.Load[models.Post](ctx, r.slots, slotstore.SlotPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return posts, nil
}

func (r *localPostRepository) ByID(ctx context.Context, postID int64) (*models.Post, error) {
	posts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	post, ok := aggregate.IndexPosts(posts)[postID]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	return &post, nil
}

func (r *localPostRepository) ByUser(ctx context.Context, userID int64) ([]models.PostWithImages, error) {
	posts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return r.WithImages(ctx, aggregate.Filter(posts, aggregate.AuthoredBy(userID)))
}

// Create appends the post, issuing an id when it has none, then writes its
// gallery slot. The two writes are independent.
func (r *localPostRepository) Create(ctx context.Context, post models.Post, images []models.PostImage) (*models.PostWithImages, error) {
	if post.ID == 0 {
		post.ID = r.slots.NextID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	if _, err := slotstore.Append(ctx, r.slots, slotstore.SlotPosts, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if images == nil {
		images = []models.PostImage{}
	}
	if len(images) > 0 {
		if err := slotstore.Replace(ctx, r.slots, slotstore.PostImagesSlot(post.ID), images); err != nil {
			return nil, fmt.Errorf("failed to save post images: %w", err)
		}
	}

	return &models.PostWithImages{Post: post, Images: images}, nil
}

func (r *localPostRepository) WithImages(ctx context.Context, posts []models.Post) ([]models.PostWithImages, error) {
	out := make([]models.PostWithImages, 0, len(posts))
	for _, p := range posts {
		images, err := slotstore.Load[models.PostImage](ctx, r.slots, slotstore.PostImagesSlot(p.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to load images for post %d: %w", p.ID, err)
		}
		out = append(out, models.PostWithImages{Post: p, Images: images})
	}
	return out, nil
}

// Delete drops the post record and its gallery slot. Bookmarks pointing at
// it are left alone and skipped on read.
func (r *localPostRepository) Delete(ctx context.Context, postID int64) error {
	if _, err := slotstore.RemoveWhere(ctx, r.slots, slotstore.SlotPosts, func(p models.Post) bool {
		return p.ID == postID
	}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if err := r.slots.Clear(ctx, slotstore.PostImagesSlot(postID)); err != nil {
		return fmt.Errorf("failed to delete post images: %w", err)
	}
	return nil
}
