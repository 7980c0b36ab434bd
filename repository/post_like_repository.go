package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostLikeRepository is the likes table of the remote board.
type PostLikeRepository interface {
	Count(ctx context.Context, postID int64) (int32, error)
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
}

type postLikeRepository struct {
	db *sqlx.DB
}

func NewPostLikeRepository(db *sqlx.DB) PostLikeRepository {
	return &postLikeRepository{db: db}
}

func (r *postLikeRepository) Count(ctx context.Context, postID int64) (int32, error) {
	var count int32
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *postLikeRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID, userID); err != nil {
		return false, fmt.Errorf("failed to check like status: %w", err)
	}
	return exists, nil
}

func (r *postLikeRepository) Like(ctx context.Context, postID, userID int64) error {
	query := `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (r *postLikeRepository) Unlike(ctx context.Context, postID, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}
