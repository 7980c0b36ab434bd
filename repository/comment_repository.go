package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "my-social/model"
)

type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns a post's comments oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, author_nickname, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`

	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, content, author_nickname)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, content, author_nickname, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.AuthorNickname,
	).StructScan(comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}
