package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	models "my-social/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.PostWithCounts, error)
	List(ctx context.Context, first int32, after *string) (*models.PostConnection, error)
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	Delete(ctx context.Context, postID, userID int64) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postWithCountsQuery = `
	SELECT p.id, p.user_id, p.title, p.content, p.image_url, p.author_nickname, p.created_at,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count
	FROM posts p
`

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, title, content, image_url, author_nickname)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		post.UserID,
		post.Title,
		post.Content,
		post.ImageURL,
		post.AuthorNickname,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*models.PostWithCounts, error) {
	var post models.PostWithCounts
	err := r.db.GetContext(ctx, &post, postWithCountsQuery+` WHERE p.id = $1`, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// List returns posts newest first with keyset pagination over
// (created_at, id).
func (r *postRepository) List(ctx context.Context, first int32, after *string) (*models.PostConnection, error) {
	query := postWithCountsQuery
	args := []interface{}{}
	argCount := 0

	if after != nil && *after != "" {
		cursor, err := decodeCursor(*after)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		query += fmt.Sprintf(" WHERE (p.created_at, p.id) < ($%d, $%d)", argCount+1, argCount+2)
		args = append(args, cursor.Timestamp, cursor.ID)
		argCount += 2
	}

	query += " ORDER BY p.created_at DESC, p.id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argCount+1)
	args = append(args, first+1)

	posts := []models.PostWithCounts{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	hasNextPage := len(posts) > int(first)
	if hasNextPage {
		posts = posts[:first]
	}

	conn := &models.PostConnection{
		Posts:    posts,
		PageInfo: models.PageInfo{HasNextPage: hasNextPage},
	}
	if len(posts) > 0 {
		last := posts[len(posts)-1]
		endCursor := encodeCursor(last.CreatedAt, last.ID)
		conn.PageInfo.EndCursor = &endCursor
	}

	return conn, nil
}

func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	query := `
		SELECT id, user_id, title, content, image_url, author_nickname, created_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`

	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post owned by userID.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	return nil
}

type cursorData struct {
	Timestamp time.Time
	ID        int64
}

func encodeCursor(timestamp time.Time, id int64) string {
	cursor := fmt.Sprintf("%d:%d", timestamp.UnixNano(), id)
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

func decodeCursor(cursor string) (*cursorData, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	var nanos, id int64
	if _, err := fmt.Sscanf(string(decoded), "%d:%d", &nanos, &id); err != nil {
		return nil, fmt.Errorf("failed to parse cursor: %w", err)
	}

	return &cursorData{
		Timestamp: time.Unix(0, nanos),
		ID:        id,
	}, nil
}
