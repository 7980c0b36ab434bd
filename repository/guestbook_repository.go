package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	models "my-social/model"
)

const DefaultRating = 5

type GuestbookRepository interface {
	List(ctx context.Context) ([]models.GuestbookEntry, error)
	Create(ctx context.Context, entry *models.GuestbookEntry) error
}

type guestbookRepository struct {
	db *sqlx.DB
}

func NewGuestbookRepository(db *sqlx.DB) GuestbookRepository {
	return &guestbookRepository{db: db}
}

func (r *guestbookRepository) List(ctx context.Context) ([]models.GuestbookEntry, error) {
	query := `
		SELECT id, author_name, job, content, rating, contact, created_at
		FROM guestbook
		ORDER BY created_at DESC
	`

	entries := []models.GuestbookEntry{}
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list guestbook: %w", err)
	}
	return entries, nil
}

// Create inserts an entry. A zero rating is stored as DefaultRating.
func (r *guestbookRepository) Create(ctx context.Context, entry *models.GuestbookEntry) error {
	if entry.Rating == 0 {
		entry.Rating = DefaultRating
	}

	query := `
		INSERT INTO guestbook (author_name, job, content, rating, contact)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.AuthorName,
		entry.Job,
		entry.Content,
		entry.Rating,
		entry.Contact,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create guestbook entry: %w", err)
	}
	return nil
}
