package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	models "my-social/model"
)

const userColumns = `id, username, password_hash, nickname, profile_image, bio, is_private, created_at`

// UserRepository is the account table of the remote table service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, userIDs []int64) ([]models.User, error)
	Update(ctx context.Context, userID int64, input *models.UpdateUserInput) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
	ListRecent(ctx context.Context, limit int) ([]models.UserSummary, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create checks the username before inserting. The unique index still
// rejects a concurrent duplicate, reported as ErrAlreadyExists as well.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, user.Username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return fmt.Errorf("username %q: %w", user.Username, ErrAlreadyExists)
	}

	query := `
		INSERT INTO users (username, password_hash, nickname, profile_image, bio, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Nickname,
		user.ProfileImage,
		user.Bio,
		user.IsPrivate,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", user.Username, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, userID int64, input *models.UpdateUserInput) (*models.User, error) {
	var sets []string
	var args []interface{}
	argCount := 1

	if input.Nickname != nil {
		sets = append(sets, fmt.Sprintf("nickname = $%d", argCount))
		args = append(args, *input.Nickname)
		argCount++
	}

	if input.Bio != nil {
		sets = append(sets, fmt.Sprintf("bio = $%d", argCount))
		args = append(args, *input.Bio)
		argCount++
	}

	if input.ProfileImage != nil {
		sets = append(sets, fmt.Sprintf("profile_image = $%d", argCount))
		args = append(args, *input.ProfileImage)
		argCount++
	}

	if input.IsPrivate != nil {
		sets = append(sets, fmt.Sprintf("is_private = $%d", argCount))
		args = append(args, *input.IsPrivate)
		argCount++
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, userID)
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), argCount, userColumns)
	args = append(args, userID)

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// Search matches the query case-insensitively against nickname or username.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"

	sqlQuery := `
		SELECT id, username, nickname, profile_image, bio
		FROM users
		WHERE nickname ILIKE $1 OR username ILIKE $1
		LIMIT $2
	`

	users := []models.UserSummary{}
	if err := r.db.SelectContext(ctx, &users, sqlQuery, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListRecent(ctx context.Context, limit int) ([]models.UserSummary, error) {
	query := `
		SELECT id, username, nickname, profile_image, bio
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`

	users := []models.UserSummary{}
	if err := r.db.SelectContext(ctx, &users, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// isUniqueViolation recognizes SQLSTATE 23505 from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
