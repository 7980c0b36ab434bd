package repository

import (
	"context"
	"fmt"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

// LocalUserRepository reads and edits the users slot that conversations and
// profiles join against.
type LocalUserRepository interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, input *models.UpdateUserInput) (bool, error)
	Upsert(ctx context.Context, user models.User) error
}

type localUserRepository struct {
	slots *slotstore.Slots
}

func NewLocalUserRepository(slots *slotstore.Slots) LocalUserRepository {
	return &localUserRepository{slots: slots}
}

func (r *localUserRepository) Get(ctx context.Context, userID int64) (*models.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := aggregate.IndexUsers(users)[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return &user, nil
}

func (r *localUserRepository) List(ctx context.Context) ([]models.User, error) {
	users, err := slotstore.Load[models.User](ctx, r.slots, slotstore.SlotUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// UpdateProfile edits the stored record in place. It reports false when the
// user has no record in the slot.
func (r *localUserRepository) UpdateProfile(ctx context.Context, userID int64, input *models.UpdateUserInput) (bool, error) {
	n, err := slotstore.UpdateWhere(ctx, r.slots, slotstore.SlotUsers,
		func(u models.User) bool { return u.ID == userID },
		func(u *models.User) { applyUserUpdate(u, input) },
	)
	if err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return n > 0, nil
}

// Upsert mirrors a user record into the slot, replacing any record with the
// same id.
func (r *localUserRepository) Upsert(ctx context.Context, user models.User) error {
	user.PasswordHash = ""

	err := slotstore.Mutate(ctx, r.slots, slotstore.SlotUsers, func(users []models.User) ([]models.User, bool, error) {
		for i := range users {
			if users[i].ID == user.ID {
				users[i] = user
				return users, true, nil
			}
		}
		return append(users, user), true, nil
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func applyUserUpdate(u *models.User, input *models.UpdateUserInput) {
	if input.Nickname != nil {
		u.Nickname = *input.Nickname
	}
	if input.Bio != nil {
		u.Bio = *input.Bio
	}
	if input.ProfileImage != nil {
		u.ProfileImage = input.ProfileImage
	}
	if input.IsPrivate != nil {
		u.IsPrivate = *input.IsPrivate
	}
}
