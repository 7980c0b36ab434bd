package repository

import (
	"context"
	"fmt"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

const RecentSearchLimit = 10

// SearchRepository keeps each viewer's recently opened profiles.
type SearchRepository interface {
	Recent(ctx context.Context, ownerID int64) ([]models.RecentSearch, error)
	Push(ctx context.Context, ownerID int64, user models.RecentSearch) ([]models.RecentSearch, error)
	Remove(ctx context.Context, ownerID, userID int64) ([]models.RecentSearch, error)
	Clear(ctx context.Context, ownerID int64) error
}

type searchRepository struct {
	slots *slotstore.Slots
}

func NewSearchRepository(slots *slotstore.Slots) SearchRepository {
	return &searchRepository{slots: slots}
}

func (r *searchRepository) Recent(ctx context.Context, ownerID int64) ([]models.RecentSearch, error) {
	list, err := slotstore.Load[models.RecentSearch](ctx, r.slots, slotstore.RecentSearchesSlot(ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}
	return list, nil
}

// Push moves user to the front of the recent list, keeping ten entries.
func (r *searchRepository) Push(ctx context.Context, ownerID int64, user models.RecentSearch) ([]models.RecentSearch, error) {
	var updated []models.RecentSearch
	err := slotstore.Mutate(ctx, r.slots, slotstore.RecentSearchesSlot(ownerID), func(list []models.RecentSearch) ([]models.RecentSearch, bool, error) {
		updated = aggregate.PushRecentSearch(list, user, RecentSearchLimit)
		return updated, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save recent search: %w", err)
	}
	return updated, nil
}

func (r *searchRepository) Remove(ctx context.Context, ownerID, userID int64) ([]models.RecentSearch, error) {
	_, err := slotstore.RemoveWhere(ctx, r.slots, slotstore.RecentSearchesSlot(ownerID), func(s models.RecentSearch) bool {
		return s.ID == userID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove recent search: %w", err)
	}
	return r.Recent(ctx, ownerID)
}

func (r *searchRepository) Clear(ctx context.Context, ownerID int64) error {
	return r.slots.Clear(ctx, slotstore.RecentSearchesSlot(ownerID))
}
