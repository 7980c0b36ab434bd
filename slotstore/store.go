// Package slotstore is a flat key-value store of named slots, each holding a
// JSON array of plain records. A slot is always read and written whole.
package slotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Slot names shared by every client of the store.
const (
	SlotUsers          = "users"
	SlotPosts          = "posts"
	SlotMessages       = "messages"
	SlotFollows        = "follows"
	SlotRecentSearches = "recentSearches"
)

var ErrMalformedSlot = errors.New("malformed slot")

// Store is the raw byte-level backend. Get reports ok=false for an absent slot.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, bool, error)
	Set(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

func LikesSlot(postID int64) string {
	return fmt.Sprintf("likes_%d", postID)
}

func BookmarksSlot(userID int64) string {
	return fmt.Sprintf("bookmarks_%d", userID)
}

// RecentSearchesSlot scopes the recent search list to one viewer.
func RecentSearchesSlot(userID int64) string {
	return fmt.Sprintf("%s_%d", SlotRecentSearches, userID)
}

func NotificationsSlot(userID int64) string {
	return fmt.Sprintf("notifications_%d", userID)
}

func PostImagesSlot(postID int64) string {
	return fmt.Sprintf("post_images_%d", postID)
}

// Read decodes a whole slot. An absent or empty slot yields an empty
// sequence; undecodable content is reported as ErrMalformedSlot.
func Read[T any](ctx context.Context, store Store, slot string) ([]T, error) {
	data, ok, err := store.Get(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedSlot, slot, err)
	}
	if records == nil {
		records = []T{}
	}

	return records, nil
}

// Write replaces the whole slot with records.
func Write[T any](ctx context.Context, store Store, slot string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", slot, err)
	}

	if err := store.Set(ctx, slot, data); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}

	return nil
}
