package slotstore

import (
	"context"
	"errors"
	"testing"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestReadAbsentSlotIsEmpty(t *testing.T) {
	store := NewMemoryStore()

	got, err := Read[record](context.Background(), store, "missing")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReadNullSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, SlotUsers, []byte("null"))

	got, err := Read[record](ctx, store, SlotUsers)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %d records", len(got))
	}
}

func TestReadMalformedSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, SlotMessages, []byte("{not json"))

	_, err := Read[record](ctx, store, SlotMessages)
	if !errors.Is(err, ErrMalformedSlot) {
		t.Fatalf("expected ErrMalformedSlot, got %v", err)
	}
}

func TestWriteReplacesContent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := Write(ctx, store, SlotPosts, []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(ctx, store, SlotPosts, []record{{ID: 3, Name: "c"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read[record](ctx, store, SlotPosts)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only record 3, got %#v", got)
	}
}

func TestWriteNilStoresEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := Write[record](ctx, store, SlotFollows, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, ok, _ := store.Get(ctx, SlotFollows)
	if !ok || string(data) != "[]" {
		t.Fatalf("expected [] stored, got %q (ok=%v)", data, ok)
	}
}

func TestSlotNames(t *testing.T) {
	cases := map[string]string{
		LikesSlot(42):         "likes_42",
		BookmarksSlot(7):      "bookmarks_7",
		PostImagesSlot(99):    "post_images_99",
		RecentSearchesSlot(3): "recentSearches_3",
		NotificationsSlot(5):  "notifications_5",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("slot name %q, want %q", got, want)
		}
	}
}
