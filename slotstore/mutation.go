package slotstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// IDGenerator issues record ids for appended records.
type IDGenerator interface {
	NextID() int64
}

// MonotonicClock issues epoch-millisecond ids, stepping past the previous id
// when the clock has not advanced. Uniqueness holds within one process only.
type MonotonicClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

func (c *MonotonicClock) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Slots owns a Store for read-modify-write mutations. Mutations made through
// one Slots are serialized; there is no coordination with other owners of
// the same backend and no atomicity across slots.
type Slots struct {
	store Store
	ids   IDGenerator
	mu    sync.Mutex
}

func New(store Store, ids IDGenerator) *Slots {
	if ids == nil {
		ids = NewMonotonicClock()
	}
	return &Slots{
		store: store,
		ids:   ids,
	}
}

func (s *Slots) Store() Store {
	return s.store
}

func (s *Slots) NextID() int64 {
	return s.ids.NextID()
}

// Load reads a slot through the owned store.
func Load[T any](ctx context.Context, s *Slots, slot string) ([]T, error) {
	return Read[T](ctx, s.store, slot)
}

// Mutate reads the full slot, applies fn and writes the result back when fn
// reports a change.
func Mutate[T any](ctx context.Context, s *Slots, slot string, fn func(records []T) ([]T, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := Read[T](ctx, s.store, slot)
	if err != nil {
		return err
	}

	updated, changed, err := fn(records)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return Write(ctx, s.store, slot, updated)
}

// Append pushes record onto the end of the slot.
func Append[T any](ctx context.Context, s *Slots, slot string, record T) (T, error) {
	err := Mutate(ctx, s, slot, func(records []T) ([]T, bool, error) {
		return append(records, record), true, nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to append to %s: %w", slot, err)
	}
	return record, nil
}

// AppendWithID builds the record with a freshly issued id and appends it.
func AppendWithID[T any](ctx context.Context, s *Slots, slot string, build func(id int64) T) (T, error) {
	return Append(ctx, s, slot, build(s.ids.NextID()))
}

// RemoveWhere drops every record matching pred and returns how many were
// dropped. The slot is not rewritten when nothing matches.
func RemoveWhere[T any](ctx context.Context, s *Slots, slot string, pred func(T) bool) (int, error) {
	removed := 0
	err := Mutate(ctx, s, slot, func(records []T) ([]T, bool, error) {
		kept := make([]T, 0, len(records))
		for _, r := range records {
			if pred(r) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove from %s: %w", slot, err)
	}
	return removed, nil
}

// RemoveFirst drops only the first record matching pred.
func RemoveFirst[T any](ctx context.Context, s *Slots, slot string, pred func(T) bool) (bool, error) {
	found := false
	err := Mutate(ctx, s, slot, func(records []T) ([]T, bool, error) {
		for i, r := range records {
			if pred(r) {
				found = true
				return append(records[:i], records[i+1:]...), true, nil
			}
		}
		return records, false, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove from %s: %w", slot, err)
	}
	return found, nil
}

// UpdateWhere applies fn to every record matching pred and returns how many
// were updated.
func UpdateWhere[T any](ctx context.Context, s *Slots, slot string, pred func(T) bool, fn func(*T)) (int, error) {
	updated := 0
	err := Mutate(ctx, s, slot, func(records []T) ([]T, bool, error) {
		for i := range records {
			if pred(records[i]) {
				fn(&records[i])
				updated++
			}
		}
		return records, updated > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", slot, err)
	}
	return updated, nil
}

// Replace overwrites a slot wholesale.
func Replace[T any](ctx context.Context, s *Slots, slot string, records []T) error {
	return Mutate(ctx, s, slot, func([]T) ([]T, bool, error) {
		return records, true, nil
	})
}

// Clear removes a slot entirely.
func (s *Slots) Clear(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, slot); err != nil {
		return fmt.Errorf("failed to clear %s: %w", slot, err)
	}
	return nil
}
