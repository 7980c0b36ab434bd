package nats

import (
	"encoding/json"
	"fmt"
	"sync"
)

// LocalBus delivers events to subscribers of the same process. It stands in
// for NATS when no server is configured. Subjects match exactly.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func([]byte)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]func([]byte))}
}

func (b *LocalBus) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	b.mu.RLock()
	handlers := make([]func([]byte), 0, len(b.subs[subject]))
	for _, h := range b.subs[subject] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (b *LocalBus) Subscribe(subject string, handler func(data []byte)) (Unsubscribe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[subject] == nil {
		b.subs[subject] = make(map[int]func([]byte))
	}
	b.subs[subject][id] = handler

	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
		if len(b.subs[subject]) == 0 {
			delete(b.subs, subject)
		}
		return nil
	}, nil
}

func (b *LocalBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string]map[int]func([]byte))
}
