package notification

import (
	"context"
	"sync"
	"time"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Scheduled
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]Scheduled)}
}

func (s *InMemoryStore) Merge(_ context.Context, notifications []Scheduled) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, n := range notifications {
		if existing, exists := s.entries[n.ID]; exists {
			if existing.Sent {
				continue
			}
		} else {
			added++
		}
		s.entries[n.ID] = n
	}
	return added, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Scheduled, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Scheduled, 0, len(s.entries))
	for _, n := range s.entries {
		entries = append(entries, n)
	}
	return entries, nil
}

func (s *InMemoryStore) MarkSent(_ context.Context, ids []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		n, exists := s.entries[id]
		if !exists || n.Sent {
			continue
		}
		n.Sent = true
		sentAt := at
		n.SentAt = &sentAt
		s.entries[id] = n
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}
