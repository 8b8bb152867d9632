package audit

import (
	"context"
	"sync"
)

// InMemoryStore backs tests and the dev profile.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []Event
	for _, event := range s.events {
		if event.SubjectID == subjectID {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	recent := make([]Event, limit)
	copy(recent, s.events[len(s.events)-limit:])
	return recent, nil
}

// All returns every event in append order; test helper.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}
