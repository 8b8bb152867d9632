package negotiation

import (
	"context"
	"sort"
	"sync"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// InMemoryStore backs tests and the dev profile.
type InMemoryStore struct {
	mu           sync.RWMutex
	negotiations map[id.NegotiationID]*Negotiation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{negotiations: make(map[id.NegotiationID]*Negotiation)}
}

func (s *InMemoryStore) Get(_ context.Context, negotiationID id.NegotiationID) (*Negotiation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	negotiation, ok := s.negotiations[negotiationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return negotiation.clone(), nil
}

func (s *InMemoryStore) Put(_ context.Context, negotiation *Negotiation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.negotiations[negotiation.ID] = negotiation.clone()
	return nil
}

func (s *InMemoryStore) ListByPassenger(_ context.Context, passengerID id.PassengerID) ([]*Negotiation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*Negotiation
	for _, negotiation := range s.negotiations {
		if negotiation.PassengerID == passengerID {
			matched = append(matched, negotiation.clone())
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})
	return matched, nil
}
