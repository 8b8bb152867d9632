package preferences

import (
	"context"
	"sync"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// InMemoryStore backs tests and the dev profile. Writes are last-write-wins
// at record granularity, matching the production backends.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.PassengerID]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.PassengerID]*Record)}
}

func (s *InMemoryStore) Get(_ context.Context, passengerID id.PassengerID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[passengerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) Upsert(_ context.Context, passengerID id.PassengerID, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[passengerID] = record.Clone()
	return nil
}
