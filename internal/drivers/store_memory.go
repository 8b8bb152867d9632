package drivers

import (
	"context"
	"sync"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.DriverID]*Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.DriverID]*Profile)}
}

func (s *InMemoryStore) Get(_ context.Context, driverID id.DriverID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[driverID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *profile
	return &cloned, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *profile
	s.profiles[profile.ID] = &cloned
	return nil
}
