package consent

import (
	"context"
	"sort"
	"sync"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

type grantKey struct {
	passengerID id.PassengerID
	category    id.DataCategory
}

type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[grantKey]*Grant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{grants: make(map[grantKey]*Grant)}
}

func (s *InMemoryStore) Get(_ context.Context, passengerID id.PassengerID, category id.DataCategory) (*Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[grantKey{passengerID, category}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneGrant(grant), nil
}

func (s *InMemoryStore) Put(_ context.Context, grant *Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{grant.PassengerID, grant.Category}] = cloneGrant(grant)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, passengerID id.PassengerID, category id.DataCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{passengerID, category})
	return nil
}

func (s *InMemoryStore) ListByPassenger(_ context.Context, passengerID id.PassengerID) ([]*Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var grants []*Grant
	for key, grant := range s.grants {
		if key.passengerID == passengerID {
			grants = append(grants, cloneGrant(grant))
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].Category < grants[j].Category })
	return grants, nil
}

func cloneGrant(grant *Grant) *Grant {
	cloned := *grant
	cloned.GrantedTo = make(map[id.DriverID]Expiry, len(grant.GrantedTo))
	for driverID, expiry := range grant.GrantedTo {
		cloned.GrantedTo[driverID] = cloneExpiry(expiry)
	}
	cloned.Expiry = cloneExpiry(grant.Expiry)
	return &cloned
}

func cloneExpiry(expiry Expiry) Expiry {
	if expiry.At != nil {
		at := *expiry.At
		expiry.At = &at
	}
	return expiry
}
