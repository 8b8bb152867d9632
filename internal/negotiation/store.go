package negotiation

import (
	"context"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// Store persists negotiations.
//
// Get returns sentinel.ErrNotFound when no negotiation exists for the ID.
// ListByPassenger returns the passenger's negotiations newest first.
type Store interface {
	Get(ctx context.Context, negotiationID id.NegotiationID) (*Negotiation, error)
	Put(ctx context.Context, negotiation *Negotiation) error
	ListByPassenger(ctx context.Context, passengerID id.PassengerID) ([]*Negotiation, error)
}
