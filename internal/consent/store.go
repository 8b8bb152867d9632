package consent

import (
	"context"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// Store persists grants keyed by (passenger, category). Implementations
// return sentinel.ErrNotFound when no grant exists for the tuple. Expired
// grants stay on file; expiry is evaluated by the ledger at read time.
type Store interface {
	Get(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) (*Grant, error)
	Put(ctx context.Context, grant *Grant) error
	Delete(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) error
	ListByPassenger(ctx context.Context, passengerID id.PassengerID) ([]*Grant, error)
}
