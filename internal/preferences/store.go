package preferences

import (
	"context"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// Store persists preference records keyed by passenger. Implementations
// return sentinel.ErrNotFound when no row exists; the service layer decides
// whether that means "synthesize defaults".
type Store interface {
	Get(ctx context.Context, passengerID id.PassengerID) (*Record, error)
	Upsert(ctx context.Context, passengerID id.PassengerID, record *Record) error
}
