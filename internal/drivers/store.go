package drivers

import (
	"context"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// Store reads driver profiles. Implementations return sentinel.ErrNotFound
// for unknown drivers.
type Store interface {
	Get(ctx context.Context, driverID id.DriverID) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}
