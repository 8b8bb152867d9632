package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// PostgresStore reads the driver directory.
//
// Schema:
//
//	CREATE TABLE driver_profiles (
//	    driver_id          uuid PRIMARY KEY,
//	    rating             double precision NOT NULL,
//	    verification_level text NOT NULL,
//	    total_rides        integer NOT NULL DEFAULT 0
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, driverID id.DriverID) (*Profile, error) {
	profile := Profile{ID: driverID}
	var level string
	err := s.pool.QueryRow(ctx, `
		SELECT rating, verification_level, total_rides
		FROM driver_profiles WHERE driver_id = $1
	`, driverID.String()).Scan(&profile.Rating, &level, &profile.TotalRides)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query driver profile: %w", err)
	}
	profile.VerificationLevel = VerificationLevel(level)
	return &profile, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, profile *Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO driver_profiles (driver_id, rating, verification_level, total_rides)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (driver_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			verification_level = EXCLUDED.verification_level,
			total_rides = EXCLUDED.total_rides
	`, profile.ID.String(), profile.Rating, string(profile.VerificationLevel), profile.TotalRides)
	if err != nil {
		return fmt.Errorf("upsert driver profile: %w", err)
	}
	return nil
}
