//go:build integration

package drivers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/drivers"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/testutil/containers"
)

const driverProfilesSchema = `
CREATE TABLE IF NOT EXISTS driver_profiles (
    driver_id          uuid PRIMARY KEY,
    rating             double precision NOT NULL,
    verification_level text NOT NULL,
    total_rides        integer NOT NULL DEFAULT 0
)`

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *drivers.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.Pool.Exec(context.Background(), driverProfilesSchema)
	s.Require().NoError(err)
	s.store = drivers.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Terminate(s.T())
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.postgres.Pool.Exec(context.Background(), "TRUNCATE driver_profiles")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpsertGetRoundTrip() {
	ctx := context.Background()
	profile := &drivers.Profile{
		ID:                id.DriverID(uuid.New()),
		Rating:            4.73,
		VerificationLevel: drivers.VerificationVerified,
		TotalRides:        812,
	}
	s.Require().NoError(s.store.Upsert(ctx, profile))

	got, err := s.store.Get(ctx, profile.ID)
	s.Require().NoError(err)
	s.Equal(profile.ID, got.ID)
	s.InDelta(4.73, got.Rating, 1e-9)
	s.Equal(drivers.VerificationVerified, got.VerificationLevel)
	s.Equal(812, got.TotalRides)
}

func (s *PostgresStoreSuite) TestUpsertReplaces() {
	ctx := context.Background()
	profile := &drivers.Profile{
		ID:                id.DriverID(uuid.New()),
		Rating:            4.2,
		VerificationLevel: drivers.VerificationNew,
		TotalRides:        3,
	}
	s.Require().NoError(s.store.Upsert(ctx, profile))

	profile.Rating = 4.6
	profile.VerificationLevel = drivers.VerificationTrusted
	profile.TotalRides = 40
	s.Require().NoError(s.store.Upsert(ctx, profile))

	got, err := s.store.Get(ctx, profile.ID)
	s.Require().NoError(err)
	s.InDelta(4.6, got.Rating, 1e-9)
	s.Equal(drivers.VerificationTrusted, got.VerificationLevel)
	s.Equal(40, got.TotalRides)
}

func (s *PostgresStoreSuite) TestGetMissingIsNotFound() {
	_, err := s.store.Get(context.Background(), id.DriverID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
