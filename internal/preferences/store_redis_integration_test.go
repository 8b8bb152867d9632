//go:build integration

package preferences_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *preferences.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = preferences.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	s.redis.Terminate(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushAll(context.Background()).Err())
}

func (s *RedisStoreSuite) TestUpsertGetRoundTrip() {
	ctx := context.Background()
	passengerID := id.PassengerID(uuid.New())

	record := preferences.DefaultRecord()
	record.Comfort.TemperatureCelsius = 24
	record.SpecialNeeds.ServiceAnimal = true
	record.SpecialNeeds.AccessibilityNeeds = []string{"wheelchair"}
	s.Require().NoError(s.store.Upsert(ctx, passengerID, record))

	got, err := s.store.Get(ctx, passengerID)
	s.Require().NoError(err)
	s.Equal(24, got.Comfort.TemperatureCelsius)
	s.True(got.SpecialNeeds.ServiceAnimal)
	s.Equal([]string{"wheelchair"}, got.SpecialNeeds.AccessibilityNeeds)
}

func (s *RedisStoreSuite) TestUpsertIsLastWriteWins() {
	ctx := context.Background()
	passengerID := id.PassengerID(uuid.New())

	record := preferences.DefaultRecord()
	record.Communication.Style = preferences.StyleChatty
	s.Require().NoError(s.store.Upsert(ctx, passengerID, record))

	record.Communication.Style = preferences.StyleQuiet
	s.Require().NoError(s.store.Upsert(ctx, passengerID, record))

	got, err := s.store.Get(ctx, passengerID)
	s.Require().NoError(err)
	s.Equal(preferences.StyleQuiet, got.Communication.Style)
}

func (s *RedisStoreSuite) TestGetMissingIsNotFound() {
	_, err := s.store.Get(context.Background(), id.PassengerID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
