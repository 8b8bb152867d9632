package preferences

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, id.PassengerID) (*Record, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Upsert(context.Context, id.PassengerID, *Record) error {
	return errors.New("connection refused")
}

type memoryAuditor struct {
	events []audit.Event
}

func (m *memoryAuditor) Emit(_ context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

type PreferenceServiceSuite struct {
	suite.Suite
	ctx         context.Context
	store       *InMemoryStore
	auditor     *memoryAuditor
	service     *Service
	passengerID id.PassengerID
}

func (s *PreferenceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.auditor = &memoryAuditor{}
	s.service = NewService(s.store, s.auditor, slog.New(slog.DiscardHandler))
	s.passengerID = id.PassengerID(uuid.New())
}

func TestPreferenceServiceSuite(t *testing.T) {
	suite.Run(t, new(PreferenceServiceSuite))
}

// TestGet verifies default synthesis and persistence on first read.
func (s *PreferenceServiceSuite) TestGet() {
	s.Run("first read synthesizes and persists defaults", func() {
		record, err := s.service.Get(s.ctx, s.passengerID)
		s.Require().NoError(err)
		s.Equal(DefaultRecord(), record)

		// The synthesized record was persisted, not just returned.
		stored, err := s.store.Get(s.ctx, s.passengerID)
		s.Require().NoError(err)
		s.Equal(record, stored)
	})

	s.Run("returns the stored record when present", func() {
		record := DefaultRecord()
		record.Music.Genre = GenreJazz
		s.Require().NoError(s.store.Upsert(s.ctx, s.passengerID, record))

		got, err := s.service.Get(s.ctx, s.passengerID)
		s.Require().NoError(err)
		s.Equal(GenreJazz, got.Music.Genre)
	})

	s.Run("serves defaults when the store is down", func() {
		service := NewService(brokenStore{}, nil, slog.New(slog.DiscardHandler))
		record, err := service.Get(s.ctx, s.passengerID)
		s.Require().NoError(err)
		s.Equal(DefaultRecord(), record)
	})
}

// TestSave verifies validation, persistence, and the audit event.
func (s *PreferenceServiceSuite) TestSave() {
	s.Run("valid record round-trips", func() {
		record := DefaultRecord()
		record.Comfort.TemperatureCelsius = 24
		s.Require().NoError(s.service.Save(s.ctx, s.passengerID, record))

		got, err := s.service.Get(s.ctx, s.passengerID)
		s.Require().NoError(err)
		s.Equal(24, got.Comfort.TemperatureCelsius)
	})

	s.Run("emits a preferences_updated event", func() {
		s.Require().NoError(s.service.Save(s.ctx, s.passengerID, DefaultRecord()))
		s.Require().NotEmpty(s.auditor.events)
		last := s.auditor.events[len(s.auditor.events)-1]
		s.Equal(audit.ActionPreferencesUpdated, last.Action)
		s.Equal(s.passengerID.String(), last.SubjectID)
	})

	s.Run("nil record is a bad request", func() {
		err := s.service.Save(s.ctx, s.passengerID, nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("invalid record is rejected, not defaulted", func() {
		record := DefaultRecord()
		record.Comfort.TemperatureCelsius = 40
		err := s.service.Save(s.ctx, s.passengerID, record)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeValidation))

		// Nothing was written.
		_, err = s.store.Get(s.ctx, s.passengerID)
		s.Require().Error(err)
	})

	s.Run("store failure surfaces as internal", func() {
		service := NewService(brokenStore{}, nil, slog.New(slog.DiscardHandler))
		err := service.Save(s.ctx, s.passengerID, DefaultRecord())
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInternal))
	})
}
