package preferences

import (
	"context"
	"errors"
	"log/slog"

	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
	strutil "github.com/binarygaragedev/RouteWise-sub000/pkg/platform/strings"
)

// AuditEmitter receives preference writes; emission is fire-and-forget.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service mediates all preference reads and writes. "No preferences yet" is
// never an error: a missing row materializes the default record, which is
// persisted so later reads and the passenger UI see the same document.
type Service struct {
	store   Store
	auditor AuditEmitter // nil disables auditing
	logger  *slog.Logger
}

func NewService(store Store, auditor AuditEmitter, logger *slog.Logger) *Service {
	return &Service{store: store, auditor: auditor, logger: logger}
}

// Get returns the passenger's record, synthesizing and persisting defaults
// on first read. If the store is unreachable the default record is returned
// without persistence; disclosure must keep working on store outages.
func (s *Service) Get(ctx context.Context, passengerID id.PassengerID) (*Record, error) {
	record, err := s.store.Get(ctx, passengerID)
	if err == nil {
		return record, nil
	}

	if errors.Is(err, sentinel.ErrNotFound) {
		record = DefaultRecord()
		if upsertErr := s.store.Upsert(ctx, passengerID, record); upsertErr != nil {
			s.logger.WarnContext(ctx, "failed to persist synthesized default preferences",
				"passenger_id", passengerID,
				"error", upsertErr,
			)
		}
		return record, nil
	}

	s.logger.WarnContext(ctx, "preference store unavailable, serving defaults",
		"passenger_id", passengerID,
		"error", err,
	)
	return DefaultRecord(), nil
}

// Save validates and writes the full record. Concurrent saves from two
// sessions of the same passenger are last-write-wins at record granularity.
func (s *Service) Save(ctx context.Context, passengerID id.PassengerID, record *Record) error {
	if record == nil {
		return dErrors.New(dErrors.CodeBadRequest, "preference record is required")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	// Passenger-entered lists arrive messy; normalize before storing.
	record.Safety.EmergencyContacts = strutil.DedupeAndTrim(record.Safety.EmergencyContacts)
	record.SpecialNeeds.AccessibilityNeeds = strutil.DedupeAndTrim(record.SpecialNeeds.AccessibilityNeeds)
	record.SpecialNeeds.MedicalConditions = strutil.DedupeAndTrim(record.SpecialNeeds.MedicalConditions)
	if err := s.store.Upsert(ctx, passengerID, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save preferences")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionPreferencesUpdated,
			ActorID:   passengerID.String(),
			ActorType: audit.ActorPassenger,
			SubjectID: passengerID.String(),
		})
	}
	return nil
}
