// Package domain holds typed identifiers shared across the service.
//
// IDs are distinct types over uuid.UUID so the compiler rejects passing a
// driver ID where a passenger ID is expected. Parse helpers enforce the
// invariant that IDs are valid, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

type (
	// PassengerID identifies the owner of a preference record.
	PassengerID uuid.UUID
	// DriverID identifies the requesting party in disclosure decisions.
	DriverID uuid.UUID
	// NegotiationID identifies one consent negotiation.
	NegotiationID uuid.UUID
)

func (id PassengerID) String() string { return uuid.UUID(id).String() }
func (id PassengerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id DriverID) String() string { return uuid.UUID(id).String() }
func (id DriverID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id NegotiationID) String() string { return uuid.UUID(id).String() }
func (id NegotiationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewNegotiationID mints a fresh negotiation identifier.
func NewNegotiationID() NegotiationID { return NegotiationID(uuid.New()) }

func parse(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, kind+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be the nil UUID")
	}
	return parsed, nil
}

// ParsePassengerID validates and converts a raw string into a PassengerID.
func ParsePassengerID(raw string) (PassengerID, error) {
	parsed, err := parse(raw, "passenger_id")
	return PassengerID(parsed), err
}

// ParseDriverID validates and converts a raw string into a DriverID.
func ParseDriverID(raw string) (DriverID, error) {
	parsed, err := parse(raw, "driver_id")
	return DriverID(parsed), err
}

// ParseNegotiationID validates and converts a raw string into a NegotiationID.
func ParseNegotiationID(raw string) (NegotiationID, error) {
	parsed, err := parse(raw, "negotiation_id")
	return NegotiationID(parsed), err
}
