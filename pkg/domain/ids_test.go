package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePassengerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePassengerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePassengerID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		passengerID, err := ParsePassengerID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, PassengerID(validUUID), passengerID)
	})

	t.Run("driver and negotiation parsers share the invariant", func(t *testing.T) {
		_, err := ParseDriverID(uuid.Nil.String())
		require.Error(t, err)

		_, err = ParseNegotiationID("not-a-uuid")
		require.Error(t, err)

		validUUID := uuid.New()
		driverID, err := ParseDriverID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, DriverID(validUUID), driverID)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ID
// kinds. This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	passengerID := PassengerID(uuid.New())
	driverID := DriverID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ PassengerID = driverID   // compile error
	// var _ DriverID = passengerID   // compile error

	assert.NotEqual(t, uuid.UUID(passengerID), uuid.UUID(driverID))
}

// TestParseID_SecurityInvariants validates trust-boundary parsing: the
// parsers must reject attack vectors at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE passengers;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400\u200B-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePassengerID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}
