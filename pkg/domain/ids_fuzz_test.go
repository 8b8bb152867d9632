//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParsePassengerID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParsePassengerID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE passengers;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		passengerID, err := ParsePassengerID(input)

		// Either valid ID or error, never both. Valid IDs must round-trip.
		if err == nil {
			roundTrip, err2 := ParsePassengerID(passengerID.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != passengerID {
				t.Error("round-trip changed ID value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures every ID type validates identically; inconsistent
// validation across ID kinds would be a hole at the trust boundary.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errPassenger := ParsePassengerID(input)
		_, errDriver := ParseDriverID(input)
		_, errNegotiation := ParseNegotiationID(input)

		if errPassenger == nil && (errDriver != nil || errNegotiation != nil) {
			t.Error("inconsistent parsing across ID types")
		}
		if errPassenger != nil && (errDriver == nil || errNegotiation == nil) {
			t.Error("inconsistent rejection across ID types")
		}
	})
}
