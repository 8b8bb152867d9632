// Package drivers exposes the read-side driver directory consumed by the
// consent ledger (verification checks) and the negotiation eligibility gate.
// Ratings and verification levels are maintained by the main RouteWise app;
// this service only reads them.
package drivers

import (
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// VerificationLevel tracks how far a driver has progressed through identity
// verification.
type VerificationLevel string

const (
	VerificationNew      VerificationLevel = "new"
	VerificationVerified VerificationLevel = "verified"
	VerificationTrusted  VerificationLevel = "trusted"
)

func (v VerificationLevel) IsValid() bool {
	switch v {
	case VerificationNew, VerificationVerified, VerificationTrusted:
		return true
	}
	return false
}

// Profile is the trust-relevant slice of a driver's account.
type Profile struct {
	ID                id.DriverID
	Rating            float64
	VerificationLevel VerificationLevel
	TotalRides        int
}
