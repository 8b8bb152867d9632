// Package consent tracks category-scoped, time-bounded grants a passenger
// extends to drivers. This mechanism is independent of rating-tier
// disclosure: "I don't trust low-rated drivers" and "I specifically allow
// this driver to see my emergency contacts" are different statements, and
// the two compose by union at the read path only.
package consent

import (
	"time"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// ShareWith scopes who a category grant applies to.
type ShareWith string

const (
	ShareAllDrivers      ShareWith = "all_drivers"
	ShareVerifiedOnly    ShareWith = "verified_only"
	ShareSpecificDrivers ShareWith = "specific_drivers"
	ShareNone            ShareWith = "none"
	ShareEmergencyOnly   ShareWith = "emergency_only"
)

var validShareWith = map[ShareWith]bool{
	ShareAllDrivers:      true,
	ShareVerifiedOnly:    true,
	ShareSpecificDrivers: true,
	ShareNone:            true,
	ShareEmergencyOnly:   true,
}

func (s ShareWith) IsValid() bool { return validShareWith[s] }

// ParseShareWith validates external input into a ShareWith value.
func ParseShareWith(raw string) (ShareWith, error) {
	s := ShareWith(raw)
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid shareWith: "+raw)
	}
	return s, nil
}

// Expiry selects exactly one expiry mode: end-of-ride or a wall-clock
// deadline. Both set or neither set is a malformed grant.
type Expiry struct {
	AfterRide bool
	At        *time.Time
}

// ExpireAfterRide builds the end-of-ride expiry mode.
func ExpireAfterRide() Expiry { return Expiry{AfterRide: true} }

// ExpireAt builds the wall-clock expiry mode.
func ExpireAt(t time.Time) Expiry { return Expiry{At: &t} }

// Validate enforces the XOR invariant.
func (e Expiry) Validate() error {
	if e.AfterRide && e.At != nil {
		return dErrors.New(dErrors.CodeInvalidGrant, "grant cannot expire both after ride and at a timestamp")
	}
	if !e.AfterRide && e.At == nil {
		return dErrors.New(dErrors.CodeInvalidGrant, "grant requires exactly one expiry mode")
	}
	return nil
}

// Expired reports whether a wall-clock expiry has passed. After-ride expiry
// is resolved by the ride lifecycle outside this service and never expires
// by clock. Expiry is checked lazily at read time; rows are not swept.
func (e Expiry) Expired(now time.Time) bool {
	return e.At != nil && e.At.Before(now)
}

// Grant is the stored consent tuple for one (passenger, category). Driver
// scoping lives in GrantedTo: each listed driver carries its own expiry, so
// the (passenger, driver, category) grant of a negotiation approval keeps
// its window even when another driver is granted later. The tuple-level
// Expiry covers drivers admitted by ShareWith alone (all_drivers,
// verified_only without a listing).
type Grant struct {
	PassengerID id.PassengerID
	Category    id.DataCategory
	ShareWith   ShareWith
	GrantedTo   map[id.DriverID]Expiry
	Expiry      Expiry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpiryFor returns the expiry governing driverID: the driver's own entry
// when listed, the tuple-level window otherwise.
func (g *Grant) ExpiryFor(driverID id.DriverID) Expiry {
	if e, ok := g.GrantedTo[driverID]; ok {
		return e
	}
	return g.Expiry
}

// Covers reports whether the grant's driver scoping includes driverID.
// Scope-independent modes (all_drivers, none, emergency_only) ignore the set.
func (g *Grant) Covers(driverID id.DriverID) bool {
	_, ok := g.GrantedTo[driverID]
	return ok
}

// Decision is the outcome of a ledger check. Denied is expected and
// frequent, so it is data rather than an error; Reason explains the first
// rule that failed.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Denial reasons, in rule-chain order.
const (
	ReasonNoSettings    = "no consent settings found"
	ReasonDeclined      = "passenger declined"
	ReasonNotOnList     = "driver not on allow-list"
	ReasonNotVerified   = "driver not verified"
	ReasonEmergencyOnly = "emergency-only category"
	ReasonExpired       = "grant expired"
	ReasonUnavailable   = "consent settings unavailable"
	ReasonGranted       = "consent granted"
)
