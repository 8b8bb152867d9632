// Package access holds the pure policy core of the disclosure engine: tier
// resolution from driver rating, and the field-visibility filter. No I/O, no
// side effects; everything here is a total function over its inputs.
package access

// Tier is the discrete trust level derived per request from the driver's
// rating and the passenger's configured floor. Never persisted or cached;
// driver ratings move, so tiers are recomputed on every read.
type Tier string

const (
	TierFull     Tier = "full"
	TierModerate Tier = "moderate"
	TierBasic    Tier = "basic"
	TierMinimal  Tier = "minimal"
)

// rank orders tiers: full > moderate > basic > minimal.
var rank = map[Tier]int{
	TierMinimal:  0,
	TierBasic:    1,
	TierModerate: 2,
	TierFull:     3,
}

// Rank returns the tier's position in the ordering; higher sees more.
func (t Tier) Rank() int { return rank[t] }

// AtLeast reports whether t grants at least as much visibility as other.
func (t Tier) AtLeast(other Tier) bool { return rank[t] >= rank[other] }

func (t Tier) String() string { return string(t) }

// ClampRating bounds a rating into [0, 5]. Callers clamp before resolving so
// the rule chain never sees out-of-domain input.
func ClampRating(rating float64) float64 {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// ResolveTier maps (driver rating, passenger's minimum-rating threshold) to
// an access tier. Rule priority (first match wins):
//  1. Passenger floor - a rating below the configured minimum is minimal no
//     matter how high it is in absolute terms.
//  2. Rating bands: >=4.8 full, >=4.5 moderate, >=4.0 basic.
//  3. Everything else is minimal.
func ResolveTier(driverRating, minRequired float64) Tier {
	if driverRating < minRequired {
		return TierMinimal
	}
	switch {
	case driverRating >= 4.8:
		return TierFull
	case driverRating >= 4.5:
		return TierModerate
	case driverRating >= 4.0:
		return TierBasic
	default:
		return TierMinimal
	}
}
