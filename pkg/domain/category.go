package domain

import dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"

// DataCategory is the unit of disclosure: a group of preference fields that
// is shown or hidden as a whole. Invariant: the value must be one of the
// supported categories.
//
// Usage: construct via ParseDataCategory at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type DataCategory string

// Preference record categories plus the special consent-only categories.
const (
	CategoryMusic         DataCategory = "music"
	CategoryCommunication DataCategory = "communication"
	CategorySafety        DataCategory = "safety"
	CategoryComfort       DataCategory = "comfort"
	CategorySpecialNeeds  DataCategory = "special_needs"
	CategoryTrip          DataCategory = "trip"

	// CategoryEmergencyContact and CategoryLocationHistory exist only in the
	// consent ledger; they gate data held outside the preference record.
	CategoryEmergencyContact DataCategory = "emergency_contact"
	CategoryLocationHistory  DataCategory = "location_history"
)

// validDataCategories is the single source of truth for valid categories.
var validDataCategories = map[DataCategory]bool{
	CategoryMusic:            true,
	CategoryCommunication:    true,
	CategorySafety:           true,
	CategoryComfort:          true,
	CategorySpecialNeeds:     true,
	CategoryTrip:             true,
	CategoryEmergencyContact: true,
	CategoryLocationHistory:  true,
}

// SensitiveCategories are never disclosed through rating tiers alone below
// the full tier; they require an explicit consent grant.
func SensitiveCategories() []DataCategory {
	return []DataCategory{CategorySafety, CategorySpecialNeeds}
}

// ParseDataCategory constructs a DataCategory from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseDataCategory(s string) (DataCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := DataCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid category: "+s)
	}
	return c, nil
}

// IsValid checks if the category is one of the supported enum values.
func (c DataCategory) IsValid() bool {
	return validDataCategories[c]
}

// String returns the string representation of the category.
func (c DataCategory) String() string {
	return string(c)
}
