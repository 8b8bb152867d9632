package access

import (
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// View is the driver-facing projection of a preference record. Hidden
// categories and fields are absent, not zeroed: a driver cannot distinguish
// "passenger left this default" from "filtered at my tier", so absence leaks
// nothing. Pointer fields mark values that only some tiers reveal.
type View struct {
	Music         *MusicView         `json:"music,omitempty"`
	Communication *CommunicationView `json:"communication,omitempty"`
	Safety        *SafetyView        `json:"safety,omitempty"`
	Comfort       *ComfortView       `json:"comfort,omitempty"`
	SpecialNeeds  *SpecialNeedsView  `json:"specialNeeds,omitempty"`
	Trip          *TripView          `json:"trip,omitempty"`
}

// MusicView exposes music.enabled from basic tier up; genre and volume from
// moderate up.
type MusicView struct {
	Enabled bool                 `json:"enabled"`
	Genre   *preferences.Genre   `json:"genre,omitempty"`
	Volume  *preferences.Volume  `json:"volume,omitempty"`
}

// CommunicationView always carries a style; smallTalk appears from moderate
// up, language only at full.
type CommunicationView struct {
	Style     preferences.ConversationStyle `json:"style"`
	SmallTalk *bool                         `json:"smallTalk,omitempty"`
	Language  *string                       `json:"language,omitempty"`
}

// SafetyView is only ever disclosed whole: at full tier or through an
// explicit consent grant.
type SafetyView struct {
	ShareTripStatus   bool     `json:"shareTripStatus"`
	EmergencyContacts []string `json:"emergencyContacts"`
	RideRecording     bool     `json:"rideRecording"`
	PhotoVerification bool     `json:"photoVerification"`
}

// ComfortView exposes temperature and phone usage from basic tier up; window
// preference from moderate up.
type ComfortView struct {
	TemperatureCelsius int                           `json:"temperaturePreferenceCelsius"`
	Window             *preferences.WindowPreference `json:"windowPreference,omitempty"`
	PhoneUsage         preferences.PhoneUsage        `json:"phoneUsage"`
}

// SpecialNeedsView is only ever disclosed whole, like SafetyView.
type SpecialNeedsView struct {
	AccessibilityNeeds []string `json:"accessibilityNeeds"`
	MedicalConditions  []string `json:"medicalConditions"`
	ServiceAnimal      bool     `json:"serviceAnimal"`
}

// TripView exposes routePreference from moderate tier up; the rest at full.
type TripView struct {
	RoutePreference  preferences.RoutePreference `json:"routePreference"`
	StopsAllowed     *bool                       `json:"stopsAllowed,omitempty"`
	MaxDetourMinutes *int                        `json:"maxDetourMinutes,omitempty"`
}

// recordCategories is the closed set of categories a view can contain, in
// stable order for receipts.
var recordCategories = []id.DataCategory{
	id.CategoryMusic,
	id.CategoryCommunication,
	id.CategorySafety,
	id.CategoryComfort,
	id.CategorySpecialNeeds,
	id.CategoryTrip,
}

// Has reports whether the given category is present in the view.
func (v *View) Has(category id.DataCategory) bool {
	switch category {
	case id.CategoryMusic:
		return v.Music != nil
	case id.CategoryCommunication:
		return v.Communication != nil
	case id.CategorySafety:
		return v.Safety != nil
	case id.CategoryComfort:
		return v.Comfort != nil
	case id.CategorySpecialNeeds:
		return v.SpecialNeeds != nil
	case id.CategoryTrip:
		return v.Trip != nil
	default:
		return false
	}
}

// VisibleCategories lists the categories present in the view, in stable order.
func (v *View) VisibleCategories() []id.DataCategory {
	visible := make([]id.DataCategory, 0, len(recordCategories))
	for _, category := range recordCategories {
		if v.Has(category) {
			visible = append(visible, category)
		}
	}
	return visible
}

// HiddenCategoryCount is the number of record categories absent from the view.
func (v *View) HiddenCategoryCount() int {
	return len(recordCategories) - len(v.VisibleCategories())
}
