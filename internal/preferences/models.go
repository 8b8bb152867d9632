// Package preferences owns the passenger preference record: the full,
// private document that the disclosure engine later filters per driver.
package preferences

import (
	"fmt"

	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Enumerated preference values. Parsed request bodies must hit one of these;
// anything else is a validation error, never silently defaulted.
type (
	Genre             string
	Volume            string
	ConversationStyle string
	WindowPreference  string
	PhoneUsage        string
	RoutePreference   string
	PrivacyLevel      string
)

const (
	GenreNoPreference Genre = "no_preference"
	GenrePop          Genre = "pop"
	GenreRock         Genre = "rock"
	GenreJazz         Genre = "jazz"
	GenreClassical    Genre = "classical"
	GenreElectronic   Genre = "electronic"
	GenreCountry      Genre = "country"

	VolumeLow    Volume = "low"
	VolumeMedium Volume = "medium"
	VolumeHigh   Volume = "high"

	StyleChatty  ConversationStyle = "chatty"
	StyleQuiet   ConversationStyle = "quiet"
	StyleNeutral ConversationStyle = "neutral"

	WindowOpen         WindowPreference = "open"
	WindowClosed       WindowPreference = "closed"
	WindowNoPreference WindowPreference = "no_preference"

	PhoneAllowed      PhoneUsage = "allowed"
	PhoneSilent       PhoneUsage = "silent"
	PhoneNoPreference PhoneUsage = "no_preference"

	RouteFastest RoutePreference = "fastest"
	RouteScenic  RoutePreference = "scenic"
	RouteSafest  RoutePreference = "safest"

	PrivacyOpen      PrivacyLevel = "open"
	PrivacySelective PrivacyLevel = "selective"
	PrivacyMinimal   PrivacyLevel = "minimal"
)

var (
	validGenres = map[Genre]bool{
		GenreNoPreference: true, GenrePop: true, GenreRock: true, GenreJazz: true,
		GenreClassical: true, GenreElectronic: true, GenreCountry: true,
	}
	validVolumes = map[Volume]bool{VolumeLow: true, VolumeMedium: true, VolumeHigh: true}
	validStyles  = map[ConversationStyle]bool{StyleChatty: true, StyleQuiet: true, StyleNeutral: true}
	validWindows = map[WindowPreference]bool{WindowOpen: true, WindowClosed: true, WindowNoPreference: true}
	validPhones  = map[PhoneUsage]bool{PhoneAllowed: true, PhoneSilent: true, PhoneNoPreference: true}
	validRoutes  = map[RoutePreference]bool{RouteFastest: true, RouteScenic: true, RouteSafest: true}
	validPrivacy = map[PrivacyLevel]bool{PrivacyOpen: true, PrivacySelective: true, PrivacyMinimal: true}
)

// Temperature and rating domains enforced by Validate.
const (
	MinTemperatureCelsius = 16
	MaxTemperatureCelsius = 28
	MinDriverRatingFloor  = 1.0
	MaxDriverRatingCeil   = 5.0
)

// MusicPrefs covers in-ride music settings.
type MusicPrefs struct {
	Enabled bool   `json:"enabled"`
	Genre   Genre  `json:"genre"`
	Volume  Volume `json:"volume"`
}

// CommunicationPrefs covers conversational expectations.
type CommunicationPrefs struct {
	Style     ConversationStyle `json:"style"`
	SmallTalk bool              `json:"smallTalk"`
	Language  string            `json:"language"`
}

// SafetyPrefs covers trip-status sharing and verification settings. This is
// a sensitive category: it never appears in a driver view without explicit
// consent or the top access tier.
type SafetyPrefs struct {
	ShareTripStatus   bool     `json:"shareTripStatus"`
	EmergencyContacts []string `json:"emergencyContacts"`
	RideRecording     bool     `json:"rideRecording"`
	PhotoVerification bool     `json:"photoVerification"`
}

// ComfortPrefs covers cabin settings.
type ComfortPrefs struct {
	TemperatureCelsius int              `json:"temperaturePreferenceCelsius"`
	Window             WindowPreference `json:"windowPreference"`
	PhoneUsage         PhoneUsage       `json:"phoneUsage"`
}

// SpecialNeedsPrefs covers accessibility and medical context. Sensitive, same
// disclosure rules as SafetyPrefs.
type SpecialNeedsPrefs struct {
	AccessibilityNeeds []string `json:"accessibilityNeeds"`
	MedicalConditions  []string `json:"medicalConditions"`
	ServiceAnimal      bool     `json:"serviceAnimal"`
}

// TripPrefs covers routing expectations.
type TripPrefs struct {
	RoutePreference  RoutePreference `json:"routePreference"`
	StopsAllowed     bool            `json:"stopsAllowed"`
	MaxDetourMinutes int             `json:"maxDetourMinutes"`
}

// AccessPolicy is the passenger's disclosure configuration: the rating floor
// a driver must clear, and the broad privacy posture shown in their own UI.
type AccessPolicy struct {
	MinDriverRating float64      `json:"minDriverRating"`
	PrivacyLevel    PrivacyLevel `json:"privacyLevel"`
}

// Record is a passenger's full preference document. The zero value is not
// meaningful; use DefaultRecord for passengers with no stored row.
type Record struct {
	Music         MusicPrefs         `json:"music"`
	Communication CommunicationPrefs `json:"communication"`
	Safety        SafetyPrefs        `json:"safety"`
	Comfort       ComfortPrefs       `json:"comfort"`
	SpecialNeeds  SpecialNeedsPrefs  `json:"specialNeeds"`
	Trip          TripPrefs          `json:"trip"`
	AccessPolicy  AccessPolicy       `json:"accessPolicy"`
}

// DefaultRecord materializes the record for a passenger who never saved
// preferences. Convenience booleans default on; sensitive disclosure booleans
// (ride recording, photo verification, service animal) default off so absence
// of configuration never widens exposure.
func DefaultRecord() *Record {
	return &Record{
		Music: MusicPrefs{Enabled: true, Genre: GenreNoPreference, Volume: VolumeMedium},
		Communication: CommunicationPrefs{
			Style:     StyleNeutral,
			SmallTalk: true,
			Language:  "en",
		},
		Safety: SafetyPrefs{
			ShareTripStatus:   true,
			EmergencyContacts: []string{},
		},
		Comfort: ComfortPrefs{
			TemperatureCelsius: 21,
			Window:             WindowNoPreference,
			PhoneUsage:         PhoneNoPreference,
		},
		SpecialNeeds: SpecialNeedsPrefs{
			AccessibilityNeeds: []string{},
			MedicalConditions:  []string{},
		},
		Trip: TripPrefs{RoutePreference: RouteFastest, StopsAllowed: true, MaxDetourMinutes: 10},
		AccessPolicy: AccessPolicy{
			MinDriverRating: 4.0,
			PrivacyLevel:    PrivacySelective,
		},
	}
}

// Validate enforces the record invariants. Called on every write; stored
// records are assumed valid on read.
func (r *Record) Validate() error {
	if !validGenres[r.Music.Genre] {
		return dErrors.New(dErrors.CodeValidation, "music.genre: unsupported value")
	}
	if !validVolumes[r.Music.Volume] {
		return dErrors.New(dErrors.CodeValidation, "music.volume: unsupported value")
	}
	if !validStyles[r.Communication.Style] {
		return dErrors.New(dErrors.CodeValidation, "communication.style: unsupported value")
	}
	if r.Communication.Language == "" {
		return dErrors.New(dErrors.CodeValidation, "communication.language: must not be empty")
	}
	if r.Comfort.TemperatureCelsius < MinTemperatureCelsius || r.Comfort.TemperatureCelsius > MaxTemperatureCelsius {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf(
			"comfort.temperaturePreferenceCelsius: must be within [%d, %d]",
			MinTemperatureCelsius, MaxTemperatureCelsius))
	}
	if !validWindows[r.Comfort.Window] {
		return dErrors.New(dErrors.CodeValidation, "comfort.windowPreference: unsupported value")
	}
	if !validPhones[r.Comfort.PhoneUsage] {
		return dErrors.New(dErrors.CodeValidation, "comfort.phoneUsage: unsupported value")
	}
	if !validRoutes[r.Trip.RoutePreference] {
		return dErrors.New(dErrors.CodeValidation, "trip.routePreference: unsupported value")
	}
	if r.Trip.MaxDetourMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "trip.maxDetourMinutes: must not be negative")
	}
	if r.AccessPolicy.MinDriverRating < MinDriverRatingFloor || r.AccessPolicy.MinDriverRating > MaxDriverRatingCeil {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf(
			"accessPolicy.minDriverRating: must be within [%.1f, %.1f]",
			MinDriverRatingFloor, MaxDriverRatingCeil))
	}
	if !validPrivacy[r.AccessPolicy.PrivacyLevel] {
		return dErrors.New(dErrors.CodeValidation, "accessPolicy.privacyLevel: unsupported value")
	}
	return nil
}

// Clone returns a deep copy so callers can mutate views without aliasing the
// stored record.
func (r *Record) Clone() *Record {
	cloned := *r
	cloned.Safety.EmergencyContacts = append([]string(nil), r.Safety.EmergencyContacts...)
	cloned.SpecialNeeds.AccessibilityNeeds = append([]string(nil), r.SpecialNeeds.AccessibilityNeeds...)
	cloned.SpecialNeeds.MedicalConditions = append([]string(nil), r.SpecialNeeds.MedicalConditions...)
	return &cloned
}
