package access

import (
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
)

// Filter projects a preference record down to what the given tier may see.
// The visibility table is fixed:
//
//	full:     every field in every category
//	moderate: music (all), communication.{style, smallTalk},
//	          comfort (all), trip.routePreference
//	basic:    music.enabled, communication.style,
//	          comfort.{temperature, phoneUsage}
//	minimal:  communication.style only, forced to "neutral"
//
// Safety and special-needs categories never appear below full; they join a
// view only through explicit consent (see the disclosure service).
//
// The minimal override is the one deliberate exception to omission: drivers
// always get some communication signal for ride quality, but a normalized
// one that reveals nothing about the passenger.
func Filter(record *preferences.Record, tier Tier) *View {
	switch tier {
	case TierFull:
		return fullView(record)
	case TierModerate:
		return moderateView(record)
	case TierBasic:
		return basicView(record)
	default:
		return minimalView()
	}
}

// FullSafetyView exposes the whole safety category for consent-based union.
func FullSafetyView(record *preferences.Record) *SafetyView {
	return &SafetyView{
		ShareTripStatus:   record.Safety.ShareTripStatus,
		EmergencyContacts: append([]string(nil), record.Safety.EmergencyContacts...),
		RideRecording:     record.Safety.RideRecording,
		PhotoVerification: record.Safety.PhotoVerification,
	}
}

// FullSpecialNeedsView exposes the whole special-needs category for
// consent-based union.
func FullSpecialNeedsView(record *preferences.Record) *SpecialNeedsView {
	return &SpecialNeedsView{
		AccessibilityNeeds: append([]string(nil), record.SpecialNeeds.AccessibilityNeeds...),
		MedicalConditions:  append([]string(nil), record.SpecialNeeds.MedicalConditions...),
		ServiceAnimal:      record.SpecialNeeds.ServiceAnimal,
	}
}

func fullView(record *preferences.Record) *View {
	genre := record.Music.Genre
	volume := record.Music.Volume
	smallTalk := record.Communication.SmallTalk
	language := record.Communication.Language
	window := record.Comfort.Window
	stops := record.Trip.StopsAllowed
	detour := record.Trip.MaxDetourMinutes

	return &View{
		Music: &MusicView{
			Enabled: record.Music.Enabled,
			Genre:   &genre,
			Volume:  &volume,
		},
		Communication: &CommunicationView{
			Style:     record.Communication.Style,
			SmallTalk: &smallTalk,
			Language:  &language,
		},
		Safety: FullSafetyView(record),
		Comfort: &ComfortView{
			TemperatureCelsius: record.Comfort.TemperatureCelsius,
			Window:             &window,
			PhoneUsage:         record.Comfort.PhoneUsage,
		},
		SpecialNeeds: FullSpecialNeedsView(record),
		Trip: &TripView{
			RoutePreference:  record.Trip.RoutePreference,
			StopsAllowed:     &stops,
			MaxDetourMinutes: &detour,
		},
	}
}

func moderateView(record *preferences.Record) *View {
	genre := record.Music.Genre
	volume := record.Music.Volume
	smallTalk := record.Communication.SmallTalk
	window := record.Comfort.Window

	return &View{
		Music: &MusicView{
			Enabled: record.Music.Enabled,
			Genre:   &genre,
			Volume:  &volume,
		},
		Communication: &CommunicationView{
			Style:     record.Communication.Style,
			SmallTalk: &smallTalk,
		},
		Comfort: &ComfortView{
			TemperatureCelsius: record.Comfort.TemperatureCelsius,
			Window:             &window,
			PhoneUsage:         record.Comfort.PhoneUsage,
		},
		Trip: &TripView{
			RoutePreference: record.Trip.RoutePreference,
		},
	}
}

func basicView(record *preferences.Record) *View {
	return &View{
		Music: &MusicView{Enabled: record.Music.Enabled},
		Communication: &CommunicationView{
			Style: record.Communication.Style,
		},
		Comfort: &ComfortView{
			TemperatureCelsius: record.Comfort.TemperatureCelsius,
			PhoneUsage:         record.Comfort.PhoneUsage,
		},
	}
}

func minimalView() *View {
	return &View{
		Communication: &CommunicationView{
			Style: preferences.StyleNeutral,
		},
	}
}
