package access

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

type FilterSuite struct {
	suite.Suite
	record *preferences.Record
}

func (s *FilterSuite) SetupTest() {
	s.record = &preferences.Record{
		Music: preferences.MusicPrefs{
			Enabled: true,
			Genre:   preferences.GenreJazz,
			Volume:  preferences.VolumeLow,
		},
		Communication: preferences.CommunicationPrefs{
			Style:     preferences.StyleChatty,
			SmallTalk: true,
			Language:  "de",
		},
		Safety: preferences.SafetyPrefs{
			ShareTripStatus:   true,
			EmergencyContacts: []string{"+49123456"},
			RideRecording:     true,
			PhotoVerification: true,
		},
		Comfort: preferences.ComfortPrefs{
			TemperatureCelsius: 19,
			Window:             preferences.WindowOpen,
			PhoneUsage:         preferences.PhoneSilent,
		},
		SpecialNeeds: preferences.SpecialNeedsPrefs{
			AccessibilityNeeds: []string{"wheelchair"},
			MedicalConditions:  []string{"asthma"},
			ServiceAnimal:      true,
		},
		Trip: preferences.TripPrefs{
			RoutePreference:  preferences.RouteScenic,
			StopsAllowed:     false,
			MaxDetourMinutes: 5,
		},
		AccessPolicy: preferences.AccessPolicy{
			MinDriverRating: 4.0,
			PrivacyLevel:    preferences.PrivacySelective,
		},
	}
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

// TestFullTier verifies the full tier sees every category and every field.
func (s *FilterSuite) TestFullTier() {
	view := Filter(s.record, TierFull)

	s.Require().NotNil(view.Music)
	s.True(view.Music.Enabled)
	s.Require().NotNil(view.Music.Genre)
	s.Equal(preferences.GenreJazz, *view.Music.Genre)

	s.Require().NotNil(view.Communication)
	s.Equal(preferences.StyleChatty, view.Communication.Style)
	s.Require().NotNil(view.Communication.Language)
	s.Equal("de", *view.Communication.Language)

	s.Require().NotNil(view.Safety)
	s.True(view.Safety.RideRecording)
	s.Equal([]string{"+49123456"}, view.Safety.EmergencyContacts)

	s.Require().NotNil(view.SpecialNeeds)
	s.True(view.SpecialNeeds.ServiceAnimal)

	s.Require().NotNil(view.Trip)
	s.Require().NotNil(view.Trip.MaxDetourMinutes)
	s.Equal(5, *view.Trip.MaxDetourMinutes)

	s.Empty(view.HiddenCategoryCount())
}

// TestModerateTier verifies moderate sees music, partial communication,
// comfort, and the route preference, and never the sensitive categories.
func (s *FilterSuite) TestModerateTier() {
	view := Filter(s.record, TierModerate)

	s.Run("keeps music, comfort, partial communication", func() {
		s.Require().NotNil(view.Music)
		s.Require().NotNil(view.Music.Volume)
		s.Equal(preferences.VolumeLow, *view.Music.Volume)

		s.Require().NotNil(view.Communication)
		s.Equal(preferences.StyleChatty, view.Communication.Style)
		s.Require().NotNil(view.Communication.SmallTalk)
		s.True(*view.Communication.SmallTalk)

		s.Require().NotNil(view.Comfort)
		s.Equal(19, view.Comfort.TemperatureCelsius)
		s.Require().NotNil(view.Comfort.Window)
		s.Equal(preferences.WindowOpen, *view.Comfort.Window)
	})

	s.Run("omits language and trip details", func() {
		s.Nil(view.Communication.Language)
		s.Require().NotNil(view.Trip)
		s.Equal(preferences.RouteScenic, view.Trip.RoutePreference)
		s.Nil(view.Trip.StopsAllowed)
		s.Nil(view.Trip.MaxDetourMinutes)
	})

	s.Run("omits sensitive categories entirely", func() {
		s.Nil(view.Safety)
		s.Nil(view.SpecialNeeds)
		s.False(view.Has(id.CategorySafety))
		s.False(view.Has(id.CategorySpecialNeeds))
	})
}

// TestBasicTier verifies the reduced basic field set.
func (s *FilterSuite) TestBasicTier() {
	view := Filter(s.record, TierBasic)

	s.Require().NotNil(view.Music)
	s.True(view.Music.Enabled)
	s.Nil(view.Music.Genre)
	s.Nil(view.Music.Volume)

	s.Require().NotNil(view.Communication)
	s.Equal(preferences.StyleChatty, view.Communication.Style)
	s.Nil(view.Communication.SmallTalk)

	s.Require().NotNil(view.Comfort)
	s.Equal(19, view.Comfort.TemperatureCelsius)
	s.Nil(view.Comfort.Window)
	s.Equal(preferences.PhoneSilent, view.Comfort.PhoneUsage)

	s.Nil(view.Trip)
	s.Nil(view.Safety)
	s.Nil(view.SpecialNeeds)
}

// TestMinimalTier verifies minimal discloses nothing but a neutralized
// communication style, regardless of what the record says.
func (s *FilterSuite) TestMinimalTier() {
	view := Filter(s.record, TierMinimal)

	s.Nil(view.Music)
	s.Nil(view.Safety)
	s.Nil(view.Comfort)
	s.Nil(view.SpecialNeeds)
	s.Nil(view.Trip)

	s.Require().NotNil(view.Communication)
	// The record says chatty; minimal normalizes it away.
	s.Equal(preferences.StyleNeutral, view.Communication.Style)
	s.Nil(view.Communication.SmallTalk)
	s.Nil(view.Communication.Language)

	s.Equal([]id.DataCategory{id.CategoryCommunication}, view.VisibleCategories())
	s.Equal(5, view.HiddenCategoryCount())
}

// TestViewIndependence verifies filtered views do not alias record slices.
func (s *FilterSuite) TestViewIndependence() {
	view := Filter(s.record, TierFull)
	view.Safety.EmergencyContacts[0] = "tampered"
	s.Equal("+49123456", s.record.Safety.EmergencyContacts[0])
}
