package access

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TierSuite struct {
	suite.Suite
}

func TestTierSuite(t *testing.T) {
	suite.Run(t, new(TierSuite))
}

// TestResolveTier verifies the rating bands and the passenger floor rule.
func (s *TierSuite) TestResolveTier() {
	tests := []struct {
		name        string
		rating      float64
		minRequired float64
		want        Tier
	}{
		{"top rating gets full", 5.0, 4.0, TierFull},
		{"full band lower bound", 4.8, 4.0, TierFull},
		{"just below full is moderate", 4.79, 4.0, TierModerate},
		{"moderate band lower bound", 4.5, 4.0, TierModerate},
		{"just below moderate is basic", 4.49, 4.0, TierBasic},
		{"basic band lower bound", 4.0, 4.0, TierBasic},
		{"below all bands is minimal", 3.9, 3.0, TierMinimal},
		{"zero rating is minimal", 0, 0, TierMinimal},

		// Floor rule: below the passenger's minimum the tier is minimal no
		// matter how high the rating is in absolute terms.
		{"floor overrides full band", 4.9, 5.0, TierMinimal},
		{"floor overrides moderate band", 4.6, 4.7, TierMinimal},
		{"rating exactly at floor passes", 4.5, 4.5, TierModerate},
		{"passing floor still needs a band", 3.5, 3.0, TierMinimal},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, ResolveTier(tt.rating, tt.minRequired))
		})
	}
}

// TestResolveTierMonotonicity verifies that for a fixed floor, a higher
// rating never yields a lower tier.
func (s *TierSuite) TestResolveTierMonotonicity() {
	const minRequired = 4.0
	prev := TierMinimal
	for rating := 0.0; rating <= 5.0; rating += 0.01 {
		tier := ResolveTier(rating, minRequired)
		s.GreaterOrEqual(tier.Rank(), prev.Rank(), "rating %.2f", rating)
		prev = tier
	}
}

// TestClampRating verifies out-of-domain ratings are bounded into [0, 5].
func (s *TierSuite) TestClampRating() {
	s.Run("negative clamps to zero", func() {
		s.Equal(0.0, ClampRating(-1.2))
	})
	s.Run("above five clamps to five", func() {
		s.Equal(5.0, ClampRating(7.3))
	})
	s.Run("in-range passes through", func() {
		s.Equal(4.2, ClampRating(4.2))
	})
}

// TestOrdering verifies the tier lattice used by AtLeast.
func (s *TierSuite) TestOrdering() {
	s.True(TierFull.AtLeast(TierModerate))
	s.True(TierModerate.AtLeast(TierBasic))
	s.True(TierBasic.AtLeast(TierMinimal))
	s.True(TierMinimal.AtLeast(TierMinimal))
	s.False(TierBasic.AtLeast(TierModerate))
	s.False(TierMinimal.AtLeast(TierFull))
}
