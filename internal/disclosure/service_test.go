package disclosure

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/access"
	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	"github.com/binarygaragedev/RouteWise-sub000/internal/consent"
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// =============================================================================
// Test doubles
// =============================================================================

type stubPrefs struct {
	record *preferences.Record
}

func (s *stubPrefs) Get(context.Context, id.PassengerID) (*preferences.Record, error) {
	return s.record.Clone(), nil
}

// decisionLedger returns canned decisions per category.
type decisionLedger struct {
	decisions map[id.DataCategory]consent.Decision
	checked   []id.DataCategory
}

func (d *decisionLedger) Check(_ context.Context, _ id.PassengerID, _ id.DriverID, category id.DataCategory) consent.Decision {
	d.checked = append(d.checked, category)
	if decision, ok := d.decisions[category]; ok {
		return decision
	}
	return consent.Decision{Allowed: false, Reason: consent.ReasonNoSettings}
}

type captureAuditor struct {
	events []audit.Event
}

func (c *captureAuditor) Emit(_ context.Context, event audit.Event) {
	c.events = append(c.events, event)
}

// =============================================================================
// Service Suite
// =============================================================================

type DisclosureSuite struct {
	suite.Suite
	ctx         context.Context
	prefs       *stubPrefs
	ledger      *decisionLedger
	auditor     *captureAuditor
	service     *Service
	passengerID id.PassengerID
	driverID    id.DriverID
}

func (s *DisclosureSuite) SetupTest() {
	s.ctx = context.Background()
	s.passengerID = id.PassengerID(uuid.New())
	s.driverID = id.DriverID(uuid.New())

	record := preferences.DefaultRecord()
	record.Safety.EmergencyContacts = []string{"+15550001"}
	record.SpecialNeeds.ServiceAnimal = true
	s.prefs = &stubPrefs{record: record}
	s.ledger = &decisionLedger{decisions: map[id.DataCategory]consent.Decision{}}
	s.auditor = &captureAuditor{}
	s.service = NewService(s.prefs, s.ledger, s.auditor, slog.New(slog.DiscardHandler), nil)
}

func TestDisclosureSuite(t *testing.T) {
	suite.Run(t, new(DisclosureSuite))
}

// TestFloorOverride verifies the passenger's rating floor wins over rating
// bands: with minDriverRating=4.5 a 4.3 driver gets only the minimal view
// even though 4.3 alone would earn basic.
func (s *DisclosureSuite) TestFloorOverride() {
	s.prefs.record.AccessPolicy.MinDriverRating = 4.5

	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.3)
	s.Require().NoError(err)

	s.Equal(access.TierMinimal, result.Receipt.Tier)
	s.Nil(result.View.Music)
	s.Nil(result.View.Comfort)
	s.Require().NotNil(result.View.Communication)
	s.Equal(preferences.StyleNeutral, result.View.Communication.Style)
}

// TestConsentDenialSticks verifies a denied sensitive category never appears
// regardless of tier below full.
func (s *DisclosureSuite) TestConsentDenialSticks() {
	s.ledger.decisions[id.CategorySafety] = consent.Decision{Allowed: false, Reason: consent.ReasonDeclined}

	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.6)
	s.Require().NoError(err)

	s.Equal(access.TierModerate, result.Receipt.Tier)
	s.Nil(result.View.Safety)
	s.Empty(result.Receipt.ConsentGranted)
	s.Equal(consent.ReasonDeclined, result.Receipt.Reasons["safety"])
}

// TestConsentUnion verifies an explicit grant widens the view with the full
// sensitive category.
func (s *DisclosureSuite) TestConsentUnion() {
	s.ledger.decisions[id.CategorySafety] = consent.Decision{Allowed: true, Reason: consent.ReasonGranted}

	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.2)
	s.Require().NoError(err)

	s.Equal(access.TierBasic, result.Receipt.Tier)
	s.Require().NotNil(result.View.Safety)
	s.Equal([]string{"+15550001"}, result.View.Safety.EmergencyContacts)
	s.Nil(result.View.SpecialNeeds)
	s.Equal([]id.DataCategory{id.CategorySafety}, result.Receipt.ConsentGranted)
}

// TestFullTierSkipsConsent verifies the full tier already contains the
// sensitive categories, so the ledger is never consulted.
func (s *DisclosureSuite) TestFullTierSkipsConsent() {
	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.9)
	s.Require().NoError(err)

	s.Equal(access.TierFull, result.Receipt.Tier)
	s.NotNil(result.View.Safety)
	s.NotNil(result.View.SpecialNeeds)
	s.Empty(s.ledger.checked)
	s.Empty(result.Receipt.ConsentGranted)
}

// TestRatingClamp verifies out-of-domain ratings are clamped before
// resolution.
func (s *DisclosureSuite) TestRatingClamp() {
	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 9.9)
	s.Require().NoError(err)
	s.Equal(access.TierFull, result.Receipt.Tier)

	result, err = s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, -3)
	s.Require().NoError(err)
	s.Equal(access.TierMinimal, result.Receipt.Tier)
}

// TestIdempotence verifies repeated calls with unchanged inputs produce the
// same view and receipt.
func (s *DisclosureSuite) TestIdempotence() {
	first, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.6)
	s.Require().NoError(err)
	second, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.6)
	s.Require().NoError(err)

	s.Equal(first.View, second.View)
	s.Equal(first.Receipt, second.Receipt)
}

// TestReceipt verifies counts and category lists in the receipt.
func (s *DisclosureSuite) TestReceipt() {
	result, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.6)
	s.Require().NoError(err)

	s.Equal(access.TierModerate, result.Receipt.Tier)
	s.ElementsMatch([]id.DataCategory{
		id.CategoryMusic, id.CategoryCommunication, id.CategoryComfort, id.CategoryTrip,
	}, result.Receipt.VisibleCategories)
	s.Equal(2, result.Receipt.HiddenCategoryCount)
	s.Len(result.Receipt.Reasons, 2)
}

// TestAuditSummary verifies exactly one event per request, split by source.
func (s *DisclosureSuite) TestAuditSummary() {
	s.ledger.decisions[id.CategorySpecialNeeds] = consent.Decision{Allowed: true, Reason: consent.ReasonGranted}

	_, err := s.service.GetDriverView(s.ctx, s.passengerID, s.driverID, 4.6)
	s.Require().NoError(err)

	s.Require().Len(s.auditor.events, 1)
	event := s.auditor.events[0]
	s.Equal(audit.ActionDisclosureRendered, event.Action)
	s.Equal(s.driverID.String(), event.ActorID)
	s.Equal(s.passengerID.String(), event.SubjectID)
	s.Contains(event.CategoriesDisclosed, "tier:music")
	s.Contains(event.CategoriesDisclosed, "consent:special_needs")
	s.NotContains(event.CategoriesDisclosed, "consent:safety")
}
