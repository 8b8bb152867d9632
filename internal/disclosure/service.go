// Package disclosure composes the driver-facing read path: tier resolution,
// field filtering, and consent-based augmentation, in that order.
package disclosure

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/binarygaragedev/RouteWise-sub000/internal/access"
	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	"github.com/binarygaragedev/RouteWise-sub000/internal/consent"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// PreferenceReader loads (or synthesizes) the passenger's record.
type PreferenceReader interface {
	Get(ctx context.Context, passengerID id.PassengerID) (*preferences.Record, error)
}

// ConsentChecker is the slice of the ledger the read path consults.
type ConsentChecker interface {
	Check(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) consent.Decision
}

// AuditEmitter receives the per-request disclosure summary.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Receipt tells the driver-facing UI what was shown and why.
type Receipt struct {
	Tier                access.Tier       `json:"tier"`
	VisibleCategories   []id.DataCategory `json:"visibleCategories"`
	HiddenCategoryCount int               `json:"hiddenCategoryCount"`
	ConsentGranted      []id.DataCategory `json:"consentGranted"`
	Reasons             map[string]string `json:"reasons,omitempty"`
}

// Result is the composed view plus its receipt. The wire names are fixed:
// drivers read "preferences" and the disclosure basis under "accessLevel".
type Result struct {
	View    *access.View `json:"preferences"`
	Receipt Receipt      `json:"accessLevel"`
}

// Service renders driver views.
type Service struct {
	prefs   PreferenceReader
	ledger  ConsentChecker
	auditor AuditEmitter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewService(prefs PreferenceReader, ledger ConsentChecker, auditor AuditEmitter, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		prefs:   prefs,
		ledger:  ledger,
		auditor: auditor,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("disclosure"),
	}
}

// GetDriverView runs the read path. The steps are strictly sequential: later
// steps depend on earlier results. The result is pure given the same record,
// rating, and grants, so repeated calls with unchanged inputs are identical.
func (s *Service) GetDriverView(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, driverRating float64) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "disclosure.GetDriverView",
		trace.WithAttributes(attribute.Float64("driver_rating", driverRating)),
	)
	defer span.End()

	record, err := s.prefs.Get(ctx, passengerID)
	if err != nil {
		return nil, err
	}

	rating := access.ClampRating(driverRating)
	tier := access.ResolveTier(rating, record.AccessPolicy.MinDriverRating)
	view := access.Filter(record, tier)

	tierCategories := view.VisibleCategories()

	// Consent can only widen the view, never narrow it.
	var consentGranted []id.DataCategory
	reasons := make(map[string]string)
	for _, category := range id.SensitiveCategories() {
		if view.Has(category) {
			continue
		}
		decision := s.ledger.Check(ctx, passengerID, driverID, category)
		reasons[category.String()] = decision.Reason
		if !decision.Allowed {
			continue
		}
		switch category {
		case id.CategorySafety:
			view.Safety = access.FullSafetyView(record)
		case id.CategorySpecialNeeds:
			view.SpecialNeeds = access.FullSpecialNeedsView(record)
		}
		consentGranted = append(consentGranted, category)
	}

	if s.metrics != nil {
		s.metrics.ObserveDisclosure(string(tier))
	}
	s.emitAudit(ctx, passengerID, driverID, tier, tierCategories, consentGranted)

	return &Result{
		View: view,
		Receipt: Receipt{
			Tier:                tier,
			VisibleCategories:   view.VisibleCategories(),
			HiddenCategoryCount: view.HiddenCategoryCount(),
			ConsentGranted:      consentGranted,
			Reasons:             reasons,
		},
	}, nil
}

// emitAudit writes the one summary event for the request: which categories
// came from the tier and which from explicit consent.
func (s *Service) emitAudit(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, tier access.Tier, tierCategories, consentGranted []id.DataCategory) {
	if s.auditor == nil {
		return
	}

	disclosed := make([]string, 0, len(tierCategories)+len(consentGranted))
	for _, category := range tierCategories {
		disclosed = append(disclosed, "tier:"+category.String())
	}
	for _, category := range consentGranted {
		disclosed = append(disclosed, "consent:"+category.String())
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:              audit.ActionDisclosureRendered,
		ActorID:             driverID.String(),
		ActorType:           audit.ActorDriver,
		SubjectID:           passengerID.String(),
		CategoriesDisclosed: disclosed,
		Decision:            string(tier),
	})
}
