package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	"github.com/binarygaragedev/RouteWise-sub000/internal/consent"
	"github.com/binarygaragedev/RouteWise-sub000/internal/drivers"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// Eligibility gate for drivers requesting consent.
const (
	minRequestRating   = 4.5
	minRidesIfNew      = 10
	fallbackMsgPattern = "A driver would like access to your %s preferences."
)

// TextGenerator produces the human-readable request message shown to the
// passenger. Implementations call out to the text-generation service;
// failures fall back to a static message.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers the request to the passenger. Delivery is best-effort;
// the negotiation is persisted regardless.
type Notifier interface {
	NotifyConsentRequest(ctx context.Context, passengerID id.PassengerID, negotiation *Negotiation)
}

// NoopNotifier drops notifications; dev profile default.
type NoopNotifier struct{}

func (NoopNotifier) NotifyConsentRequest(context.Context, id.PassengerID, *Negotiation) {}

// GrantWriter is the slice of the consent ledger approvals need.
type GrantWriter interface {
	Grant(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory, shareWith consent.ShareWith, expiry consent.Expiry) (*consent.Grant, error)
	Revoke(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) error
}

// DriverDirectory resolves driver profiles for the eligibility gate.
type DriverDirectory interface {
	Get(ctx context.Context, driverID id.DriverID) (*drivers.Profile, error)
}

// AuditEmitter receives negotiation outcomes; emission is fire-and-forget.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service runs the consent negotiation protocol.
type Service struct {
	store     Store
	directory DriverDirectory
	ledger    GrantWriter
	textgen   TextGenerator // nil means always use the fallback message
	notifier  Notifier
	auditor   AuditEmitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	clock     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithTextGenerator(generator TextGenerator) ServiceOption {
	return func(s *Service) { s.textgen = generator }
}

func WithNotifier(notifier Notifier) ServiceOption {
	return func(s *Service) { s.notifier = notifier }
}

func WithAuditor(auditor AuditEmitter) ServiceOption {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(store Store, directory DriverDirectory, ledger GrantWriter, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("negotiation store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("driver directory is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("consent ledger is required")
	}

	service := &Service{
		store:     store,
		directory: directory,
		ledger:    ledger,
		notifier:  NoopNotifier{},
		logger:    logger,
		tracer:    otel.Tracer("negotiation"),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Request opens a negotiation for one category. The driver must clear the
// eligibility gate; failures carry the unmet condition and are not retried,
// they are policy decisions.
func (s *Service) Request(ctx context.Context, driverID id.DriverID, passengerID id.PassengerID, category id.DataCategory, reason string) (*Negotiation, error) {
	ctx, span := s.tracer.Start(ctx, "negotiation.Request",
		trace.WithAttributes(attribute.String("category", category.String())),
	)
	defer span.End()

	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid category: "+category.String())
	}
	if err := s.checkEligibility(ctx, driverID); err != nil {
		s.observe("rejected")
		return nil, err
	}

	negotiation := &Negotiation{
		ID:          id.NewNegotiationID(),
		PassengerID: passengerID,
		DriverID:    driverID,
		Category:    category,
		Reason:      reason,
		Message:     s.requestMessage(ctx, category, reason),
		State:       StateRequested,
		RequestedAt: s.clock(),
	}

	if err := s.store.Put(ctx, negotiation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save negotiation")
	}

	s.notifier.NotifyConsentRequest(ctx, passengerID, negotiation)
	s.observe("requested")
	s.emitAudit(ctx, negotiation, audit.ActionNegotiationRequested, audit.ActorDriver, driverID.String())
	return negotiation, nil
}

// checkEligibility applies the request gate: rating at least 4.5, and new
// drivers additionally need ride history.
func (s *Service) checkEligibility(ctx context.Context, driverID id.DriverID) error {
	profile, err := s.directory.Get(ctx, driverID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeIneligibleDriver, "driver profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load driver profile")
	}

	if profile.Rating < minRequestRating {
		return dErrors.New(dErrors.CodeIneligibleDriver,
			fmt.Sprintf("driver rating %.2f below required %.1f", profile.Rating, minRequestRating))
	}
	if profile.VerificationLevel == drivers.VerificationNew && profile.TotalRides < minRidesIfNew {
		return dErrors.New(dErrors.CodeIneligibleDriver,
			fmt.Sprintf("new driver has %d rides, needs %d", profile.TotalRides, minRidesIfNew))
	}
	return nil
}

// requestMessage asks the text generator for a friendly message and falls
// back to a static one when generation fails.
func (s *Service) requestMessage(ctx context.Context, category id.DataCategory, reason string) string {
	fallback := fmt.Sprintf(fallbackMsgPattern, category.String())
	if s.textgen == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Write one short, polite sentence telling a rideshare passenger that their driver is asking to see their %s preferences. Driver's stated reason: %s",
		category.String(), reason,
	)
	message, err := s.textgen.Generate(ctx, prompt)
	if err != nil || message == "" {
		s.logger.WarnContext(ctx, "request message generation failed, using fallback",
			"category", category,
			"error", err,
		)
		return fallback
	}
	return message
}

// Respond settles a Requested negotiation. Approve writes a verified_only
// grant scoped to the requesting driver; deny touches nothing in the ledger.
func (s *Service) Respond(ctx context.Context, negotiationID id.NegotiationID, passengerID id.PassengerID, approved bool, duration *time.Duration) (*Negotiation, error) {
	ctx, span := s.tracer.Start(ctx, "negotiation.Respond",
		trace.WithAttributes(attribute.Bool("approved", approved)),
	)
	defer span.End()

	negotiation, err := s.store.Get(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "negotiation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load negotiation")
	}
	if negotiation.PassengerID != passengerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "not the negotiation's passenger")
	}

	target := StateDenied
	if approved {
		target = StateApproved
	}
	if !CanTransition(negotiation.State, target) {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("negotiation already %s", negotiation.State))
	}

	now := s.clock()
	expiry := consent.ExpireAfterRide()
	if approved && duration != nil {
		deadline := now.Add(*duration)
		expiry = consent.ExpireAt(deadline)
		negotiation.ExpiresAt = &deadline
	}

	negotiation.State = target
	negotiation.RespondedAt = &now

	// The state transition lands before the ledger write. If the grant write
	// fails the negotiation is settled with no access extended, which fails
	// closed; the reverse order would leave a live grant behind a negotiation
	// still open to a second respond.
	if err := s.store.Put(ctx, negotiation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save negotiation")
	}
	if approved {
		if _, err := s.ledger.Grant(ctx, passengerID, negotiation.DriverID, negotiation.Category, consent.ShareVerifiedOnly, expiry); err != nil {
			return nil, err
		}
	}

	action := audit.ActionNegotiationDenied
	outcome := "denied"
	if approved {
		action = audit.ActionNegotiationApproved
		outcome = "approved"
	}
	s.observe(outcome)
	s.emitAudit(ctx, negotiation, action, audit.ActorPassenger, passengerID.String())
	return negotiation, nil
}

// List returns the passenger's negotiations, newest first, with lazy expiry
// folded into the reported state.
func (s *Service) List(ctx context.Context, passengerID id.PassengerID) ([]*Negotiation, error) {
	negotiations, err := s.store.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list negotiations")
	}

	now := s.clock()
	for _, negotiation := range negotiations {
		negotiation.State = negotiation.EffectiveState(now)
	}
	return negotiations, nil
}

// Withdraw turns an approved negotiation into Revoked and removes the driver
// from the category's allow-list. Passenger-only, like Respond.
func (s *Service) Withdraw(ctx context.Context, negotiationID id.NegotiationID, passengerID id.PassengerID) (*Negotiation, error) {
	negotiation, err := s.store.Get(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "negotiation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load negotiation")
	}
	if negotiation.PassengerID != passengerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "not the negotiation's passenger")
	}
	if !CanTransition(negotiation.EffectiveState(s.clock()), StateRevoked) {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("negotiation is %s, cannot revoke", negotiation.State))
	}

	if err := s.ledger.Revoke(ctx, passengerID, negotiation.DriverID, negotiation.Category); err != nil {
		return nil, err
	}

	now := s.clock()
	negotiation.State = StateRevoked
	negotiation.RespondedAt = &now
	if err := s.store.Put(ctx, negotiation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save negotiation")
	}

	s.observe("revoked")
	s.emitAudit(ctx, negotiation, audit.ActionConsentRevoked, audit.ActorPassenger, passengerID.String())
	return negotiation, nil
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveNegotiation(outcome)
	}
}

func (s *Service) emitAudit(ctx context.Context, negotiation *Negotiation, action audit.Action, actorType audit.ActorType, actorID string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:              action,
		ActorID:             actorID,
		ActorType:           actorType,
		SubjectID:           negotiation.PassengerID.String(),
		CategoriesDisclosed: []string{negotiation.Category.String()},
		Reason:              negotiation.Reason,
		Decision:            string(negotiation.State),
	})
}
