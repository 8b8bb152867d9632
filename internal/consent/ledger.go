package consent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/binarygaragedev/RouteWise-sub000/internal/audit"
	"github.com/binarygaragedev/RouteWise-sub000/internal/drivers"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// DriverDirectory resolves driver profiles for verified_only checks.
type DriverDirectory interface {
	Get(ctx context.Context, driverID id.DriverID) (*drivers.Profile, error)
}

// EmergencyState reports whether the passenger currently has an active
// emergency; the dispatch workflow owns this signal.
type EmergencyState interface {
	Active(ctx context.Context, passengerID id.PassengerID) bool
}

// NoEmergency is the default EmergencyState: never active.
type NoEmergency struct{}

func (NoEmergency) Active(context.Context, id.PassengerID) bool { return false }

// AuditEmitter receives ledger decisions; emission is fire-and-forget.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Ledger evaluates and mutates consent grants. Check is deterministic and
// never returns an error to callers: "denied" is an expected frequent
// outcome, and store trouble fails closed rather than failing loud.
type Ledger struct {
	store     Store
	directory DriverDirectory
	emergency EmergencyState
	auditor   AuditEmitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

func WithEmergencyState(state EmergencyState) Option {
	return func(l *Ledger) { l.emergency = state }
}

func WithAuditor(auditor AuditEmitter) Option {
	return func(l *Ledger) { l.auditor = auditor }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func NewLedger(store Store, directory DriverDirectory, logger *slog.Logger, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("consent store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("driver directory is required")
	}

	ledger := &Ledger{
		store:     store,
		directory: directory,
		emergency: NoEmergency{},
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(ledger)
	}
	return ledger, nil
}

// Grant creates or updates the grant for (passenger, category). When
// driverID is non-nil it joins the allow-list with its own expiry, leaving
// the windows of previously listed drivers untouched; negotiation approvals
// land here with shareWith=verified_only. A nil driverID writes the
// category-wide policy and its tuple-level expiry.
func (l *Ledger) Grant(
	ctx context.Context,
	passengerID id.PassengerID,
	driverID id.DriverID,
	category id.DataCategory,
	shareWith ShareWith,
	expiry Expiry,
) (*Grant, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid category: "+category.String())
	}
	if !shareWith.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid shareWith value")
	}
	if err := expiry.Validate(); err != nil {
		return nil, err
	}

	now := l.clock()
	fresh := false
	grant, err := l.store.Get(ctx, passengerID, category)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent grant")
		}
		fresh = true
		grant = &Grant{
			PassengerID: passengerID,
			Category:    category,
			GrantedTo:   make(map[id.DriverID]Expiry),
			CreatedAt:   now,
		}
	}

	grant.ShareWith = shareWith
	grant.UpdatedAt = now
	if driverID.IsNil() {
		grant.Expiry = expiry
	} else {
		grant.GrantedTo[driverID] = expiry
		if fresh {
			grant.Expiry = expiry
		}
	}

	if err := l.store.Put(ctx, grant); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent grant")
	}

	l.emitAudit(ctx, audit.Event{
		Action:              audit.ActionConsentGranted,
		ActorID:             passengerID.String(),
		ActorType:           audit.ActorPassenger,
		SubjectID:           passengerID.String(),
		CategoriesDisclosed: []string{category.String()},
		Decision:            string(shareWith),
	})
	return grant, nil
}

// Check evaluates whether driverID may currently see the category. Rules run
// in fixed order; the first failing rule names the denial reason:
//  1. no grant on file
//  2. shareWith none
//  3. specific_drivers and driver not on the allow-list
//  4. verified_only and driver verification is "new"
//  5. emergency_only outside an emergency-contact lookup during an active
//     emergency
//  6. the driver's own expiry window passed (lazy; the row stays on file)
func (l *Ledger) Check(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) Decision {
	decision := l.evaluate(ctx, passengerID, driverID, category)

	if l.metrics != nil {
		l.metrics.ObserveConsentCheck(decision.Allowed)
	}
	l.emitAudit(ctx, audit.Event{
		Action:              audit.ActionConsentChecked,
		ActorID:             driverID.String(),
		ActorType:           audit.ActorDriver,
		SubjectID:           passengerID.String(),
		CategoriesDisclosed: []string{category.String()},
		Decision:            decisionLabel(decision.Allowed),
		Reason:              decision.Reason,
	})
	return decision
}

func (l *Ledger) evaluate(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) Decision {
	grant, err := l.store.Get(ctx, passengerID, category)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Decision{Allowed: false, Reason: ReasonNoSettings}
		}
		// Fail closed: never fabricate consent when the store is down.
		l.logger.WarnContext(ctx, "consent store unavailable, denying",
			"passenger_id", passengerID,
			"category", category,
			"error", err,
		)
		return Decision{Allowed: false, Reason: ReasonUnavailable}
	}

	if grant.ShareWith == ShareNone {
		return Decision{Allowed: false, Reason: ReasonDeclined}
	}

	if grant.ShareWith == ShareSpecificDrivers && !grant.Covers(driverID) {
		return Decision{Allowed: false, Reason: ReasonNotOnList}
	}

	if grant.ShareWith == ShareVerifiedOnly {
		profile, err := l.directory.Get(ctx, driverID)
		if err != nil || profile.VerificationLevel == drivers.VerificationNew {
			return Decision{Allowed: false, Reason: ReasonNotVerified}
		}
	}

	if grant.ShareWith == ShareEmergencyOnly {
		if category != id.CategoryEmergencyContact || !l.emergency.Active(ctx, passengerID) {
			return Decision{Allowed: false, Reason: ReasonEmergencyOnly}
		}
	}

	if grant.ExpiryFor(driverID).Expired(l.clock()) {
		return Decision{Allowed: false, Reason: ReasonExpired}
	}

	return Decision{Allowed: true, Reason: ReasonGranted}
}

// Revoke removes driverID from the category's allow-list; the grant row is
// dropped once no driver-specific scope remains. Idempotent: revoking a
// grant that does not exist is a no-op.
func (l *Ledger) Revoke(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) error {
	grant, err := l.store.Get(ctx, passengerID, category)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent grant")
	}

	delete(grant.GrantedTo, driverID)

	if len(grant.GrantedTo) == 0 && (grant.ShareWith == ShareSpecificDrivers || grant.ShareWith == ShareVerifiedOnly) {
		if err := l.store.Delete(ctx, passengerID, category); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete consent grant")
		}
	} else {
		grant.UpdatedAt = l.clock()
		if err := l.store.Put(ctx, grant); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent grant")
		}
	}

	l.emitAudit(ctx, audit.Event{
		Action:              audit.ActionConsentRevoked,
		ActorID:             passengerID.String(),
		ActorType:           audit.ActorPassenger,
		SubjectID:           passengerID.String(),
		CategoriesDisclosed: []string{category.String()},
	})
	return nil
}

// RevokeCategory deletes the whole grant tuple regardless of driver scope.
// Used by the passenger settings surface; idempotent.
func (l *Ledger) RevokeCategory(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) error {
	if err := l.store.Delete(ctx, passengerID, category); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete consent grant")
	}
	l.emitAudit(ctx, audit.Event{
		Action:              audit.ActionConsentRevoked,
		ActorID:             passengerID.String(),
		ActorType:           audit.ActorPassenger,
		SubjectID:           passengerID.String(),
		CategoriesDisclosed: []string{category.String()},
	})
	return nil
}

// List returns the passenger's grants for the settings surface.
func (l *Ledger) List(ctx context.Context, passengerID id.PassengerID) ([]*Grant, error) {
	grants, err := l.store.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consent grants")
	}
	return grants, nil
}

func (l *Ledger) emitAudit(ctx context.Context, event audit.Event) {
	if l.auditor != nil {
		l.auditor.Emit(ctx, event)
	}
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
