// Package audit is the append-only record of every disclosure and consent
// decision. Events are emitted fire-and-forget: an unreachable sink is
// logged and counted, never allowed to block or fail the decision that
// produced the event.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose, which
// drives retention and downstream routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// what was disclosed to whom, and every consent decision.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity useful for debugging;
	// these can be sampled and kept on short retention.
	CategoryOperations EventCategory = "operations"
)

// ActorType says what kind of principal performed the action.
type ActorType string

const (
	ActorPassenger ActorType = "passenger"
	ActorDriver    ActorType = "driver"
	ActorSystem    ActorType = "system"
)

// Action identifies what happened.
type Action string

const (
	ActionDisclosureRendered   Action = "disclosure_rendered"
	ActionPreferencesUpdated   Action = "preferences_updated"
	ActionConsentGranted       Action = "consent_granted"
	ActionConsentRevoked       Action = "consent_revoked"
	ActionConsentChecked       Action = "consent_checked"
	ActionNegotiationRequested Action = "negotiation_requested"
	ActionNegotiationApproved  Action = "negotiation_approved"
	ActionNegotiationDenied    Action = "negotiation_denied"
)

// actionCategories maps each action to its category. Disclosure and consent
// mutations are compliance-grade; checks and requests are operational.
var actionCategories = map[Action]EventCategory{
	ActionDisclosureRendered:   CategoryCompliance,
	ActionPreferencesUpdated:   CategoryCompliance,
	ActionConsentGranted:       CategoryCompliance,
	ActionConsentRevoked:       CategoryCompliance,
	ActionNegotiationApproved:  CategoryCompliance,
	ActionNegotiationDenied:    CategoryCompliance,
	ActionConsentChecked:       CategoryOperations,
	ActionNegotiationRequested: CategoryOperations,
}

// Category returns the EventCategory for this action. Unknown actions
// default to operations.
func (a Action) Category() EventCategory {
	if category, ok := actionCategories[a]; ok {
		return category
	}
	return CategoryOperations
}

// Event is one append-only audit entry. SubjectID is the passenger whose
// data the decision concerned; ActorID is who triggered it.
type Event struct {
	Action              Action
	ActorID             string
	ActorType           ActorType
	SubjectID           string
	CategoriesDisclosed []string
	Reason              string
	Decision            string
	RequestID           string
	Timestamp           time.Time
}
