package negotiation

import (
	"time"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
)

// State is the lifecycle position of a negotiation.
type State string

const (
	StateRequested State = "requested"
	StateApproved  State = "approved"
	StateDenied    State = "denied"
	StateExpired   State = "expired"
	StateRevoked   State = "revoked"
)

// validTransitions encodes the machine: Requested resolves once, Approved can
// later lapse or be withdrawn, Denied/Expired/Revoked are terminal.
var validTransitions = map[State][]State{
	StateRequested: {StateApproved, StateDenied},
	StateApproved:  {StateExpired, StateRevoked},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Negotiation is one driver's request for consent to a single category.
type Negotiation struct {
	ID          id.NegotiationID
	PassengerID id.PassengerID
	DriverID    id.DriverID
	Category    id.DataCategory
	Reason      string
	Message     string
	State       State
	ExpiresAt   *time.Time // set on approval with a duration
	RequestedAt time.Time
	RespondedAt *time.Time
}

// EffectiveState folds lazy expiry into the stored state: an approved
// negotiation whose deadline has passed reads as expired without a write.
func (n *Negotiation) EffectiveState(now time.Time) State {
	if n.State == StateApproved && n.ExpiresAt != nil && now.After(*n.ExpiresAt) {
		return StateExpired
	}
	return n.State
}

func (n *Negotiation) clone() *Negotiation {
	out := *n
	if n.ExpiresAt != nil {
		t := *n.ExpiresAt
		out.ExpiresAt = &t
	}
	if n.RespondedAt != nil {
		t := *n.RespondedAt
		out.RespondedAt = &t
	}
	return &out
}
