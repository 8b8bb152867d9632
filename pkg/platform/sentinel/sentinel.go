package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// ErrNotFound means the record, grant or negotiation does not exist. Expiry
// and state are folded at read time by the owning service, so stores never
// report them; validation failures use pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
