package audit

import "context"

// Store is an append-only sink. Nothing in this subsystem mutates or
// deletes events once written.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
