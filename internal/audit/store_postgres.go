package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore appends events to the audit_events table.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id                   uuid PRIMARY KEY,
//	    category             text NOT NULL,
//	    action               text NOT NULL,
//	    actor_id             text NOT NULL,
//	    actor_type           text NOT NULL,
//	    subject_id           text NOT NULL,
//	    categories_disclosed text[] NOT NULL DEFAULT '{}',
//	    reason               text NOT NULL DEFAULT '',
//	    decision             text NOT NULL DEFAULT '',
//	    request_id           text NOT NULL DEFAULT '',
//	    timestamp            timestamptz NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	query := `
		INSERT INTO audit_events (
			id, category, action, actor_id, actor_type, subject_id,
			categories_disclosed, reason, decision, request_id, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Action.Category()),
		string(event.Action),
		event.ActorID,
		string(event.ActorType),
		event.SubjectID,
		pq.Array(event.CategoriesDisclosed),
		event.Reason,
		event.Decision,
		event.RequestID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID string) ([]Event, error) {
	query := `
		SELECT action, actor_id, actor_type, subject_id,
		       categories_disclosed, reason, decision, request_id, timestamp
		FROM audit_events
		WHERE subject_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	query := `
		SELECT action, actor_id, actor_type, subject_id,
		       categories_disclosed, reason, decision, request_id, timestamp
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			event      Event
			action     string
			actorType  string
			categories pq.StringArray
		)
		err := rows.Scan(
			&action,
			&event.ActorID,
			&actorType,
			&event.SubjectID,
			&categories,
			&event.Reason,
			&event.Decision,
			&event.RequestID,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = Action(action)
		event.ActorType = ActorType(actorType)
		event.CategoriesDisclosed = []string(categories)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
