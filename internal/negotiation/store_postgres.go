package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// PostgresStore persists one row per negotiation.
//
// Schema:
//
//	CREATE TABLE consent_negotiations (
//	    id           uuid PRIMARY KEY,
//	    passenger_id uuid NOT NULL,
//	    driver_id    uuid NOT NULL,
//	    category     text NOT NULL,
//	    reason       text NOT NULL DEFAULT '',
//	    message      text NOT NULL DEFAULT '',
//	    state        text NOT NULL,
//	    expires_at   timestamptz,
//	    requested_at timestamptz NOT NULL,
//	    responded_at timestamptz
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, negotiationID id.NegotiationID) (*Negotiation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, passenger_id, driver_id, category, reason, message,
		       state, expires_at, requested_at, responded_at
		FROM consent_negotiations
		WHERE id = $1
	`, negotiationID.String())

	negotiation, err := scanNegotiation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query negotiation: %w", err)
	}
	return negotiation, nil
}

func (s *PostgresStore) Put(ctx context.Context, negotiation *Negotiation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO consent_negotiations (
			id, passenger_id, driver_id, category, reason, message,
			state, expires_at, requested_at, responded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			expires_at = EXCLUDED.expires_at,
			responded_at = EXCLUDED.responded_at
	`,
		negotiation.ID.String(),
		negotiation.PassengerID.String(),
		negotiation.DriverID.String(),
		negotiation.Category.String(),
		negotiation.Reason,
		negotiation.Message,
		string(negotiation.State),
		negotiation.ExpiresAt,
		negotiation.RequestedAt,
		negotiation.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert negotiation: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPassenger(ctx context.Context, passengerID id.PassengerID) ([]*Negotiation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, passenger_id, driver_id, category, reason, message,
		       state, expires_at, requested_at, responded_at
		FROM consent_negotiations
		WHERE passenger_id = $1
		ORDER BY requested_at DESC
	`, passengerID.String())
	if err != nil {
		return nil, fmt.Errorf("query negotiations: %w", err)
	}
	defer rows.Close()

	var negotiations []*Negotiation
	for rows.Next() {
		negotiation, err := scanNegotiation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan negotiation: %w", err)
		}
		negotiations = append(negotiations, negotiation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate negotiations: %w", err)
	}
	return negotiations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNegotiation(row rowScanner) (*Negotiation, error) {
	var (
		idRaw        string
		passengerRaw string
		driverRaw    string
		categoryRaw  string
		stateRaw     string
		expiresAt    *time.Time
		respondedAt  *time.Time
	)
	negotiation := &Negotiation{}
	err := row.Scan(
		&idRaw,
		&passengerRaw,
		&driverRaw,
		&categoryRaw,
		&negotiation.Reason,
		&negotiation.Message,
		&stateRaw,
		&expiresAt,
		&negotiation.RequestedAt,
		&respondedAt,
	)
	if err != nil {
		return nil, err
	}

	negotiationID, err := id.ParseNegotiationID(idRaw)
	if err != nil {
		return nil, err
	}
	passengerID, err := id.ParsePassengerID(passengerRaw)
	if err != nil {
		return nil, err
	}
	driverID, err := id.ParseDriverID(driverRaw)
	if err != nil {
		return nil, err
	}

	negotiation.ID = negotiationID
	negotiation.PassengerID = passengerID
	negotiation.DriverID = driverID
	negotiation.Category = id.DataCategory(categoryRaw)
	negotiation.State = State(stateRaw)
	negotiation.ExpiresAt = expiresAt
	negotiation.RespondedAt = respondedAt
	return negotiation, nil
}
