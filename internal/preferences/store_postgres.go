package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// PostgresStore persists records as one jsonb document per passenger. The
// record is read and written whole, which makes last-write-wins explicit.
//
// Schema:
//
//	CREATE TABLE passenger_preferences (
//	    passenger_id uuid PRIMARY KEY,
//	    record       jsonb NOT NULL,
//	    updated_at   timestamptz NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, passengerID id.PassengerID) (*Record, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM passenger_preferences WHERE passenger_id = $1`,
		passengerID.String(),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query preference record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode preference record: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, passengerID id.PassengerID, record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode preference record: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO passenger_preferences (passenger_id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (passenger_id) DO UPDATE SET
			record = EXCLUDED.record,
			updated_at = now()
	`, passengerID.String(), raw)
	if err != nil {
		return fmt.Errorf("upsert preference record: %w", err)
	}
	return nil
}
