package consent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

// PostgresStore persists one row per (passenger, category) grant. The driver
// allow-list is a jsonb object keyed by driver id, each entry carrying that
// driver's own expiry window.
//
// Schema:
//
//	CREATE TABLE consent_grants (
//	    passenger_id      uuid NOT NULL,
//	    category          text NOT NULL,
//	    share_with        text NOT NULL,
//	    granted_to        jsonb NOT NULL DEFAULT '{}',
//	    expires_after_ride boolean NOT NULL,
//	    expires_at        timestamptz,
//	    created_at        timestamptz NOT NULL,
//	    updated_at        timestamptz NOT NULL,
//	    PRIMARY KEY (passenger_id, category)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) (*Grant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT passenger_id, category, share_with, granted_to,
		       expires_after_ride, expires_at, created_at, updated_at
		FROM consent_grants
		WHERE passenger_id = $1 AND category = $2
	`, passengerID.String(), category.String())

	grant, err := scanGrant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query consent grant: %w", err)
	}
	return grant, nil
}

func (s *PostgresStore) Put(ctx context.Context, grant *Grant) error {
	grantedTo, err := encodeGrantedTo(grant.GrantedTo)
	if err != nil {
		return fmt.Errorf("encode granted_to: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO consent_grants (
			passenger_id, category, share_with, granted_to,
			expires_after_ride, expires_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (passenger_id, category) DO UPDATE SET
			share_with = EXCLUDED.share_with,
			granted_to = EXCLUDED.granted_to,
			expires_after_ride = EXCLUDED.expires_after_ride,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`,
		grant.PassengerID.String(),
		grant.Category.String(),
		string(grant.ShareWith),
		grantedTo,
		grant.Expiry.AfterRide,
		grant.Expiry.At,
		grant.CreatedAt,
		grant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert consent grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM consent_grants WHERE passenger_id = $1 AND category = $2`,
		passengerID.String(), category.String(),
	)
	if err != nil {
		return fmt.Errorf("delete consent grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPassenger(ctx context.Context, passengerID id.PassengerID) ([]*Grant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT passenger_id, category, share_with, granted_to,
		       expires_after_ride, expires_at, created_at, updated_at
		FROM consent_grants
		WHERE passenger_id = $1
		ORDER BY category
	`, passengerID.String())
	if err != nil {
		return nil, fmt.Errorf("query consent grants: %w", err)
	}
	defer rows.Close()

	var grants []*Grant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent grants: %w", err)
	}
	return grants, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// grantedToEntry is the jsonb shape of one allow-list member.
type grantedToEntry struct {
	AfterRide bool       `json:"afterRide"`
	At        *time.Time `json:"at,omitempty"`
}

func encodeGrantedTo(grantedTo map[id.DriverID]Expiry) ([]byte, error) {
	entries := make(map[string]grantedToEntry, len(grantedTo))
	for driverID, expiry := range grantedTo {
		entries[driverID.String()] = grantedToEntry{AfterRide: expiry.AfterRide, At: expiry.At}
	}
	return json.Marshal(entries)
}

func decodeGrantedTo(raw []byte) (map[id.DriverID]Expiry, error) {
	entries := make(map[string]grantedToEntry)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
	}
	grantedTo := make(map[id.DriverID]Expiry, len(entries))
	for rawID, entry := range entries {
		driverID, err := id.ParseDriverID(rawID)
		if err != nil {
			return nil, err
		}
		grantedTo[driverID] = Expiry{AfterRide: entry.AfterRide, At: entry.At}
	}
	return grantedTo, nil
}

func scanGrant(row rowScanner) (*Grant, error) {
	var (
		passengerRaw string
		categoryRaw  string
		shareWithRaw string
		grantedToRaw []byte
		expiresAt    *time.Time
	)
	grant := &Grant{}
	err := row.Scan(
		&passengerRaw,
		&categoryRaw,
		&shareWithRaw,
		&grantedToRaw,
		&grant.Expiry.AfterRide,
		&expiresAt,
		&grant.CreatedAt,
		&grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	passengerID, err := id.ParsePassengerID(passengerRaw)
	if err != nil {
		return nil, err
	}
	grant.PassengerID = passengerID
	grant.Category = id.DataCategory(categoryRaw)
	grant.ShareWith = ShareWith(shareWithRaw)
	grant.Expiry.At = expiresAt
	grant.GrantedTo, err = decodeGrantedTo(grantedToRaw)
	if err != nil {
		return nil, fmt.Errorf("decode granted_to: %w", err)
	}
	return grant, nil
}
