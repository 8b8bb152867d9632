package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/sentinel"
)

const prefsKeyPrefix = "prefs:"

// RedisStore keeps records as JSON values. Used as a low-latency backend for
// deployments where the preference source of truth lives in the main app's
// database and this service only holds a synchronized copy.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, passengerID id.PassengerID) (*Record, error) {
	raw, err := s.client.Get(ctx, prefsKeyPrefix+passengerID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get preference record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode preference record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Upsert(ctx context.Context, passengerID id.PassengerID, record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode preference record: %w", err)
	}
	if err := s.client.Set(ctx, prefsKeyPrefix+passengerID.String(), raw, 0).Err(); err != nil {
		return fmt.Errorf("set preference record: %w", err)
	}
	return nil
}
