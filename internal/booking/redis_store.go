package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "booking:"
	indexKey        = "bookings:index"
	seqKey          = "bookings:seq"
)

// RedisStore persists bookings as JSON values with a sorted-set index keyed by
// creation time, so Find and ListAll come back in creation order.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("booking: redis client required")
	}
	return &RedisStore{client: client}
}

func recordKey(id string) string {
	return recordKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, rec Record) (*Record, error) {
	rec.ID = NewID()
	rec.CreatedAt = time.Now().UTC()
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("booking: marshal record: %w", err)
	}
	if err := s.client.Set(ctx, recordKey(rec.ID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("booking: persist record: %w", err)
	}
	// a monotonic sequence keeps index order stable even when two records
	// share a created_at timestamp
	seq, err := s.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("booking: advance sequence: %w", err)
	}
	if err := s.client.ZAdd(ctx, indexKey, redis.Z{Score: float64(seq), Member: rec.ID}).Err(); err != nil {
		return nil, fmt.Errorf("booking: index record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Find(ctx context.Context, f Filter) ([]Record, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range all {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, u Update) (*Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Date != nil {
		rec.Date = *u.Date
	}
	if u.Time != nil {
		rec.Time = *u.Time
	}
	if u.Location != nil {
		rec.Location = *u.Location
	}
	if u.Meta != nil {
		rec.Meta = u.Meta
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("booking: marshal record: %w", err)
	}
	if err := s.client.Set(ctx, recordKey(id), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("booking: persist update: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, recordKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("booking: delete record: %w", err)
	}
	if err := s.client.ZRem(ctx, indexKey, id).Err(); err != nil {
		return false, fmt.Errorf("booking: unindex record: %w", err)
	}
	return removed > 0, nil
}

func (s *RedisStore) ListAll(ctx context.Context) ([]Record, error) {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("booking: read index: %w", err)
	}
	var out []Record
	for _, id := range ids {
		rec, err := s.load(ctx, id)
		if err == ErrNotFound {
			// index entry outlived its record; skip
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *RedisStore) ResetAll(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("booking: read index: %w", err)
	}
	for _, id := range ids {
		if err := s.client.Del(ctx, recordKey(id)).Err(); err != nil {
			return fmt.Errorf("booking: delete record: %w", err)
		}
	}
	if err := s.client.Del(ctx, indexKey).Err(); err != nil {
		return fmt.Errorf("booking: delete index: %w", err)
	}
	return nil
}

func (s *RedisStore) SeedDemoData(ctx context.Context) error {
	for _, rec := range demoRecords(time.Now().UTC()) {
		if _, err := s.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: load record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("booking: decode record: %w", err)
	}
	return &rec, nil
}
