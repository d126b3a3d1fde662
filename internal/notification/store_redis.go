package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKey is the hash holding the schedule, one field per notification ID.
const redisKey = "catalog:scheduled_notifications"

// RedisStore persists the schedule in a redis hash so it survives restarts.
// Semantics match InMemoryStore exactly; core algorithms never see the
// difference.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Merge(ctx context.Context, notifications []Scheduled) (int, error) {
	added := 0
	for _, n := range notifications {
		raw, err := s.client.HGet(ctx, redisKey, n.ID).Result()
		if err != nil && err != redis.Nil {
			return added, fmt.Errorf("get notification %s: %w", n.ID, err)
		}
		if err == nil {
			var existing Scheduled
			if err := json.Unmarshal([]byte(raw), &existing); err != nil {
				return added, fmt.Errorf("decode notification %s: %w", n.ID, err)
			}
			if existing.Sent {
				continue
			}
		} else {
			added++
		}
		if err := s.set(ctx, n); err != nil {
			return added, err
		}
	}
	return added, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Scheduled, error) {
	raw, err := s.client.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	entries := make([]Scheduled, 0, len(raw))
	for id, value := range raw {
		var n Scheduled
		if err := json.Unmarshal([]byte(value), &n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", id, err)
		}
		entries = append(entries, n)
	}
	return entries, nil
}

func (s *RedisStore) MarkSent(ctx context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		raw, err := s.client.HGet(ctx, redisKey, id).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("get notification %s: %w", id, err)
		}
		var n Scheduled
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return fmt.Errorf("decode notification %s: %w", id, err)
		}
		if n.Sent {
			continue
		}
		n.Sent = true
		sentAt := at
		n.SentAt = &sentAt
		if err := s.set(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, redisKey, ids...).Err(); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, n Scheduled) error {
	encoded, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, err)
	}
	if err := s.client.HSet(ctx, redisKey, n.ID, encoded).Err(); err != nil {
		return fmt.Errorf("store notification %s: %w", n.ID, err)
	}
	return nil
}
