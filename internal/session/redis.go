package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON values under <prefix>session:<profile>.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a store on client. ttl bounds how long a key lives; a
// token expiring sooner shortens it.
func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (r *RedisStore) key(profile string) string {
	return fmt.Sprintf("%ssession:%s", r.prefix, profile)
}

func (r *RedisStore) Load(ctx context.Context, profile string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := r.ttl
	if s.ExpiresAt != nil {
		if left := s.ExpiresAt.Sub(r.now()); ttl <= 0 || left < ttl {
			ttl = left
		}
		if ttl <= 0 {
			return ErrExpired
		}
	}

	if err := r.client.Set(ctx, r.key(s.Profile), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, profile string) error {
	if err := r.client.Del(ctx, r.key(profile)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
