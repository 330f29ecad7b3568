package session

import (
	"context"
	"time"

	"skill-bridge/internal/infrastructure/cache"
)

const keyPrefix = "session:"

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	redis *cache.Redis
	ttl   time.Duration
}

func NewRedisStore(redis *cache.Redis, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	return r.redis.SetJSON(ctx, keyPrefix+s.ID, s, r.ttl)
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	var s Session
	ok, err := r.redis.GetJSON(ctx, keyPrefix+id, &s)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	var existing Session
	ok, err := r.redis.GetJSON(ctx, keyPrefix+s.ID, &existing)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.redis.SetJSON(ctx, keyPrefix+s.ID, s, r.ttl)
}

// NewStore picks Redis when it is reachable and memory otherwise.
func NewStore(redis *cache.Redis, ttl time.Duration) Store {
	if redis.Available() {
		return NewRedisStore(redis, ttl)
	}
	return NewMemoryStore(ttl)
}
