package session

import (
	"context"
	"sync"
	"time"

	"skill-bridge/internal/infrastructure/cache"

	"github.com/google/uuid"
)

const lockPrefix = "session-lock:"

// Locker guards a session against concurrent analyses.
type Locker interface {
	Lock(ctx context.Context, id string) (bool, error)
	Unlock(ctx context.Context, id string)
}

type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Lock(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[id]; busy {
		return false, nil
	}
	l.held[id] = struct{}{}
	return true, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, id string) {
	l.mu.Lock()
	delete(l.held, id)
	l.mu.Unlock()
}

type lockBackend interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	DeleteIfEquals(ctx context.Context, key string, value string) (bool, error)
}

// RedisLocker shares locks between the server and workers. The ttl bounds
// how long a crashed holder blocks a session. Each lock carries a token so a
// holder whose ttl ran out cannot release its successor's lock.
type RedisLocker struct {
	backend lockBackend
	ttl     time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLocker(redis *cache.Redis, ttl time.Duration) *RedisLocker {
	return newRedisLocker(redis, ttl)
}

func newRedisLocker(backend lockBackend, ttl time.Duration) *RedisLocker {
	return &RedisLocker{backend: backend, ttl: ttl, tokens: make(map[string]string)}
}

func (l *RedisLocker) Lock(ctx context.Context, id string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.backend.SetIfNotExists(ctx, lockPrefix+id, token, l.ttl)
	if err != nil || !ok {
		return false, err
	}
	l.mu.Lock()
	l.tokens[id] = token
	l.mu.Unlock()
	return true, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, id string) {
	l.mu.Lock()
	token, ok := l.tokens[id]
	delete(l.tokens, id)
	l.mu.Unlock()
	if !ok {
		return
	}
	_, _ = l.backend.DeleteIfEquals(context.WithoutCancel(ctx), lockPrefix+id, token)
}

func NewLocker(redis *cache.Redis, ttl time.Duration) Locker {
	if redis.Available() {
		return NewRedisLocker(redis, ttl)
	}
	return NewMemoryLocker()
}
