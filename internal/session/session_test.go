package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/pkg/logger"
)

func TestTransition(t *testing.T) {
	now := time.Now()
	s := New("s1", now)

	if err := s.Transition(StatusCompleted, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending -> completed must fail, got %v", err)
	}
	for _, next := range []Status{StatusProcessing, StatusCompleted, StatusProcessing, StatusFailed, StatusProcessing} {
		if err := s.Transition(next, now); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if err := s.Transition(StatusPending, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("processing -> pending must fail, got %v", err)
	}
}

func TestMemoryStore_ReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	s := New("s1", time.Now())
	s.Skills.HardSkills = append(s.Skills.HardSkills, "python")
	s.Matches = []matching.RoleMatch{{RoleID: "r", Gaps: []string{"sql"}}}
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.Skills.HardSkills[0] = "mutated"
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Skills.HardSkills[0] != "python" {
		t.Fatalf("store shared caller's slice")
	}

	got.Matches[0].Gaps[0] = "mutated"
	again, _ := store.Get(ctx, "s1")
	if again.Matches[0].Gaps[0] != "sql" {
		t.Fatalf("store shared returned slice")
	}
}

func TestMemoryStore_NotFoundAndExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, New("missing", base)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("save of unknown session must fail, got %v", err)
	}

	_ = store.Create(ctx, New("s1", base))
	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	store := NewStore(cache.NewRedis(config.RedisConfig{}, logger.NewNop()), time.Hour)
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	r := cache.NewRedis(config.RedisConfig{Host: host, Port: os.Getenv("REDIS_PORT"), Password: os.Getenv("REDIS_PASSWORD")}, logger.NewNop())
	if !r.Available() {
		t.Skip("redis not reachable")
	}
	defer r.Close()

	ctx := context.Background()
	store := NewRedisStore(r, time.Minute)
	id := "test-" + time.Now().Format("150405.000000")
	defer r.Delete(ctx, keyPrefix+id)

	s := New(id, time.Now().UTC())
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = s.Transition(StatusProcessing, time.Now().UTC())
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusProcessing {
		t.Fatalf("expected processing, got %s", got.Status)
	}
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) NotifySession(_ context.Context, evt Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func TestFanout_DeliversToAllAndSwallowsErrors(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("broker down")}
	ok := &recordingNotifier{}
	f := NewFanout(logger.NewNop(), failing, nil, ok)

	if err := f.NotifySession(context.Background(), Event{SessionID: "s1", Status: StatusProcessing}); err != nil {
		t.Fatalf("fanout must not fail: %v", err)
	}
	if len(failing.events) != 1 || len(ok.events) != 1 {
		t.Fatalf("expected one event per notifier, got %d and %d", len(failing.events), len(ok.events))
	}
}

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	if ok, _ := l.Lock(ctx, "s1"); !ok {
		t.Fatalf("first lock must succeed")
	}
	if ok, _ := l.Lock(ctx, "s1"); ok {
		t.Fatalf("second lock must fail")
	}
	if ok, _ := l.Lock(ctx, "s2"); !ok {
		t.Fatalf("locks are per session")
	}
	l.Unlock(ctx, "s1")
	if ok, _ := l.Lock(ctx, "s1"); !ok {
		t.Fatalf("lock after unlock must succeed")
	}
}

// fakeLockBackend holds keys without expiry; tests expire them by hand.
type fakeLockBackend struct {
	mu   sync.Mutex
	keys map[string]string
}

func (f *fakeLockBackend) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = value
	return true, nil
}

func (f *fakeLockBackend) DeleteIfEquals(_ context.Context, key, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] != value {
		return false, nil
	}
	delete(f.keys, key)
	return true, nil
}

func TestRedisLocker_UnlockKeepsSuccessorLock(t *testing.T) {
	ctx := context.Background()
	backend := &fakeLockBackend{keys: map[string]string{}}
	first := newRedisLocker(backend, time.Minute)
	second := newRedisLocker(backend, time.Minute)

	if ok, err := first.Lock(ctx, "s1"); err != nil || !ok {
		t.Fatalf("first lock must succeed, ok=%v err=%v", ok, err)
	}
	if ok, _ := second.Lock(ctx, "s1"); ok {
		t.Fatalf("second lock must fail while the first is held")
	}

	// The first holder's ttl runs out and another process takes the lock.
	delete(backend.keys, lockPrefix+"s1")
	if ok, _ := second.Lock(ctx, "s1"); !ok {
		t.Fatalf("lock after expiry must succeed")
	}

	first.Unlock(ctx, "s1")
	if _, held := backend.keys[lockPrefix+"s1"]; !held {
		t.Fatalf("stale holder released its successor's lock")
	}

	second.Unlock(ctx, "s1")
	if _, held := backend.keys[lockPrefix+"s1"]; held {
		t.Fatalf("holder could not release its own lock")
	}
}

func TestNewLocker_FallsBackToMemory(t *testing.T) {
	l := NewLocker(cache.NewRedis(config.RedisConfig{}, logger.NewNop()), time.Minute)
	if _, ok := l.(*MemoryLocker); !ok {
		t.Fatalf("expected memory locker, got %T", l)
	}
}
