package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/pkg/logger"
)

// DefaultMemoEntries caps the in-process memo; once full, new texts are
// still embedded but no longer remembered.
const DefaultMemoEntries = 4096

// Cached memoizes another provider in process and, when Redis is reachable,
// across processes. A cache failure degrades to calling the inner provider.
type Cached struct {
	inner  Provider
	redis  *cache.Redis
	ttl    time.Duration
	logger *logger.Logger
	keep   func(text string) bool
	limit  int

	mu   sync.RWMutex
	memo map[string]Vector
}

func NewCached(inner Provider, redis *cache.Redis, ttl time.Duration, log *logger.Logger) *Cached {
	return &Cached{
		inner:  inner,
		redis:  redis,
		ttl:    ttl,
		logger: log,
		limit:  DefaultMemoEntries,
		memo:   make(map[string]Vector),
	}
}

// Only restricts both cache layers to texts keep accepts. Anything else is
// embedded on every call. Call it before the provider is shared.
func (c *Cached) Only(keep func(text string) bool) *Cached {
	c.keep = keep
	return c
}

// Len reports the number of memoized texts.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memo)
}

func (c *Cached) cacheable(text string) bool {
	return c.keep == nil || c.keep(text)
}

func (c *Cached) Dimensions() int { return c.inner.Dimensions() }
func (c *Cached) Model() string   { return c.inner.Model() }

func (c *Cached) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	dims := c.inner.Dimensions()

	missing := make(map[string][]int)
	var order []string

	c.mu.RLock()
	for i, s := range texts {
		if v, ok := c.memo[s]; ok {
			out[i] = v.Clone()
			continue
		}
		if _, seen := missing[s]; !seen {
			order = append(order, s)
		}
		missing[s] = append(missing[s], i)
	}
	c.mu.RUnlock()

	if len(order) == 0 {
		return out, nil
	}

	var toEmbed []string
	for _, s := range order {
		v, ok := c.fromRedis(ctx, s, dims)
		if !ok {
			toEmbed = append(toEmbed, s)
			continue
		}
		c.store(s, v)
		for _, i := range missing[s] {
			out[i] = v.Clone()
		}
	}
	if len(toEmbed) == 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, toEmbed)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(toEmbed) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", ErrDimensionMismatch, len(vecs), len(toEmbed))
	}
	if err := checkDims(vecs, dims); err != nil {
		return nil, err
	}

	for j, s := range toEmbed {
		v := vecs[j]
		c.store(s, v)
		c.toRedis(ctx, s, v)
		for _, i := range missing[s] {
			out[i] = v.Clone()
		}
	}
	return out, nil
}

func (c *Cached) store(text string, v Vector) {
	if !c.cacheable(text) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.memo[text]; !ok && len(c.memo) >= c.limit {
		return
	}
	c.memo[text] = v.Clone()
}

func (c *Cached) fromRedis(ctx context.Context, text string, dims int) (Vector, bool) {
	if !c.cacheable(text) || !c.redis.Available() {
		return nil, false
	}
	var v Vector
	ok, err := c.redis.GetJSON(ctx, c.key(text), &v)
	if err != nil || !ok {
		return nil, false
	}
	if len(v) != dims {
		c.logger.Warn("discarding cached embedding with wrong dimensions", "model", c.Model(), "got", len(v), "want", dims)
		return nil, false
	}
	return v, true
}

func (c *Cached) toRedis(ctx context.Context, text string, v Vector) {
	if !c.cacheable(text) || !c.redis.Available() {
		return
	}
	if err := c.redis.SetJSON(ctx, c.key(text), v, c.ttl); err != nil {
		c.logger.Debug("embedding cache write failed", "error", err)
	}
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + c.Model() + ":" + hex.EncodeToString(sum[:])
}
