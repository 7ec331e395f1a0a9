package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a resolved display name is served from cache.
const DefaultTTL = 10 * time.Minute

// ErrCacheMiss is returned by a Backend that does not hold a key.
var ErrCacheMiss = errors.New("cache miss")

// ProfileSource looks up the display name of a user in the system of record.
type ProfileSource interface {
	GetDisplayName(ctx context.Context, userID string) (string, error)
}

// Backend stores display names with an expiry.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DisplayNameCache is a read-through cache of user display names.
type DisplayNameCache struct {
	backend Backend
	source  ProfileSource
	ttl     time.Duration
}

// NewDisplayNameCache creates a cache. A non-positive ttl selects DefaultTTL.
func NewDisplayNameCache(backend Backend, source ProfileSource, ttl time.Duration) *DisplayNameCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DisplayNameCache{backend: backend, source: source, ttl: ttl}
}

func cacheKey(userID string) string {
	return "display_name:" + userID
}

// Resolve returns the display name of userID. Lookup failures are logged and
// fall back to the user id so listings never fail on a profile problem.
func (c *DisplayNameCache) Resolve(ctx context.Context, userID string) string {
	key := cacheKey(userID)
	name, err := c.backend.Get(ctx, key)
	if err == nil {
		return name
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "display name cache read failed", "user_id", userID, "error", err)
	}

	name, err = c.source.GetDisplayName(ctx, userID)
	if err != nil || name == "" {
		if err != nil {
			slog.DebugContext(ctx, "display name lookup failed", "user_id", userID, "error", err)
		}
		return userID
	}
	if err := c.backend.Set(ctx, key, name, c.ttl); err != nil {
		slog.WarnContext(ctx, "display name cache write failed", "user_id", userID, "error", err)
	}
	return name
}

// ResolveMany resolves each distinct id once.
func (c *DisplayNameCache) ResolveMany(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if _, ok := names[id]; ok {
			continue
		}
		names[id] = c.Resolve(ctx, id)
	}
	return names
}

// Invalidate drops the cached name of userID.
func (c *DisplayNameCache) Invalidate(ctx context.Context, userID string) error {
	return c.backend.Delete(ctx, cacheKey(userID))
}

// RedisBackend implements Backend on top of a Redis client.
type RedisBackend struct {
	client redis.Cmdable
}

// NewRedisBackend wraps client.
func NewRedisBackend(client redis.Cmdable) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	v, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

type localEntry struct {
	value   string
	expires time.Time
}

// DefaultLocalCapacity bounds the number of entries a LocalBackend holds.
const DefaultLocalCapacity = 10000

// LocalBackend is an in-process Backend used when no Redis is configured.
// When full, a Set first drops expired entries and then, if needed, the entry
// closest to expiry.
type LocalBackend struct {
	mu       sync.Mutex
	entries  map[string]localEntry
	capacity int
	now      func() time.Time
}

// NewLocalBackend creates an empty LocalBackend holding at most
// DefaultLocalCapacity entries.
func NewLocalBackend() *LocalBackend {
	return NewLocalBackendWithCapacity(DefaultLocalCapacity)
}

// NewLocalBackendWithCapacity creates an empty LocalBackend holding at most
// capacity entries.
func NewLocalBackendWithCapacity(capacity int) *LocalBackend {
	if capacity <= 0 {
		capacity = DefaultLocalCapacity
	}
	return &LocalBackend{entries: make(map[string]localEntry), capacity: capacity, now: time.Now}
}

func (b *LocalBackend) Get(_ context.Context, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !b.now().Before(e.expires) {
		delete(b.entries, key)
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (b *LocalBackend) Set(_ context.Context, key, value string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if _, ok := b.entries[key]; !ok && len(b.entries) >= b.capacity {
		b.evict(now)
	}
	b.entries[key] = localEntry{value: value, expires: now.Add(ttl)}
	return nil
}

// evict makes room for one entry. Callers hold mu.
func (b *LocalBackend) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range b.entries {
		if !now.Before(e.expires) {
			delete(b.entries, k)
			continue
		}
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if len(b.entries) >= b.capacity && oldestKey != "" {
		delete(b.entries, oldestKey)
	}
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}
