// AngelaMos | 2026
// cache.go

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

// TokenCache memoizes token lookups. Implementations must treat every error
// as a miss; the database stays the source of truth.
type TokenCache interface {
	Get(ctx context.Context, key string) (access.Principal, bool)
	Set(ctx context.Context, key string, p access.Principal)
	Delete(ctx context.Context, key string)
}

type cachedPrincipal struct {
	UserID  int64       `json:"user_id"`
	Role    access.Role `json:"role"`
	IsAdmin bool        `json:"is_admin"`
}

type redisTokenCache struct {
	redis *core.Redis
	ttl   time.Duration
}

func NewRedisTokenCache(r *core.Redis, ttl time.Duration) TokenCache {
	if r == nil || ttl <= 0 {
		return noopTokenCache{}
	}
	return &redisTokenCache{redis: r, ttl: ttl}
}

func cacheKey(key string) string {
	return "authtoken:" + core.HashToken(key)
}

func (c *redisTokenCache) Get(ctx context.Context, key string) (access.Principal, bool) {
	var cp cachedPrincipal
	found, err := c.redis.GetJSON(ctx, cacheKey(key), &cp)
	if err != nil {
		slog.WarnContext(ctx, "token cache read failed", "error", err)
		return access.Principal{}, false
	}
	if !found {
		return access.Principal{}, false
	}
	return access.Principal{UserID: cp.UserID, Role: cp.Role, IsAdmin: cp.IsAdmin}, true
}

func (c *redisTokenCache) Set(ctx context.Context, key string, p access.Principal) {
	cp := cachedPrincipal{UserID: p.UserID, Role: p.Role, IsAdmin: p.IsAdmin}
	if err := c.redis.SetJSON(ctx, cacheKey(key), cp, c.ttl); err != nil {
		slog.WarnContext(ctx, "token cache write failed", "error", err)
	}
}

func (c *redisTokenCache) Delete(ctx context.Context, key string) {
	if err := c.redis.Delete(ctx, cacheKey(key)); err != nil {
		slog.WarnContext(ctx, "token cache evict failed", "error", err)
	}
}

type noopTokenCache struct{}

func (noopTokenCache) Get(context.Context, string) (access.Principal, bool) {
	return access.Principal{}, false
}

func (noopTokenCache) Set(context.Context, string, access.Principal) {}

func (noopTokenCache) Delete(context.Context, string) {}
