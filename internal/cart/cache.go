package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/redis"
)

// errCacheMiss covers every reason a cached cart cannot be served: absent,
// older than the freshness bound, or keyed to a different user.
var errCacheMiss = errors.New("cart cache miss")

// cachedCart is the durable copy of a loaded cart. It exists so a user who
// reopens the app while the store is unreachable still sees their last
// known cart instead of an empty one.
type cachedCart struct {
	UserID  uuid.UUID         `json:"user_id"`
	Lines   []models.CartLine `json:"lines"`
	Version uint64            `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
}

type fallbackStore interface {
	Save(ctx context.Context, cached cachedCart) error
	Load(ctx context.Context, userID uuid.UUID) (*cachedCart, error)
	Drop(ctx context.Context, userID uuid.UUID) error
}

// redisFallback keeps one JSON blob per user with a TTL matching the
// freshness bound, so expired entries vanish on their own.
type redisFallback struct {
	client *redis.Client
	maxAge time.Duration
}

// NewRedisFallback wraps the Redis client as the durable cart cache.
func NewRedisFallback(client *redis.Client, maxAge time.Duration) *redisFallback {
	return &redisFallback{client: client, maxAge: maxAge}
}

func (c *redisFallback) Save(ctx context.Context, cached cachedCart) error {
	payload, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redis.CartCacheKey(cached.UserID.String()), payload, c.maxAge)
}

func (c *redisFallback) Load(ctx context.Context, userID uuid.UUID) (*cachedCart, error) {
	raw, err := c.client.Get(ctx, redis.CartCacheKey(userID.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errCacheMiss
		}
		return nil, err
	}

	var cached cachedCart
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, errCacheMiss
	}
	// TTL already bounds staleness; both checks stay because the entry may
	// have been written with a longer TTL by an older build, or under the
	// wrong key by an operator.
	if cached.UserID != userID {
		return nil, errCacheMiss
	}
	if time.Since(cached.SavedAt) > c.maxAge {
		return nil, errCacheMiss
	}
	return &cached, nil
}

func (c *redisFallback) Drop(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, redis.CartCacheKey(userID.String()))
}
