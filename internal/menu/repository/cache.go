package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/domain"
)

const (
	menuCacheKey = "archiv:menu:items" // flat item list, JSON-encoded
	menuCacheTTL = 5 * time.Minute
)

// CachedStore keeps the flat menu list in Redis in front of the record store.
// The cache is best-effort: any Redis failure falls through to the inner store,
// and writes invalidate the key so the next read repopulates it.
type CachedStore struct {
	inner  Store
	client *redis.Client
}

func NewCachedStore(inner Store, client *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, client: client}
}

func (c *CachedStore) List(ctx context.Context) ([]domain.MenuItem, error) {
	data, err := c.client.Get(ctx, menuCacheKey).Result()
	if err == nil {
		var items []domain.MenuItem
		if err := json.Unmarshal([]byte(data), &items); err == nil {
			return items, nil
		}
		// Unreadable cache entry: drop it and fall through.
		c.client.Del(ctx, menuCacheKey)
	} else if err != redis.Nil {
		log.Printf("menu cache read failed, falling back to store: %v", err)
	}

	items, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := c.client.Set(ctx, menuCacheKey, data, menuCacheTTL).Err(); err != nil {
			log.Printf("menu cache write failed: %v", err)
		}
	}

	return items, nil
}

func (c *CachedStore) Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	created, err := c.inner.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *CachedStore) Delete(ctx context.Context, docID string) error {
	if err := c.inner.Delete(ctx, docID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, menuCacheKey).Err(); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
}
