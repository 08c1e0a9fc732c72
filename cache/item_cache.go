package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ItemCachePrefix     = "item:detail:v:"
	ItemListCachePrefix = "items:v:"
	CacheVersionKey     = "items:version"
	DefaultCacheTTL     = 5 * time.Minute
)

// ItemCache caches item details and catalog pages in Redis. Every entry is
// keyed by a version counter, so bumping the counter invalidates all of them at
// once. Readers take the version before loading from MongoDB and write back
// under that same version, so a refill that races a write lands on a key
// nobody reads anymore.
type ItemCache struct {
	redis   *redis.Client
	ttl     time.Duration
	metrics *awspkg.MetricsClient
}

func NewItemCache(client *redis.Client, ttl time.Duration, metrics *awspkg.MetricsClient) *ItemCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ItemCache{redis: client, ttl: ttl, metrics: metrics}
}

// Version returns the current catalog version. ok is false when Redis is unavailable.
func (c *ItemCache) Version(ctx context.Context) (int64, bool) {
	version, err := c.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return 0, false
	}
	return version, true
}

// GetItem retrieves a cached item
func (c *ItemCache) GetItem(ctx context.Context, version int64, id string) (*models.Item, bool) {
	cached, err := c.redis.Get(ctx, ItemCacheKey(version, id)).Result()
	if err != nil {
		c.record(ctx, awspkg.MetricCacheMisses)
		return nil, false
	}

	var item models.Item
	if err := json.Unmarshal([]byte(cached), &item); err != nil {
		zap.L().Warn("Failed to unmarshal cached item", zap.Error(err), zap.String("item_id", id))
		return nil, false
	}
	c.record(ctx, awspkg.MetricCacheHits)
	return &item, true
}

// SetItemAsync caches a single item asynchronously under version
func (c *ItemCache) SetItemAsync(version int64, item *models.Item) {
	key := ItemCacheKey(version, item.ID.Hex())
	payload, err := json.Marshal(item)
	if err != nil {
		zap.L().Warn("Failed to marshal item for cache", zap.Error(err), zap.String("key", key))
		return
	}
	c.setAsync(key, payload)
}

// GetList retrieves a cached catalog page
func (c *ItemCache) GetList(ctx context.Context, version int64, f models.ItemFilter) (*models.ItemPage, bool) {
	cached, err := c.redis.Get(ctx, ListCacheKey(version, f)).Result()
	if err != nil {
		c.record(ctx, awspkg.MetricCacheMisses)
		return nil, false
	}

	var page models.ItemPage
	if err := json.Unmarshal([]byte(cached), &page); err != nil {
		zap.L().Warn("Failed to unmarshal cached item list", zap.Error(err))
		return nil, false
	}
	c.record(ctx, awspkg.MetricCacheHits)
	return &page, true
}

// SetListAsync caches a catalog page asynchronously under version
func (c *ItemCache) SetListAsync(version int64, f models.ItemFilter, page *models.ItemPage) {
	payload, err := json.Marshal(page)
	if err != nil {
		zap.L().Warn("Failed to marshal item list for cache", zap.Error(err))
		return
	}
	c.setAsync(ListCacheKey(version, f), payload)
}

func (c *ItemCache) setAsync(key string, payload []byte) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := c.redis.Set(bgCtx, key, payload, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache entry", zap.Error(err), zap.String("key", key))
		}
	}()
}

// InvalidateItem bumps the catalog version. Entries written under older
// versions are never read again and expire with their TTL.
func (c *ItemCache) InvalidateItem(ctx context.Context, id string) {
	newVersion, err := c.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate item cache", zap.Error(err), zap.String("item_id", id))
		return
	}
	zap.L().Debug("Item cache invalidated", zap.Int64("new_version", newVersion), zap.String("item_id", id))
}

// getCacheVersion retrieves the current cache version with retry logic
func (c *ItemCache) getCacheVersion(ctx context.Context) (int64, error) {
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		ver, err := c.redis.Get(ctx, CacheVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if err == redis.Nil {
			if err := c.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
				continue
			}
		}

		if i < maxRetries-1 {
			time.Sleep(time.Millisecond * 50)
		}
	}

	return 0, fmt.Errorf("failed to get cache version after %d retries", maxRetries)
}

func (c *ItemCache) record(ctx context.Context, metric string) {
	if c.metrics.IsEnabled() {
		_ = c.metrics.RecordCount(ctx, metric, map[string]string{"Cache": "items"})
	}
}

// ItemCacheKey creates the cache key for one item's detail entry
func ItemCacheKey(version int64, id string) string {
	return fmt.Sprintf("%s%d:%s", ItemCachePrefix, version, id)
}

// ListCacheKey creates a unique cache key for a catalog page
func ListCacheKey(version int64, f models.ItemFilter) string {
	return fmt.Sprintf("%s%d:p:%d:l:%d:c:%s:t:%s:e:%s",
		ItemListCachePrefix, version, f.Page, f.Limit, f.Category, f.ListingType, f.Email)
}
