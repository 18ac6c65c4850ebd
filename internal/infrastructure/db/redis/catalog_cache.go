package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openlearn/education-platform/internal/api/metrics"
	"github.com/openlearn/education-platform/internal/core/domain"
)

const (
	catalogKey = "catalog:courses"
	catalogTTL = 30 * time.Second
)

// CatalogCache is a read-through cache for the course catalog. Failures are
// logged and treated as misses; the catalog is always recoverable from Mongo.
type CatalogCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCatalogCache(client *redis.Client, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{client: client, log: log}
}

func (c *CatalogCache) Get(ctx context.Context) ([]*domain.Course, bool) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("catalog cache read failed")
		}
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var courses []*domain.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache payload corrupt")
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return courses, true
}

func (c *CatalogCache) Set(ctx context.Context, courses []*domain.Course) {
	raw, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn().Err(err).Msg("catalog cache encode failed")
		return
	}
	if err := c.client.Set(ctx, catalogKey, raw, catalogTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache invalidate failed")
	}
}
