package badge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/cache"
	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
)

// Catalog resolves badges by their unique name.
type Catalog interface {
	ByName(ctx context.Context, name string) (Badge, bool, error)
}

// DBCatalog reads the badges table.
type DBCatalog struct {
	db *gorm.DB
}

// NewDBCatalog constructs a storage-backed catalog.
func NewDBCatalog(db *gorm.DB) *DBCatalog {
	return &DBCatalog{db: db}
}

// ByName loads a badge. found is false when the catalog has no such badge.
func (c *DBCatalog) ByName(ctx context.Context, name string) (Badge, bool, error) {
	var b Badge
	if err := c.db.WithContext(ctx).Where("name = ?", name).Take(&b).Error; err != nil {
		if dberr.IsNotFound(err) {
			return Badge{}, false, nil
		}
		return Badge{}, false, fmt.Errorf("load badge %q: %w", name, err)
	}
	return b, true, nil
}

// CachedCatalog fronts a Catalog with a cache. Concurrent misses for the same
// name share one lookup. Absent badges are not cached so a newly seeded badge
// is picked up on the next evaluation.
type CachedCatalog struct {
	source Catalog
	cache  cache.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedCatalog wraps source with cache.
func NewCachedCatalog(source Catalog, c cache.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{source: source, cache: c, ttl: ttl, logger: logger}
}

func cacheKey(name string) string {
	return "badge:name:" + name
}

// ByName serves from cache when possible.
func (c *CachedCatalog) ByName(ctx context.Context, name string) (Badge, bool, error) {
	key := cacheKey(name)

	var cached Badge
	err := cache.GetJSON(ctx, c.cache, key, &cached)
	if err == nil {
		return cached, true, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.WarnContext(ctx, "badge cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	type lookup struct {
		badge Badge
		found bool
	}

	// The shared lookup outlives any single caller's cancellation.
	lookupCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		b, found, err := c.source.ByName(lookupCtx, name)
		if err != nil || !found {
			return lookup{}, err
		}
		if err := cache.SetJSON(lookupCtx, c.cache, key, b, c.ttl); err != nil {
			c.logger.WarnContext(lookupCtx, "badge cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return lookup{badge: b, found: true}, nil
	})
	if err != nil {
		return Badge{}, false, err
	}

	res := v.(lookup)
	return res.badge, res.found, nil
}

// Invalidate drops cached entries, e.g. after a catalog seed.
func (c *CachedCatalog) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, cacheKey(n))
	}
	return c.cache.Delete(ctx, keys...)
}
