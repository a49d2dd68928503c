package usecase

import (
	"context"
	"fmt"
	"sync"

	"lustroom-portal/domain/model"
	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/metrics"
)

// Collection names a cached remote collection.
type Collection string

const (
	CollectionPlatforms Collection = "platforms"
	CollectionTiers     Collection = "tiers"
)

// DataCache memoises the platform list and per-platform tier lists for one session.
//
// The lock only guards map access. It is released during the backend call, so two
// concurrent misses for the same key both fetch and the later response wins.
type DataCache struct {
	backend repository.IPortalBackend

	mu           sync.Mutex
	platforms    []model.Platform
	hasPlatforms bool
	tiers        map[string][]model.Tier
}

func NewDataCache(backend repository.IPortalBackend) *DataCache {
	return &DataCache{backend: backend, tiers: make(map[string][]model.Tier)}
}

// Ensure loads collection into the cache unless it is already there. key is the
// platform id for tiers and ignored for platforms.
func (c *DataCache) Ensure(ctx context.Context, token string, collection Collection, key string) error {
	switch collection {
	case CollectionPlatforms:
		_, err := c.EnsurePlatforms(ctx, token)
		return err
	case CollectionTiers:
		if key == "" {
			return fmt.Errorf("tiers require a platform id")
		}
		_, err := c.EnsureTiers(ctx, token, key)
		return err
	}
	return fmt.Errorf("unknown collection %q", collection)
}

// EnsurePlatforms returns the cached platform list, fetching it on first use.
func (c *DataCache) EnsurePlatforms(ctx context.Context, token string) ([]model.Platform, error) {
	c.mu.Lock()
	if c.hasPlatforms {
		platforms := c.platforms
		c.mu.Unlock()
		metrics.ObserveCache(string(CollectionPlatforms), true)
		return platforms, nil
	}
	c.mu.Unlock()
	metrics.ObserveCache(string(CollectionPlatforms), false)

	platforms, err := c.backend.GetPlatforms(ctx, token)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.platforms = platforms
	c.hasPlatforms = true
	c.mu.Unlock()
	return platforms, nil
}

// EnsureTiers returns the cached tier list of platformID, fetching it on first use.
func (c *DataCache) EnsureTiers(ctx context.Context, token, platformID string) ([]model.Tier, error) {
	c.mu.Lock()
	if tiers, ok := c.tiers[platformID]; ok {
		c.mu.Unlock()
		metrics.ObserveCache(string(CollectionTiers), true)
		return tiers, nil
	}
	c.mu.Unlock()
	metrics.ObserveCache(string(CollectionTiers), false)

	tiers, err := c.backend.GetTiers(ctx, token, platformID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tiers[platformID] = tiers
	c.mu.Unlock()
	return tiers, nil
}

// Has reports whether collection (and key, for tiers) is already cached.
func (c *DataCache) Has(collection Collection, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch collection {
	case CollectionPlatforms:
		return c.hasPlatforms
	case CollectionTiers:
		_, ok := c.tiers[key]
		return ok
	}
	return false
}

// FindPlatform looks a platform up in the cached list.
func (c *DataCache) FindPlatform(platformID string) (model.Platform, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.platforms {
		if p.ID.String() == platformID {
			return p, true
		}
	}
	return model.Platform{}, false
}

// Content always goes to the backend. Tier content is never cached.
func (c *DataCache) Content(ctx context.Context, token, tierID string) (model.TierContent, error) {
	return c.backend.GetContent(ctx, token, tierID)
}
