package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

// CachedProviderAdapter wraps a ProviderRepository with caching
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	providerByIDTTL  = 300 // 5 minutes for single provider
	providerListTTL  = 120 // 2 minutes for paged list results
	filterOptionsTTL = 600 // 10 minutes for facet counts
)

// Cache key generators
func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providerListCacheKey(filter repositories.ProviderFilter) string {
	filterJSON, _ := json.Marshal(filter)
	return fmt.Sprintf("providers:list:%s", filterJSON)
}

const filterOptionsCacheKey = "providers:filter-options"

type cachedListResult struct {
	Providers []*entities.Provider `json:"providers"`
	Total     int                  `json:"total"`
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			return &provider, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Printf("Failed to unmarshal cached provider %s: %v", id, err)
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provider); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerByIDTTL); err != nil {
				log.Printf("Failed to cache provider %s: %v", id, err)
			}
		}
	}()

	return provider, nil
}

// ListWithCount retrieves a filtered provider page with caching
func (a *CachedProviderAdapter) ListWithCount(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, int, error) {
	cacheKey := providerListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var cachedResult cachedListResult
		if err := json.Unmarshal(cached, &cachedResult); err == nil {
			return cachedResult.Providers, cachedResult.Total, nil
		}
		log.Printf("Failed to unmarshal cached provider list: %v", err)
	}

	result, total, err := a.adapter.ListWithCount(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	go func() {
		bgCtx := context.Background()
		payload := cachedListResult{Providers: result, Total: total}
		if data, err := json.Marshal(payload); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerListTTL); err != nil {
				log.Printf("Failed to cache provider list: %v", err)
			}
		}
	}()

	return result, total, nil
}

// FilterOptions retrieves facet counts with caching. Counts only change
// on import, so they get the longest TTL.
func (a *CachedProviderAdapter) FilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	if cached, err := a.cache.Get(ctx, filterOptionsCacheKey); err == nil {
		var options entities.FilterOptions
		if err := json.Unmarshal(cached, &options); err == nil {
			return &options, nil
		}
		log.Printf("Failed to unmarshal cached filter options: %v", err)
	}

	options, err := a.adapter.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(options); err == nil {
			if err := a.cache.Set(bgCtx, filterOptionsCacheKey, data, filterOptionsTTL); err != nil {
				log.Printf("Failed to cache filter options: %v", err)
			}
		}
	}()

	return options, nil
}

// Create creates a provider and invalidates derived caches
func (a *CachedProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Create(ctx, provider); err != nil {
		return err
	}

	// Invalidate list and facet caches asynchronously
	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeleteByPrefix(bgCtx, "providers:list:"); err != nil {
			log.Printf("Failed to invalidate provider list cache: %v", err)
		}
		if err := a.cache.Delete(bgCtx, filterOptionsCacheKey); err != nil {
			log.Printf("Failed to invalidate filter options cache: %v", err)
		}
	}()

	return nil
}
