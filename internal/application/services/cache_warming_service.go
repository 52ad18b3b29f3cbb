package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

// CacheWarmingService pre-populates the caches the landing page hits:
// the facet counts and the first unfiltered provider pages.
type CacheWarmingService struct {
	providerRepo repositories.ProviderRepository
	cache        providers.CacheProvider
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(
	providerRepo repositories.ProviderRepository,
	cache providers.CacheProvider,
) *CacheWarmingService {
	return &CacheWarmingService{
		providerRepo: providerRepo,
		cache:        cache,
	}
}

// WarmCache warms the cache with frequently accessed data
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	log.Println("Starting cache warming...")

	if err := s.warmFilterOptions(ctx); err != nil {
		log.Printf("Failed to warm filter options: %v", err)
	}

	if err := s.warmProviderPages(ctx); err != nil {
		log.Printf("Failed to warm provider pages: %v", err)
	}

	log.Println("Cache warming completed")
	return nil
}

// warmFilterOptions caches the full-dataset facet counts
func (s *CacheWarmingService) warmFilterOptions(ctx context.Context) error {
	options, err := s.providerRepo.FilterOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch filter options: %w", err)
	}

	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("failed to marshal filter options: %w", err)
	}

	if err := s.cache.Set(ctx, "providers:filter-options", data, 600); err != nil {
		return fmt.Errorf("failed to cache filter options: %w", err)
	}

	log.Println("Warmed cache with filter options")
	return nil
}

// warmProviderPages caches the first pages of the unfiltered listing
func (s *CacheWarmingService) warmProviderPages(ctx context.Context) error {
	for page := 1; page <= 3; page++ {
		filter := repositories.ProviderFilter{Page: page, Limit: 12}

		result, total, err := s.providerRepo.ListWithCount(ctx, filter)
		if err != nil {
			log.Printf("Failed to fetch provider page %d: %v", page, err)
			continue
		}

		payload := struct {
			Providers interface{} `json:"providers"`
			Total     int         `json:"total"`
		}{Providers: result, Total: total}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal provider page %d: %v", page, err)
			continue
		}

		filterJSON, _ := json.Marshal(filter)
		key := fmt.Sprintf("providers:list:%s", filterJSON)
		if err := s.cache.Set(ctx, key, data, 120); err != nil {
			log.Printf("Failed to cache provider page %d: %v", page, err)
		}
	}

	log.Println("Warmed cache with provider pages")
	return nil
}

// StartPeriodicWarming starts a background goroutine that periodically warms the cache
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	// Initial warming
	if err := s.WarmCache(ctx); err != nil {
		log.Printf("Initial cache warming failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(context.Background()); err != nil {
					log.Printf("Periodic cache warming failed: %v", err)
				}
			}
		}
	}()
	log.Printf("Started periodic cache warming every %v", interval)
}
