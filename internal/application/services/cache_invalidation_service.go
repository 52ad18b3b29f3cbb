package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/providers"
)

// CacheInvalidationService drops derived caches when the directory
// dataset changes. The dataset only changes on import, so invalidation
// is coarse: one event clears everything computed from the records.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for directory events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDirectoryUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to directory updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DirectoryEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.DirectoryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("Processing cache invalidation for event: %s (type: %s, records: %d)",
		event.ID, event.Type, event.RecordCount)

	if err := s.InvalidateDirectoryCaches(ctx); err != nil {
		log.Printf("Warning: Failed to invalidate directory caches: %v", err)
	}
}

// InvalidateDirectoryCaches clears every cache derived from provider
// records: single records, list pages, facet counts and cached HTTP
// responses.
func (s *CacheInvalidationService) InvalidateDirectoryCaches(ctx context.Context) error {
	prefixes := []string{
		"provider:",
		"providers:",
		"http:cache:",
	}

	for _, prefix := range prefixes {
		if err := s.cache.DeleteByPrefix(ctx, prefix); err != nil {
			return fmt.Errorf("failed to invalidate prefix %s: %w", prefix, err)
		}
		log.Printf("Invalidated cache prefix: %s", prefix)
	}

	return nil
}
