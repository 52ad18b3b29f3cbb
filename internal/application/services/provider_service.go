package services

import (
	"context"
	"log"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

// maxSearchIDs caps how many ids the external search index may hand back
// for one query. Beyond this the IN clause stops being cheap and the
// tail results are noise anyway.
const maxSearchIDs = 250

// ProviderService handles business logic for the provider directory
type ProviderService struct {
	repo       repositories.ProviderRepository
	searchRepo repositories.ProviderSearchRepository
}

// NewProviderService creates a new provider service
func NewProviderService(repo repositories.ProviderRepository, searchRepo repositories.ProviderSearchRepository) *ProviderService {
	return &ProviderService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create creates a new provider and indexes it
func (s *ProviderService) Create(ctx context.Context, provider *entities.Provider) error {
	if err := s.repo.Create(ctx, provider); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, provider); err != nil {
			// Log but don't fail the request (eventual consistency)
			log.Printf("Warning: Failed to index provider %s: %v", provider.ID, err)
		}
	}

	return nil
}

// GetByID retrieves a provider by ID
func (s *ProviderService) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves one page of providers matching the filter. Long search
// queries go through the external index first when one is configured;
// the resulting ids replace the text predicate so the record store can
// apply the remaining filters, sort and paginate uniformly.
func (s *ProviderService) List(ctx context.Context, filter repositories.ProviderFilter) (*entities.ProviderPage, error) {
	if s.searchRepo != nil && filter.Search != "" && !isShortSearch(filter.Search) {
		ids, err := s.searchRepo.SearchIDs(ctx, filter.Search, maxSearchIDs)
		if err != nil {
			// Fall back to the record store's own text search
			log.Printf("Warning: search index unavailable, falling back to database search: %v", err)
		} else {
			filter.IDs = ids
			filter.RestrictToIDs = true
		}
	}

	providers, total, err := s.repo.ListWithCount(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &entities.ProviderPage{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Data:  providers,
	}, nil
}

// FilterOptions returns facet counts over the entire directory
func (s *ProviderService) FilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	return s.repo.FilterOptions(ctx)
}

// isShortSearch mirrors the record store's cutoff between substring and
// indexed matching.
func isShortSearch(query string) bool {
	return len([]rune(query)) < 3
}
