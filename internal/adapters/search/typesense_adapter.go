package search

import (
	"context"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
	tsclient "github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/typesense"
	apperrors "github.com/zatekoja/Therapistdirectorydesign/backend/pkg/errors"
)

// TypesenseAdapter implements provider free-text search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderSearchRepository
var _ repositories.ProviderSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the providers collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index indexes a provider's searchable fields
func (a *TypesenseAdapter) Index(ctx context.Context, provider *entities.Provider) error {
	document := map[string]interface{}{
		"id":          provider.ID,
		"name":        provider.Name,
		"city":        provider.City,
		"gender":      provider.Gender,
		"specialties": provider.Specialties,
		"education":   provider.Education,
		"about":       provider.About,
		"created_at":  provider.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return apperrors.NewExternalError("failed to index provider", err)
	}

	return nil
}

// Delete removes a provider from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Document(id).Delete(ctx)
	if err != nil {
		return apperrors.NewExternalError("failed to delete provider from index", err)
	}
	return nil
}

// SearchIDs runs a free-text query and returns matching provider IDs in
// relevance order. Only IDs come back; the record store resolves full
// rows so the remaining filters apply uniformly.
func (a *TypesenseAdapter) SearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,specialties,education,about"),
		Page:    pointer.Int(1),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to search providers", err)
	}

	ids := []string{}
	if result.Hits == nil {
		return ids, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		if id, ok := doc["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}
