package repositories

import (
	"context"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
)

// ProviderRepository defines the interface for provider data operations
type ProviderRepository interface {
	// Create inserts a new provider (bulk import path)
	Create(ctx context.Context, provider *entities.Provider) error

	// GetByID retrieves a provider by ID
	GetByID(ctx context.Context, id string) (*entities.Provider, error)

	// ListWithCount returns one page of providers matching the filter,
	// sorted by name ascending, together with the total match count
	// independent of the page window
	ListWithCount(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, int, error)

	// FilterOptions returns full-dataset facet counts for every
	// filterable dimension, independent of any active filter
	FilterOptions(ctx context.Context) (*entities.FilterOptions, error)
}

// ProviderSearchRepository defines the interface for the indexed
// free-text search primitive (e.g. Typesense)
type ProviderSearchRepository interface {
	// SearchIDs returns ids of providers matching the free-text query,
	// most relevant first
	SearchIDs(ctx context.Context, query string, limit int) ([]string, error)

	// Index indexes a provider
	Index(ctx context.Context, provider *entities.Provider) error

	// Delete removes a provider from the index
	Delete(ctx context.Context, id string) error
}

// ExperienceBucket selects a half-open experience-years range.
type ExperienceBucket string

const (
	ExperienceNone   ExperienceBucket = ""
	Experience0to5   ExperienceBucket = "0-5"
	Experience5to10  ExperienceBucket = "5-10"
	Experience10to15 ExperienceBucket = "10-15"
	Experience15Up   ExperienceBucket = "15+"
)

// Range returns the bucket bounds. Buckets are half-open except at
// zero: lower-exclusive, upper-inclusive, so every non-negative value
// falls into exactly one bucket (5 -> "0-5", 15 -> "10-15"). A nil
// bound means unbounded on that side.
func (b ExperienceBucket) Range() (min *float64, minInclusive bool, max *float64) {
	switch b {
	case Experience0to5:
		return f(0), true, f(5)
	case Experience5to10:
		return f(5), false, f(10)
	case Experience10to15:
		return f(10), false, f(15)
	case Experience15Up:
		return f(15), false, nil
	default:
		return nil, false, nil
	}
}

// ParseExperienceBucket maps a raw query value onto a bucket; anything
// unrecognized means no experience filter.
func ParseExperienceBucket(raw string) ExperienceBucket {
	switch ExperienceBucket(raw) {
	case Experience0to5, Experience5to10, Experience10to15, Experience15Up:
		return ExperienceBucket(raw)
	default:
		return ExperienceNone
	}
}

// FeeBucket selects a half-open fee-amount range, same pattern as
// ExperienceBucket ("under-2000" is upper-exclusive instead).
type FeeBucket string

const (
	FeeNone      FeeBucket = ""
	FeeUnder2000 FeeBucket = "under-2000"
	Fee2000to4k  FeeBucket = "2000-4000"
	Fee4kto6k    FeeBucket = "4000-6000"
	FeeAbove6k   FeeBucket = "above-6000"
)

// Range returns the bucket bounds; see ExperienceBucket.Range.
func (b FeeBucket) Range() (min *float64, minInclusive bool, max *float64, maxInclusive bool) {
	switch b {
	case FeeUnder2000:
		return nil, false, f(2000), false
	case Fee2000to4k:
		return f(2000), true, f(4000), true
	case Fee4kto6k:
		return f(4000), false, f(6000), true
	case FeeAbove6k:
		return f(6000), false, nil, false
	default:
		return nil, false, nil, false
	}
}

// ParseFeeBucket maps a raw query value onto a bucket; anything
// unrecognized means no fee filter.
func ParseFeeBucket(raw string) FeeBucket {
	switch FeeBucket(raw) {
	case FeeUnder2000, Fee2000to4k, Fee4kto6k, FeeAbove6k:
		return FeeBucket(raw)
	default:
		return FeeNone
	}
}

func f(v float64) *float64 { return &v }

// ProviderFilter is the typed form of the list-endpoint query
// parameters. It is built once at the HTTP boundary; everything
// downstream consumes only this.
type ProviderFilter struct {
	Cities     []string
	Genders    []string
	Modes      []string
	Experience ExperienceBucket
	Fee        FeeBucket

	// Search is the trimmed free-text query; empty means no text
	// filter. Queries shorter than 3 characters use substring matching,
	// longer ones the indexed search primitive.
	Search string

	// IDs restricts matching to the given ids when RestrictToIDs is
	// set (populated from the external search index). An empty id list
	// with RestrictToIDs true matches nothing.
	IDs           []string
	RestrictToIDs bool

	Page  int
	Limit int
}

// Offset returns the number of records to skip for the current page.
func (f ProviderFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
