package handlers_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

func TestParseProviderFilter_Defaults(t *testing.T) {
	filter := handlers.ParseProviderFilter(url.Values{})

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 12, filter.Limit)
	assert.Empty(t, filter.Cities)
	assert.Empty(t, filter.Genders)
	assert.Empty(t, filter.Modes)
	assert.Equal(t, repositories.ExperienceNone, filter.Experience)
	assert.Equal(t, repositories.FeeNone, filter.Fee)
	assert.Equal(t, "", filter.Search)
}

func TestParseProviderFilter_PageClamping(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"valid page", "3", 3},
		{"zero clamps to one", "0", 1},
		{"negative clamps to one", "-4", 1},
		{"garbage defaults to one", "abc", 1},
		{"empty defaults to one", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := handlers.ParseProviderFilter(url.Values{"page": {tt.raw}})
			assert.Equal(t, tt.want, filter.Page)
		})
	}
}

func TestParseProviderFilter_LimitClamping(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"valid limit", "30", 30},
		{"zero takes the default", "0", 12},
		{"negative takes the default", "-1", 12},
		{"oversized clamps to max", "500", 100},
		{"garbage defaults", "many", 12},
		{"empty defaults", "", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := handlers.ParseProviderFilter(url.Values{"limit": {tt.raw}})
			assert.Equal(t, tt.want, filter.Limit)
		})
	}
}

func TestParseProviderFilter_ListParams(t *testing.T) {
	t.Run("comma joined", func(t *testing.T) {
		filter := handlers.ParseProviderFilter(url.Values{"cities": {"Lahore,Karachi"}})
		assert.Equal(t, []string{"Lahore", "Karachi"}, filter.Cities)
	})

	t.Run("repeated keys", func(t *testing.T) {
		filter := handlers.ParseProviderFilter(url.Values{"cities": {"Lahore", "Karachi"}})
		assert.Equal(t, []string{"Lahore", "Karachi"}, filter.Cities)
	})

	t.Run("mixed styles", func(t *testing.T) {
		filter := handlers.ParseProviderFilter(url.Values{"genders": {"Male,Female", "Other"}})
		assert.Equal(t, []string{"Male", "Female", "Other"}, filter.Genders)
	})

	t.Run("blank entries dropped", func(t *testing.T) {
		filter := handlers.ParseProviderFilter(url.Values{"modes": {"In-person,, ,Online"}})
		assert.Equal(t, []string{"In-person", "Online"}, filter.Modes)
	})
}

func TestParseProviderFilter_Buckets(t *testing.T) {
	filter := handlers.ParseProviderFilter(url.Values{
		"experience": {"5-10"},
		"feeRange":   {"under-2000"},
	})
	assert.Equal(t, repositories.Experience5to10, filter.Experience)
	assert.Equal(t, repositories.FeeUnder2000, filter.Fee)

	// Unknown bucket labels mean no filter, not an error
	filter = handlers.ParseProviderFilter(url.Values{
		"experience": {"junior"},
		"feeRange":   {"free"},
	})
	assert.Equal(t, repositories.ExperienceNone, filter.Experience)
	assert.Equal(t, repositories.FeeNone, filter.Fee)
}

func TestParseProviderFilter_SearchTrimmed(t *testing.T) {
	filter := handlers.ParseProviderFilter(url.Values{"search": {"  anxiety  "}})
	assert.Equal(t, "anxiety", filter.Search)

	filter = handlers.ParseProviderFilter(url.Values{"search": {"   "}})
	assert.Equal(t, "", filter.Search)
}
