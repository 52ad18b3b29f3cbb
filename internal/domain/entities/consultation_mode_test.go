package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
)

func TestClassifyMode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want entities.ConsultationMode
	}{
		{"canonical in-person", "In-person", entities.ModeInPerson},
		{"spaced in-person", "In person", entities.ModeInPerson},
		{"lowercase in-person", "in-person", entities.ModeInPerson},
		{"truncated perso", "-perso", entities.ModeInPerson},
		{"single letter I", "I", entities.ModeInPerson},
		{"virtual telephonic", "Virtual telephonic", entities.ModeOnline},
		{"virtual video", "Virtual video-based", entities.ModeOnline},
		{"truncated telepho", "Virtual telepho", entities.ModeOnline},
		{"trailing fragment ic", "ic", entities.ModeOnline},
		{"plain online", "Online", entities.ModeOnline},
		{"plain virtual", "virtual", entities.ModeOnline},
		{"empty label", "", entities.ModeOther},
		{"unrelated label", "Home visits", entities.ModeOther},
		{"lone letter", "X", entities.ModeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entities.ClassifyMode(tt.raw))
		})
	}
}

// "In personic" satisfies both heuristics; the in-person check runs
// first and wins.
func TestClassifyMode_InPersonWinsAmbiguous(t *testing.T) {
	assert.Equal(t, entities.ModeInPerson, entities.ClassifyMode("In personic"))
	assert.Equal(t, entities.ModeInPerson, entities.ClassifyMode("person via video"))
}

// Every enumerated filter variant must classify into the bucket whose
// filter enumerates it, otherwise match-time filtering and count-time
// classification drift apart.
func TestModeVariants_AgreeWithClassifier(t *testing.T) {
	for _, variant := range entities.ModeVariants(string(entities.ModeInPerson)) {
		assert.Equal(t, entities.ModeInPerson, entities.ClassifyMode(variant), "variant %q", variant)
	}
	for _, variant := range entities.ModeVariants(string(entities.ModeOnline)) {
		assert.Equal(t, entities.ModeOnline, entities.ClassifyMode(variant), "variant %q", variant)
	}
}

func TestModeVariants_UnknownFallsBackToExact(t *testing.T) {
	assert.Equal(t, []string{"Home visits"}, entities.ModeVariants("Home visits"))
}

func TestConsolidateModeCounts(t *testing.T) {
	raw := []entities.FacetCount{
		{Key: "In-person", Count: 10},
		{Key: "in person", Count: 3},
		{Key: "Virtual telephonic", Count: 4},
		{Key: "Virtual video-based", Count: 6},
		{Key: "Home visits", Count: 2},
	}

	got := entities.ConsolidateModeCounts(raw)

	assert.Equal(t, []entities.FacetCount{
		{Key: "In-person", Count: 13},
		{Key: "Online", Count: 10},
	}, got)
}

func TestConsolidateModeCounts_Empty(t *testing.T) {
	got := entities.ConsolidateModeCounts(nil)

	assert.Equal(t, []entities.FacetCount{
		{Key: "In-person", Count: 0},
		{Key: "Online", Count: 0},
	}, got)
}
