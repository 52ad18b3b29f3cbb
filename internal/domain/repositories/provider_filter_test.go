package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

// bucketFor resolves which experience bucket a value lands in given the
// bucket bounds, mirroring how the record store applies them.
func experienceBucketFor(value float64) repositories.ExperienceBucket {
	buckets := []repositories.ExperienceBucket{
		repositories.Experience0to5,
		repositories.Experience5to10,
		repositories.Experience10to15,
		repositories.Experience15Up,
	}
	for _, b := range buckets {
		min, minInclusive, max := b.Range()
		if min != nil {
			if minInclusive && value < *min {
				continue
			}
			if !minInclusive && value <= *min {
				continue
			}
		}
		if max != nil && value > *max {
			continue
		}
		return b
	}
	return repositories.ExperienceNone
}

func feeBucketFor(value float64) repositories.FeeBucket {
	buckets := []repositories.FeeBucket{
		repositories.FeeUnder2000,
		repositories.Fee2000to4k,
		repositories.Fee4kto6k,
		repositories.FeeAbove6k,
	}
	for _, b := range buckets {
		min, minInclusive, max, maxInclusive := b.Range()
		if min != nil {
			if minInclusive && value < *min {
				continue
			}
			if !minInclusive && value <= *min {
				continue
			}
		}
		if max != nil {
			if maxInclusive && value > *max {
				continue
			}
			if !maxInclusive && value >= *max {
				continue
			}
		}
		return b
	}
	return repositories.FeeNone
}

// Edge values must land in exactly one bucket: upper bounds are
// inclusive, so 5 belongs to "0-5" and 15 to "10-15".
func TestExperienceBucket_EdgeValues(t *testing.T) {
	tests := []struct {
		value float64
		want  repositories.ExperienceBucket
	}{
		{0, repositories.Experience0to5},
		{3, repositories.Experience0to5},
		{5, repositories.Experience0to5},
		{5.1, repositories.Experience5to10},
		{10, repositories.Experience5to10},
		{10.5, repositories.Experience10to15},
		{15, repositories.Experience10to15},
		{15.1, repositories.Experience15Up},
		{40, repositories.Experience15Up},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, experienceBucketFor(tt.value), "value %v", tt.value)
	}
}

// "under-2000" is upper-exclusive so 2000 starts the next bucket; the
// other edges are upper-inclusive.
func TestFeeBucket_EdgeValues(t *testing.T) {
	tests := []struct {
		value float64
		want  repositories.FeeBucket
	}{
		{0, repositories.FeeUnder2000},
		{1999.99, repositories.FeeUnder2000},
		{2000, repositories.Fee2000to4k},
		{4000, repositories.Fee2000to4k},
		{4000.01, repositories.Fee4kto6k},
		{6000, repositories.Fee4kto6k},
		{6000.01, repositories.FeeAbove6k},
		{25000, repositories.FeeAbove6k},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, feeBucketFor(tt.value), "value %v", tt.value)
	}
}

func TestParseExperienceBucket(t *testing.T) {
	assert.Equal(t, repositories.Experience0to5, repositories.ParseExperienceBucket("0-5"))
	assert.Equal(t, repositories.Experience15Up, repositories.ParseExperienceBucket("15+"))
	assert.Equal(t, repositories.ExperienceNone, repositories.ParseExperienceBucket(""))
	assert.Equal(t, repositories.ExperienceNone, repositories.ParseExperienceBucket("20-30"))
	assert.Equal(t, repositories.ExperienceNone, repositories.ParseExperienceBucket("bogus"))
}

func TestParseFeeBucket(t *testing.T) {
	assert.Equal(t, repositories.FeeUnder2000, repositories.ParseFeeBucket("under-2000"))
	assert.Equal(t, repositories.FeeAbove6k, repositories.ParseFeeBucket("above-6000"))
	assert.Equal(t, repositories.FeeNone, repositories.ParseFeeBucket(""))
	assert.Equal(t, repositories.FeeNone, repositories.ParseFeeBucket("cheap"))
}

func TestBucketRange_NoneIsUnbounded(t *testing.T) {
	min, _, max := repositories.ExperienceNone.Range()
	require.Nil(t, min)
	require.Nil(t, max)

	fmin, _, fmax, _ := repositories.FeeNone.Range()
	require.Nil(t, fmin)
	require.Nil(t, fmax)
}

func TestProviderFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, repositories.ProviderFilter{Page: 1, Limit: 12}.Offset())
	assert.Equal(t, 12, repositories.ProviderFilter{Page: 2, Limit: 12}.Offset())
	assert.Equal(t, 400, repositories.ProviderFilter{Page: 5, Limit: 100}.Offset())
}
